package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "designlift",
		Usage: "extract sections, design tokens and assets from a web page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "optional YAML config file; flags override it"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "run one extraction and print the result",
				ArgsUsage: "[url]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "page to extract"},
					&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "free-text request used to detect the fidelity tier"},
					&cli.StringFlag{Name: "tier", Usage: "force a tier: inspiration, replica or exact"},
					&cli.StringFlag{Name: "project", Usage: "project id for stored assets (generated when empty)"},
					&cli.StringFlag{Name: "business-name", Usage: "name of the business the site is for"},
					&cli.StringFlag{Name: "assets-dir", Usage: "directory for stored assets"},
					&cli.BoolFlag{Name: "no-assets", Usage: "skip asset downloads"},
					&cli.BoolFlag{Name: "browser", Usage: "fetch the page with a headless browser"},
					&cli.BoolFlag{Name: "render", Usage: "read computed styles with a headless browser"},
					&cli.StringFlag{Name: "control-url", Usage: "DevTools URL of a running browser"},
					&cli.IntFlag{Name: "timeout", Usage: "page fetch timeout in milliseconds", Value: 30000},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output: json or brief", Value: "json"},
				},
				Action: ExtractAction,
			},
			{
				Name:      "tier",
				Usage:     "detect the fidelity tier of a prompt",
				ArgsUsage: "<prompt>",
				Action:    TierAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
