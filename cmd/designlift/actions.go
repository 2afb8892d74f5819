package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"designlift/internal/bootstrap"
	"designlift/internal/config"
	"designlift/internal/fetcher"
	"designlift/internal/policy"
	"designlift/internal/services"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// loadConfig reads --config when given and applies the extract flags on
// top. Without a file the CLI works on local defaults only.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Read(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.Assets.Enabled = true
		cfg.Robots.Respect = true
	}
	// The CLI never touches the database.
	cfg.Database.DSN = ""

	if c.IsSet("assets-dir") {
		cfg.Assets.Root = c.String("assets-dir")
	}
	if c.Bool("no-assets") {
		cfg.Assets.Enabled = false
	}
	if c.Bool("browser") {
		cfg.Fetcher.Engine = "browser"
		cfg.Rod.Enabled = true
	}
	if c.Bool("render") {
		cfg.Tokens.Render = true
		cfg.Rod.Enabled = true
	}
	if c.IsSet("control-url") {
		cfg.Rod.ControlURL = c.String("control-url")
	}
	if c.IsSet("timeout") || cfg.Fetcher.TimeoutMs == 0 {
		cfg.Fetcher.TimeoutMs = c.Int("timeout")
	}
	return cfg, nil
}

func ExtractAction(c *cli.Context) error {
	logger := newLogger(c)

	target := c.String("url")
	if target == "" {
		target = c.Args().First()
	}
	if target == "" {
		return cli.Exit("missing --url", 1)
	}

	format := strings.ToLower(c.String("format"))
	if format != "json" && format != "brief" {
		return cli.Exit(fmt.Sprintf("unknown format %q (expected json or brief)", format), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	comp := bootstrap.NewComponents(cfg, logger)
	svc := comp.NewExtractionService(nil)

	req := &services.ExtractRequest{
		URL:       target,
		Prompt:    c.String("prompt"),
		ProjectID: c.String("project"),
		Tier:      c.String("tier"),
	}
	if name := c.String("business-name"); name != "" {
		req.Overrides = &policy.Overrides{BusinessName: name}
	}

	res, err := svc.Extract(context.Background(), req)
	if err != nil {
		var fe *fetcher.FetchError
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			return cli.Exit(err.Error(), 1)
		case errors.As(err, &fe):
			logger.Error("could not access this URL", "url", fe.URL, "status", fe.Status, "reason", fe.Reason)
			return cli.Exit(fe.Error(), 2)
		default:
			return cli.Exit(err.Error(), 2)
		}
	}

	if format == "brief" {
		fmt.Fprintln(c.App.Writer, res.Brief)
		return nil
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func TierAction(c *cli.Context) error {
	prompt := strings.Join(c.Args().Slice(), " ")
	tier := policy.DetectTier(prompt)
	cfg := policy.BuildConfig(tier, &policy.Overrides{BusinessName: policy.InferBusinessName(prompt)})

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
