package tokens

import "designlift/internal/model"

const defaultRadius = "8px"

// DefaultPalette is a neutral light palette used when nothing could be read
// from the page.
func DefaultPalette() model.ColorPalette {
	return model.ColorPalette{
		Primary:    "#2563eb",
		Secondary:  "#64748b",
		Accent:     "#2563eb",
		Background: "#ffffff",
		Foreground: "#111827",
		Muted:      "#6b7280",
		Border:     "#e5e7eb",
	}
}

func DefaultTypography() model.Typography {
	return model.Typography{
		HeadingFont:   "Inter",
		BodyFont:      "Inter",
		HeadingWeight: "700",
		BodyWeight:    "400",
		HeadingSizes:  model.HeadingSizes{H1: "48px", H2: "36px", H3: "24px", H4: "20px"},
		BodySize:      "16px",
		LineHeight:    "1.5",
		LetterSpacing: "normal",
	}
}
