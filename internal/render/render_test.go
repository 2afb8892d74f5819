package render

import (
	"errors"
	"strings"
	"testing"

	"designlift/internal/tokens"
)

func TestDecodeSnapshot(t *testing.T) {
	raw := `{
		"root": {"background": "rgb(255, 255, 255)", "color": "rgb(0, 0, 0)"},
		"body": {"fontFamily": "Inter, sans-serif", "fontSize": "16px"},
		"heading": {"fontFamily": "Poppins", "fontWeight": "700"},
		"headingSizes": {"h1": "48px"},
		"elements": [{"role": "button", "background": "rgb(37, 99, 235)", "borderRadius": "6px"}],
		"customProperties": {"--primary": "#2563eb"},
		"fontUrls": ["https://fonts.googleapis.com/css2?family=Inter"]
	}`
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Root.Background != "rgb(255, 255, 255)" || snap.Body.FontSize != "16px" {
		t.Fatalf("unexpected styles %+v %+v", snap.Root, snap.Body)
	}
	if snap.Heading == nil || snap.Heading.FontFamily != "Poppins" {
		t.Fatalf("expected heading style, got %+v", snap.Heading)
	}
	if len(snap.Elements) != 1 || snap.Elements[0].Role != tokens.RoleButton {
		t.Fatalf("unexpected elements %+v", snap.Elements)
	}
	if snap.CustomProperties["--primary"] != "#2563eb" || len(snap.FontURLs) != 1 {
		t.Fatalf("unexpected props/fonts %+v %+v", snap.CustomProperties, snap.FontURLs)
	}
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	_, err := DecodeSnapshot("not json")
	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if re.Stage != "decode" || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSnapshotScriptIsEmbedded(t *testing.T) {
	if !strings.Contains(snapshotScript, "JSON.stringify") {
		t.Fatalf("snapshot script missing")
	}
}
