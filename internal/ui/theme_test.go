package ui

import (
	"testing"

	"github.com/five82/learnai/internal/render"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate", "Paper"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Paper",
		"Paper":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range cases {
		if got := NextTheme(in); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		if th.Background == "" || th.Text == "" || th.Accent == "" || th.Danger == "" {
			t.Fatalf("theme %q has empty colors: %+v", name, th)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemeMarkdownStyles(t *testing.T) {
	if GetTheme("Paper").Markdown != render.StyleLight {
		t.Fatalf("light theme should render light markdown")
	}
	if GetTheme("Nightfox").Markdown != render.StyleDark {
		t.Fatalf("dark theme should render dark markdown")
	}
}

func TestBgStyleRender(t *testing.T) {
	bg := NewBgStyle("#000000")
	if bg.Render("", GetTheme("Slate").Styles().Text) != "" {
		t.Fatalf("empty text should render empty")
	}
	if bg.Space() == "" || bg.Spaces(3) == "" {
		t.Fatalf("spaces should render")
	}
}
