// Package style defines the fixed catalog of document style presets.
package style

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for style selection.
var (
	ErrStyleNotFound = errors.New("style not found")
	ErrInvalidAccent = errors.New("invalid accent color")
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Style is the set of tokens substituted into a rendered document
type Style struct {
	Name                 string `json:"name"`
	HeadingFont          string `json:"headingFont"`
	BodyFont             string `json:"bodyFont"`
	CodeFont             string `json:"codeFont"`
	Background           string `json:"background"`
	Text                 string `json:"text"`
	Accent               string `json:"accent"`
	Muted                string `json:"muted"`
	Surface              string `json:"surface"`
	Border               string `json:"border"`
	Link                 string `json:"link"`
	BlockquoteBorder     string `json:"blockquoteBorder"`
	BlockquoteBackground string `json:"blockquoteBackground"`
	MaxWidth             string `json:"maxWidth"`
	// CodeTheme names the chroma style used for server-side highlighting.
	CodeTheme string `json:"codeTheme"`
}

// WithAccent returns a copy of s whose link and blockquote border use color.
func (s Style) WithAccent(color string) (Style, error) {
	color = strings.TrimSpace(color)
	if !hexColorRe.MatchString(color) {
		return s, fmt.Errorf("%w: %q", ErrInvalidAccent, color)
	}
	s.Link = color
	s.BlockquoteBorder = color
	return s, nil
}

// Preset enumerates the built-in styles.
type Preset int

// Built-in presets.
const (
	Editorial Preset = iota
	Minimal
	Technical
	Warm
	Midnight
)

var presetNames = map[Preset]string{
	Editorial: "editorial",
	Minimal:   "minimal",
	Technical: "technical",
	Warm:      "warm",
	Midnight:  "midnight",
}

// String returns the catalog name of the preset.
func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// Presets returns every built-in preset in catalog order.
func Presets() []Preset {
	return []Preset{Editorial, Minimal, Technical, Warm, Midnight}
}

// ParsePreset resolves a catalog name case-insensitively.
func ParsePreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if presetNames[p] == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrStyleNotFound, name, strings.Join(Names(), ", "))
}

// Names returns the catalog names in order.
func Names() []string {
	names := make([]string, 0, len(presetNames))
	for _, p := range Presets() {
		names = append(names, p.String())
	}
	return names
}

// Lookup resolves name and applies an optional accent override.
func Lookup(name, accent string) (Style, error) {
	p, err := ParsePreset(name)
	if err != nil {
		return Style{}, err
	}
	s := p.Style()
	if accent == "" {
		return s, nil
	}
	return s.WithAccent(accent)
}

// Style returns the token record for the preset. Unknown values yield Editorial.
func (p Preset) Style() Style {
	switch p {
	case Minimal:
		return Style{
			Name:                 "minimal",
			HeadingFont:          `"Inter", "Helvetica Neue", Arial, sans-serif`,
			BodyFont:             `"Inter", "Helvetica Neue", Arial, sans-serif`,
			CodeFont:             `"SF Mono", Menlo, Consolas, monospace`,
			Background:           "#ffffff",
			Text:                 "#1a1a1a",
			Accent:               "#111111",
			Muted:                "#6b6b6b",
			Surface:              "#f5f5f5",
			Border:               "#e5e5e5",
			Link:                 "#0a58ca",
			BlockquoteBorder:     "#d4d4d4",
			BlockquoteBackground: "#fafafa",
			MaxWidth:             "680px",
			CodeTheme:            "github",
		}
	case Technical:
		return Style{
			Name:                 "technical",
			HeadingFont:          `"IBM Plex Sans", "Segoe UI", sans-serif`,
			BodyFont:             `"IBM Plex Sans", "Segoe UI", sans-serif`,
			CodeFont:             `"IBM Plex Mono", "JetBrains Mono", monospace`,
			Background:           "#fbfcfd",
			Text:                 "#1f2933",
			Accent:               "#0f62fe",
			Muted:                "#52606d",
			Surface:              "#eef2f6",
			Border:               "#d9e2ec",
			Link:                 "#0f62fe",
			BlockquoteBorder:     "#0f62fe",
			BlockquoteBackground: "#edf5ff",
			MaxWidth:             "820px",
			CodeTheme:            "xcode",
		}
	case Warm:
		return Style{
			Name:                 "warm",
			HeadingFont:          `"Fraunces", Georgia, serif`,
			BodyFont:             `"Source Serif Pro", Georgia, serif`,
			CodeFont:             `"Fira Code", Menlo, monospace`,
			Background:           "#fdf8f2",
			Text:                 "#3d2c1e",
			Accent:               "#c2410c",
			Muted:                "#8a6d56",
			Surface:              "#f6ebdd",
			Border:               "#eadbc8",
			Link:                 "#b45309",
			BlockquoteBorder:     "#ea580c",
			BlockquoteBackground: "#fff3e6",
			MaxWidth:             "700px",
			CodeTheme:            "autumn",
		}
	case Midnight:
		return Style{
			Name:                 "midnight",
			HeadingFont:          `"Space Grotesk", "Inter", sans-serif`,
			BodyFont:             `"Inter", "Helvetica Neue", sans-serif`,
			CodeFont:             `"JetBrains Mono", Menlo, monospace`,
			Background:           "#0d1117",
			Text:                 "#e6edf3",
			Accent:               "#a371f7",
			Muted:                "#8b949e",
			Surface:              "#161b22",
			Border:               "#30363d",
			Link:                 "#58a6ff",
			BlockquoteBorder:     "#a371f7",
			BlockquoteBackground: "#1c2030",
			MaxWidth:             "760px",
			CodeTheme:            "monokai",
		}
	default:
		return Style{
			Name:                 "editorial",
			HeadingFont:          `"Playfair Display", Georgia, serif`,
			BodyFont:             `"Lora", Georgia, serif`,
			CodeFont:             `"JetBrains Mono", Menlo, monospace`,
			Background:           "#fffdf9",
			Text:                 "#222222",
			Accent:               "#9b2c2c",
			Muted:                "#6b7280",
			Surface:              "#f4f1ea",
			Border:               "#e7e2d8",
			Link:                 "#9b2c2c",
			BlockquoteBorder:     "#9b2c2c",
			BlockquoteBackground: "#faf5ee",
			MaxWidth:             "720px",
			CodeTheme:            "friendly",
		}
	}
}
