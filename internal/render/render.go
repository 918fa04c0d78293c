// Package render formats a parsed item as terminal text, optionally with
// 24-bit ANSI colours.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ironsheep/item-ocr-mcp/internal/item"
)

// Labels shown around the parsed values.
const (
	PowerPrefix = "위력"
	LevelPrefix = "요구 레벨:"
	NoOptions   = "옵션을 찾지 못했습니다."
)

const optionGap = 2

// Palette holds the colour of each part of the output.
type Palette struct {
	Name        colorful.Color
	Type        colorful.Color
	Power       colorful.Color
	Level       colorful.Color
	OptionName  colorful.Color
	OptionValue colorful.Color
	FlatValue   colorful.Color
	Negative    colorful.Color
	Muted       colorful.Color
}

// DefaultPalette mirrors the tooltip colours of the game: gold name, orange
// power, blue percentages, white flat bonuses and red penalties.
func DefaultPalette() Palette {
	return Palette{
		Name:        colorful.MustParseHex("#EAB308"),
		Type:        colorful.MustParseHex("#9CA3AF"),
		Power:       colorful.MustParseHex("#FB923C"),
		Level:       colorful.MustParseHex("#6B7280"),
		OptionName:  colorful.MustParseHex("#D1D5DB"),
		OptionValue: colorful.MustParseHex("#60A5FA"),
		FlatValue:   colorful.MustParseHex("#F3F4F6"),
		Negative:    colorful.MustParseHex("#F87171"),
		Muted:       colorful.MustParseHex("#6B7280"),
	}
}

// Renderer writes items as text. The zero value renders without colour.
type Renderer struct {
	Color   bool
	Palette Palette
}

// New returns a renderer using DefaultPalette.
func New(color bool) *Renderer {
	return &Renderer{Color: color, Palette: DefaultPalette()}
}

// Render writes it to w.
func (r *Renderer) Render(w io.Writer, it item.DiabloItem) error {
	_, err := io.WriteString(w, r.String(it))
	return err
}

// String returns the rendered item, one field per line, options last.
func (r *Renderer) String(it item.DiabloItem) string {
	var b strings.Builder

	b.WriteString(r.paint(r.Palette.Name, it.Name))
	b.WriteByte('\n')
	b.WriteString(r.paint(r.Palette.Type, it.Type))
	b.WriteByte('\n')
	b.WriteString(r.paint(r.Palette.Power, fmt.Sprintf("%s %d", PowerPrefix, it.Power)))
	b.WriteByte('\n')
	b.WriteString(r.paint(r.Palette.Level, fmt.Sprintf("%s %d", LevelPrefix, it.RequiredLevel)))
	b.WriteByte('\n')

	if !it.HasOptions() {
		b.WriteString(r.paint(r.Palette.Muted, NoOptions))
		b.WriteByte('\n')
		return b.String()
	}

	width := 0
	for _, opt := range it.Options {
		width = max(width, runewidth.StringWidth(opt.Name))
	}
	for _, opt := range it.Options {
		name := runewidth.FillRight(opt.Name, width+optionGap)
		b.WriteString(r.paint(r.Palette.OptionName, name))
		b.WriteString(r.paint(r.valueColor(opt), opt.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// valueColor picks the colour of an option value. Values that do not parse
// as a number are recognition noise and shown muted.
func (r *Renderer) valueColor(opt item.ItemOption) colorful.Color {
	m, ok := opt.Magnitude()
	switch {
	case !ok:
		return r.Palette.Muted
	case m.IsNegative():
		return r.Palette.Negative
	case opt.IsPercent():
		return r.Palette.OptionValue
	default:
		return r.Palette.FlatValue
	}
}

func (r *Renderer) paint(c colorful.Color, s string) string {
	if !r.Color {
		return s
	}
	cr, cg, cb := c.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", cr, cg, cb, s)
}
