// Package item turns recognised tooltip text into structured Diablo IV items.
//
// Parsing is total: every input, including an empty string or pure noise,
// produces a DiabloItem. Missing fields fall back to their documented
// defaults, so a caller always has something to display. An empty Options
// slice is the signal that no affixes were found.
package item

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ItemOption is one affix line of an item, e.g. "+15.0% 공격 속도".
type ItemOption struct {
	// Name is the descriptive text with the value removed and trimmed.
	Name string `json:"name"`

	// Value keeps the original sign and unit marker, e.g. "+12.5%" or "-3".
	Value string `json:"value"`
}

// Magnitude parses Value as a decimal number. The sign is kept, thousands
// separators and a trailing percent sign are dropped. It reports false when
// the value is not a well-formed number (recognition noise such as "1.2.3").
func (o ItemOption) Magnitude() (decimal.Decimal, bool) {
	v := strings.TrimSuffix(o.Value, "%")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimPrefix(v, "+")
	if v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsPercent reports whether the value carries a percent sign.
func (o ItemOption) IsPercent() bool {
	return strings.HasSuffix(o.Value, "%")
}

// DiabloItem is the structured record parsed from one tooltip screenshot.
type DiabloItem struct {
	// Name is the first non-empty line of the text, verbatim after trimming.
	Name string `json:"name"`

	// Power is the item power score, 0 when not found.
	Power int `json:"power"`

	// RequiredLevel is the minimum character level, 0 when not found.
	RequiredLevel int `json:"requiredLevel"`

	// Type is one of the vocabulary's item-type labels or its "other" sentinel.
	Type string `json:"type"`

	// Options are the affix lines in order of appearance.
	Options []ItemOption `json:"options"`

	// RawText is the unmodified input, kept for diagnostics.
	RawText string `json:"rawText"`
}

// HasOptions reports whether any affix line was recognised.
func (d DiabloItem) HasOptions() bool {
	return len(d.Options) > 0
}
