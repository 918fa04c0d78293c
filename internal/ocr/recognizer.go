package ocr

import (
	"context"
	"errors"
	"image"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// DefaultLanguage is the Tesseract language hint for Korean tooltips.
const DefaultLanguage = "kor+eng"

// Recognition phases reported through ProgressFunc.
const (
	PhaseInitializing = "initializing api"
	PhaseRecognizing  = "recognizing text"
)

// ErrEmptyImage is returned when a zero-area image is handed to a Recognizer.
var ErrEmptyImage = errors.New("image has no pixels")

// Recognizer converts an image into recognised text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Progress is one progress report from the engine.
type Progress struct {
	// Phase names the current step, e.g. PhaseRecognizing.
	Phase string `json:"phase"`

	// Fraction is the completion of the phase in [0,1].
	Fraction float64 `json:"fraction"`
}

// ProgressFunc receives progress reports. ctx is the context passed to
// Recognize.
type ProgressFunc func(ctx context.Context, p Progress)

// Info describes the availability of the recognition engine.
type Info struct {
	Available      bool     `json:"available"`
	Version        string   `json:"version,omitempty"`
	Error          string   `json:"error,omitempty"`
	Backend        string   `json:"backend"`
	Languages      []string `json:"languages"`
	TessdataPrefix string   `json:"tessdata_prefix,omitempty"`
}

// Normalize folds fullwidth ASCII to narrow and composes the text to NFC.
func Normalize(text string) string {
	return norm.NFC.String(width.Fold.String(text))
}

// SplitLanguages splits a "kor+eng" style hint into language codes, dropping
// empty entries.
func SplitLanguages(hint string) []string {
	var langs []string
	for _, l := range strings.Split(hint, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
