package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
)

const backendName = "gosseract"

// Tesseract recognises text with the native Tesseract library.
//
// Each call to Recognize creates its own gosseract client, so a Tesseract
// value is safe for concurrent use.
type Tesseract struct {
	language       string
	tessdataPrefix string
	progress       ProgressFunc
}

// Option configures a Tesseract recognizer.
type Option func(*Tesseract)

// WithLanguage sets the language hint, e.g. "kor+eng". An empty hint keeps
// DefaultLanguage.
func WithLanguage(hint string) Option {
	return func(t *Tesseract) {
		if len(SplitLanguages(hint)) > 0 {
			t.language = hint
		}
	}
}

// WithTessdataPrefix points Tesseract at a tessdata directory.
func WithTessdataPrefix(dir string) Option {
	return func(t *Tesseract) { t.tessdataPrefix = dir }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(t *Tesseract) { t.progress = fn }
}

// NewTesseract returns a recognizer using DefaultLanguage unless overridden.
func NewTesseract(opts ...Option) *Tesseract {
	t := &Tesseract{language: DefaultLanguage}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Language returns the configured language hint.
func (t *Tesseract) Language() string {
	return t.language
}

type recognition struct {
	text string
	err  error
}

// Recognize runs Tesseract over img and returns the normalised text.
//
// The native call cannot be interrupted. When ctx is done first, Recognize
// returns ctx.Err() and the background call finishes on its own.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	t.report(ctx, PhaseInitializing, 0)

	done := make(chan recognition, 1)
	go func() {
		text, err := t.run(ctx, data)
		done <- recognition{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		t.report(ctx, PhaseRecognizing, 1)
		return Normalize(r.text), nil
	}
}

func (t *Tesseract) run(ctx context.Context, data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(SplitLanguages(t.language)...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	t.report(ctx, PhaseInitializing, 1)

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	t.report(ctx, PhaseRecognizing, 0)

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

func (t *Tesseract) report(ctx context.Context, phase string, fraction float64) {
	if t.progress != nil {
		t.progress(ctx, Progress{Phase: phase, Fraction: fraction})
	}
}

// Info reports whether the Tesseract library is usable.
func (t *Tesseract) Info() Info {
	info := Info{
		Backend:        backendName,
		Languages:      SplitLanguages(t.language),
		TessdataPrefix: t.tessdataPrefix,
	}

	version, err := tesseractVersion()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.Available = true
	info.Version = version
	return info
}

func tesseractVersion() (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	if version == "" {
		return "", fmt.Errorf("tesseract library reported no version")
	}
	return version, nil
}
