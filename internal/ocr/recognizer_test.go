package ocr

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fullwidth digits", "＋１５．０％ 공격 속도", "+15.0% 공격 속도"},
		{"plain ascii", "+1,250 life", "+1,250 life"},
		{"decomposed hangul", "\u1100\u1161", "가"},
		{"newlines kept", "a\nb\r\n", "a\nb\r\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitLanguages(t *testing.T) {
	tests := []struct {
		hint string
		want []string
	}{
		{"kor+eng", []string{"kor", "eng"}},
		{"eng", []string{"eng"}},
		{" kor + eng ", []string{"kor", "eng"}},
		{"kor++eng", []string{"kor", "eng"}},
		{"", nil},
		{"+", nil},
	}

	for _, tt := range tests {
		if got := SplitLanguages(tt.hint); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLanguages(%q) = %v, want %v", tt.hint, got, tt.want)
		}
	}
}

func TestRecognizerFunc(t *testing.T) {
	var r Recognizer = RecognizerFunc(func(ctx context.Context, img image.Image) (string, error) {
		return "ok", nil
	})

	text, err := r.Recognize(context.Background(), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want ok", text)
	}
}

func TestNewTesseract_Options(t *testing.T) {
	tess := NewTesseract()
	if tess.Language() != DefaultLanguage {
		t.Errorf("default language = %q, want %q", tess.Language(), DefaultLanguage)
	}

	tess = NewTesseract(WithLanguage("eng"), WithTessdataPrefix("/opt/tessdata"))
	if tess.Language() != "eng" {
		t.Errorf("language = %q, want eng", tess.Language())
	}
	if tess.tessdataPrefix != "/opt/tessdata" {
		t.Errorf("tessdataPrefix = %q", tess.tessdataPrefix)
	}

	tess = NewTesseract(WithLanguage(" + "))
	if tess.Language() != DefaultLanguage {
		t.Errorf("blank hint replaced default: %q", tess.Language())
	}
}

func TestTesseract_RecognizeEmptyImage(t *testing.T) {
	tess := NewTesseract()

	_, err := tess.Recognize(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}

	_, err = tess.Recognize(context.Background(), nil)
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage for nil image, got %v", err)
	}
}

func TestTesseract_RecognizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	tess := NewTesseract(WithProgress(func(context.Context, Progress) { called = true }))

	_, err := tess.Recognize(ctx, image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("progress reported for a cancelled call")
	}
}
