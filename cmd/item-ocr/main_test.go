package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/item-ocr-mcp/internal/config"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
	"github.com/ironsheep/item-ocr-mcp/internal/pipeline"
)

const tooltip = "수호자의 방패\n아이템 위력 725\n전설 방패\n+12.5% 방어도\n요구 레벨: 60\n"

func fakeRecognizer(text string, err error) recognizerFactory {
	return func(*config.Config) ocr.Recognizer {
		return ocr.RecognizerFunc(func(context.Context, image.Image) (string, error) {
			return text, err
		})
	}
}

func writeScreenshot(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 12), G: uint8(x * 12), B: uint8(x * 12), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// runCLI runs the command with a clean ITEM_OCR_* environment.
func runCLI(t *testing.T, stdin string, factory recognizerFactory, args ...string) (int, string, string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	for _, key := range []string{
		config.EnvLogLevel, config.EnvLogFormat, config.EnvLanguage, config.EnvTessdataPrefix,
		config.EnvThreshold, config.EnvUpscaleFactor, config.EnvCacheSize,
		config.EnvMetricsAddr, config.EnvVocabularyFile,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, factory)
	return code, stdout.String(), stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	code, out, errOut := runCLI(t, tooltip, nil, "-stdin")

	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "수호자의 방패\n방패\n위력 725\n요구 레벨: 60\n방어도  +12.5%\n", out)
}

func TestRun_StdinJSON(t *testing.T) {
	code, out, errOut := runCLI(t, tooltip, nil, "-stdin", "-json")
	require.Equal(t, exitOK, code, errOut)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "수호자의 방패", got["name"])
	assert.Equal(t, float64(725), got["power"])
	assert.Equal(t, float64(60), got["requiredLevel"])
	assert.Equal(t, tooltip, got["rawText"])
}

func TestRun_Screenshot(t *testing.T) {
	shot := writeScreenshot(t)
	out := filepath.Join(t.TempDir(), "prepared.png")

	code, stdout, errOut := runCLI(t, "", fakeRecognizer(tooltip, nil), "-preprocessed", out, "-scale", "2", shot)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, stdout, "위력 725")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())
}

func TestRun_RawText(t *testing.T) {
	code, out, _ := runCLI(t, "", fakeRecognizer(tooltip, nil), "-text", writeScreenshot(t))
	require.Equal(t, exitOK, code)
	assert.Equal(t, tooltip, out)
}

func TestRun_Color(t *testing.T) {
	code, out, _ := runCLI(t, tooltip, nil, "-stdin", "-color")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "\x1b[38;2;")
}

func TestRun_Region(t *testing.T) {
	code, _, errOut := runCLI(t, "", fakeRecognizer(tooltip, nil), "-region", "0,0,10,5", writeScreenshot(t))
	assert.Equal(t, exitOK, code, errOut)

	code, _, errOut = runCLI(t, "", fakeRecognizer(tooltip, nil), "-region", "0,0,10", writeScreenshot(t))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "x1,y1,x2,y2")

	code, _, _ = runCLI(t, "", fakeRecognizer(tooltip, nil), "-region", "0,0,99,5", writeScreenshot(t))
	assert.Equal(t, exitFailure, code)
}

func TestRun_ScaleOutOfRange(t *testing.T) {
	for _, scale := range []string{"0.5", "5"} {
		t.Run(scale, func(t *testing.T) {
			code, out, errOut := runCLI(t, "", fakeRecognizer(tooltip, nil), "-scale", scale, writeScreenshot(t))
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "scale must be between 1 and 4")
		})
	}
}

func TestRun_RecognitionFailure(t *testing.T) {
	code, out, errOut := runCLI(t, "", fakeRecognizer("", errors.New("engine down")), writeScreenshot(t))

	assert.Equal(t, exitRecognition, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, pipeline.GenericErrorNotice+"\n")
	assert.Contains(t, errOut, "engine down")
}

func TestRun_Usage(t *testing.T) {
	code, _, errOut := runCLI(t, "", nil)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "screenshot")

	code, _, _ = runCLI(t, "", nil, "-nope")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", nil, "-h")
	assert.Equal(t, exitOK, code)

	code, _, _ = runCLI(t, "", nil, "/nonexistent/shot.png")
	assert.Equal(t, exitFailure, code)
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "", nil, "-version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "item-ocr dev\n", out)
}

func TestRun_InvalidConfig(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(config.EnvThreshold, "999")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-stdin"}, strings.NewReader(""), &stdout, &stderr, nil)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), config.EnvThreshold)
}
