// Package pipeline turns a tooltip screenshot into a parsed item: crop,
// upscale, binarize, recognise, parse.
//
// A Pipeline holds no per-image state. Every call works on a fresh copy of
// the source image, so one Pipeline may serve concurrent requests as long as
// its Recognizer does.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
	"github.com/ironsheep/item-ocr-mcp/internal/item"
	"github.com/ironsheep/item-ocr-mcp/internal/logger"
	"github.com/ironsheep/item-ocr-mcp/internal/metrics"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
)

// ErrRecognition wraps every failure of the recognition step.
var ErrRecognition = errors.New("text recognition failed")

// GenericErrorNotice is the user-facing message for a failed recognition.
// The underlying cause is reported separately.
const GenericErrorNotice = "오류가 발생했습니다."

// Pipeline wires a binarizer, a recognizer and a parser together.
type Pipeline struct {
	binarizer  *imaging.Binarizer
	recognizer ocr.Recognizer
	parser     *item.Parser
	metrics    *metrics.Metrics
	scale      float64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithThreshold sets the binarization threshold.
func WithThreshold(t uint8) Option {
	return func(p *Pipeline) { p.binarizer = imaging.NewBinarizer(t) }
}

// WithParser replaces the default Korean parser.
func WithParser(parser *item.Parser) Option {
	return func(p *Pipeline) { p.parser = parser }
}

// WithMetrics records analysis metrics to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithScale sets the upscale factor used when a call does not give one.
func WithScale(f float64) Option {
	return func(p *Pipeline) { p.scale = f }
}

// New builds a pipeline around rec.
func New(rec ocr.Recognizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		binarizer:  imaging.NewBinarizer(imaging.DefaultThreshold),
		recognizer: rec,
		parser:     item.DefaultParser(),
		scale:      1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Options controls the preprocessing of one image.
type Options struct {
	// Region crops the image before anything else. Nil uses the whole image.
	Region *imaging.Region `json:"region,omitempty"`

	// Scale is the upscale factor. Zero uses the pipeline default.
	Scale float64 `json:"scale,omitempty"`
}

// Result is the outcome of a full analysis.
type Result struct {
	Item     item.DiabloItem `json:"item"`
	Text     string          `json:"text"`
	Prepared *image.NRGBA    `json:"-"`
}

// Threshold returns the binarization threshold in use.
func (p *Pipeline) Threshold() uint8 {
	return p.binarizer.Threshold
}

// Parser returns the parser in use.
func (p *Pipeline) Parser() *item.Parser {
	return p.parser
}

// Prepare crops, upscales and binarizes a copy of img. The source image is
// never modified.
func (p *Pipeline) Prepare(img image.Image, opts Options) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("no image")
	}

	src := img
	if opts.Region != nil {
		cropped, err := imaging.Crop(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		src = cropped
	}

	scale := opts.Scale
	if scale == 0 {
		scale = p.scale
	}

	prepared := imaging.Upscale(src, scale)
	p.binarizer.Apply(prepared)
	return prepared, nil
}

// Recognize prepares img and returns the recognised text together with the
// bitmap that was recognised.
func (p *Pipeline) Recognize(ctx context.Context, img image.Image, opts Options) (string, *image.NRGBA, error) {
	prepared, err := p.Prepare(img, opts)
	if err != nil {
		return "", nil, err
	}

	start := time.Now()
	text, err := p.recognizer.Recognize(ctx, prepared)
	p.metrics.ObserveRecognition(time.Since(start))
	if err != nil {
		return "", prepared, fmt.Errorf("%w: %w", ErrRecognition, err)
	}
	return text, prepared, nil
}

// Parse parses recognised text with the pipeline's parser.
func (p *Pipeline) Parse(text string) item.DiabloItem {
	return p.parser.Parse(text)
}

// Analyze runs the whole pipeline on one screenshot and returns the parsed item.
//
// The source image is never modified: cropping, upscaling and binarization
// all work on copies, so cached images can be passed in directly.
//
// Parameters:
//   - ctx: Cancels recognition and carries the request id for logging.
//   - img: The tooltip screenshot in any image.Image representation.
//   - opts: Optional crop region and upscale factor. A zero Scale uses the
//     pipeline's configured factor.
//
// Returns:
//   - *Result: The parsed Item, the recognised Text and the Prepared bitmap
//     that was handed to the recognizer.
//   - error: Wraps ErrRecognition when the recognizer failed; any other error
//     means the input was rejected before recognition (bad region or scale).
//
// # Stages
//
// The stages run strictly in order: crop, upscale, binarize, recognise,
// parse. The parser is only called when recognition succeeds, so a failed
// recognition never yields a partially filled item.
//
// # Metrics
//
// With metrics attached, every call counts one analysis under the success,
// recognition_error or invalid_input outcome. Successful calls also record
// the number of options found.
func (p *Pipeline) Analyze(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)

	text, prepared, err := p.Recognize(ctx, img, opts)
	if err != nil {
		if errors.Is(err, ErrRecognition) {
			p.metrics.ObserveAnalysis(metrics.OutcomeRecognitionError)
		} else {
			p.metrics.ObserveAnalysis(metrics.OutcomeInvalidInput)
		}
		log.Warn("Item analysis failed", "error", err)
		return nil, err
	}

	it := p.parser.Parse(text)
	p.metrics.ObserveAnalysis(metrics.OutcomeSuccess)
	p.metrics.ObserveOptions(len(it.Options))

	log.Debug("Item analysed",
		"name", it.Name,
		"type", it.Type,
		"power", it.Power,
		"options", len(it.Options))

	return &Result{Item: it, Text: text, Prepared: prepared}, nil
}

// LogProgress is an ocr.ProgressFunc that logs progress at debug level.
func LogProgress(ctx context.Context, pr ocr.Progress) {
	logger.FromContext(ctx).Debug("Recognition progress",
		"phase", pr.Phase,
		"percent", int(pr.Fraction*100+0.5))
}
