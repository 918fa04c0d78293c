// Command item-ocr recognises a Diablo IV item tooltip screenshot and prints
// the parsed item.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ironsheep/item-ocr-mcp/internal/config"
	"github.com/ironsheep/item-ocr-mcp/internal/imaging"
	"github.com/ironsheep/item-ocr-mcp/internal/item"
	"github.com/ironsheep/item-ocr-mcp/internal/logger"
	"github.com/ironsheep/item-ocr-mcp/internal/ocr"
	"github.com/ironsheep/item-ocr-mcp/internal/pipeline"
	"github.com/ironsheep/item-ocr-mcp/internal/render"
)

// Version information - set by ldflags during build
var Version = "dev"

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitRecognition = 3
)

type recognizerFactory func(cfg *config.Config) ocr.Recognizer

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, newTesseract)
	stop()
	os.Exit(code)
}

func newTesseract(cfg *config.Config) ocr.Recognizer {
	return ocr.NewTesseract(
		ocr.WithLanguage(cfg.Language),
		ocr.WithTessdataPrefix(cfg.TessdataPrefix),
		ocr.WithProgress(pipeline.LogProgress),
	)
}

type options struct {
	text         bool
	json         bool
	color        bool
	stdin        bool
	version      bool
	preprocessed string
	region       string
	scale        float64
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var o options
	fs := flag.NewFlagSet("item-ocr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: item-ocr [flags] <screenshot>")
		fmt.Fprintln(stderr, "       item-ocr -stdin < tooltip.txt")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	fs.BoolVar(&o.text, "text", false, "print the raw recognised text instead of the item")
	fs.BoolVar(&o.json, "json", false, "print the item as JSON")
	fs.BoolVar(&o.color, "color", false, "colour the output with ANSI escapes")
	fs.BoolVar(&o.stdin, "stdin", false, "parse tooltip text from stdin without recognition")
	fs.BoolVar(&o.version, "version", false, "print version information")
	fs.StringVar(&o.preprocessed, "preprocessed", "", "save the binarized bitmap to this PNG file")
	fs.StringVar(&o.region, "region", "", "crop to x1,y1,x2,y2 before processing")
	fs.Float64Var(&o.scale, "scale", 0, "upscale factor (1-4); default from ITEM_OCR_UPSCALE")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &o, fs.Args(), nil
}

func parseRegion(s string) (*imaging.Region, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("region must be x1,y1,x2,y2")
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid region coordinate %q: %w", p, err)
		}
		v[i] = n
	}
	return &imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, newRecognizer recognizerFactory) int {
	o, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if o.version {
		fmt.Fprintf(stdout, "item-ocr %s\n", Version)
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitUsage
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, stderr)
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

	vocab, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitUsage
	}
	parser := item.NewParser(vocab)
	renderer := render.New(o.color)

	if o.stdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "item-ocr: failed to read stdin: %v\n", err)
			return exitFailure
		}
		return emit(stdout, stderr, o, renderer, parser.Parse(string(data)), string(data))
	}

	if len(rest) != 1 {
		fmt.Fprintln(stderr, "item-ocr: exactly one screenshot path is required")
		return exitUsage
	}
	region, err := parseRegion(o.region)
	if err != nil {
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitUsage
	}
	if o.scale != 0 && (o.scale < 1 || o.scale > imaging.MaxUpscale) {
		fmt.Fprintf(stderr, "item-ocr: scale must be between 1 and %g\n", imaging.MaxUpscale)
		return exitUsage
	}

	img, err := imaging.NewImageCache(1).Load(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitFailure
	}

	p := pipeline.New(newRecognizer(cfg),
		pipeline.WithThreshold(cfg.Binarization()),
		pipeline.WithScale(cfg.UpscaleFactor),
		pipeline.WithParser(parser),
	)
	popts := pipeline.Options{Region: region, Scale: o.scale}

	res, err := p.Analyze(ctx, img, popts)
	if err != nil {
		if errors.Is(err, pipeline.ErrRecognition) {
			fmt.Fprintf(stderr, "%s\n%v\n", pipeline.GenericErrorNotice, err)
			return exitRecognition
		}
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitFailure
	}

	if o.preprocessed != "" {
		if err := imaging.SavePNG(res.Prepared, o.preprocessed); err != nil {
			fmt.Fprintf(stderr, "item-ocr: %v\n", err)
			return exitFailure
		}
	}

	return emit(stdout, stderr, o, renderer, res.Item, res.Text)
}

func emit(stdout, stderr io.Writer, o *options, r *render.Renderer, it item.DiabloItem, text string) int {
	var err error
	switch {
	case o.text:
		_, err = io.WriteString(stdout, strings.TrimRight(text, "\n")+"\n")
	case o.json:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(it)
	default:
		err = r.Render(stdout, it)
	}
	if err != nil {
		fmt.Fprintf(stderr, "item-ocr: %v\n", err)
		return exitFailure
	}
	return exitOK
}
