// Command extract prints the transactions found in receipts and statements
// without recording them. One JSON result is written per input file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/rs/zerolog"

	"github.com/zombor/expense-tracker/internal/extract"
	"github.com/zombor/expense-tracker/internal/logger"
	"github.com/zombor/expense-tracker/internal/scanning"
)

const kindAuto = "auto"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run does the work of main and returns the exit code, so deferred cleanup
// runs before the process exits.
func run(args []string, stdout, stderr io.Writer) int {
	fs := ff.NewFlagSet("extract")
	var (
		kind           = fs.StringLong("kind", kindAuto, "Document kind: 'receipt', 'statement' or 'auto' (images are receipts)")
		workers        = fs.IntLong("workers", 4, "Documents parsed concurrently (0 for no limit)")
		recognizerType = fs.StringLong("recognizer", scanning.BackendGemini, "OCR backend for images: 'gemini', 'ollama' or 'tesseract'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name")
		logLevel       = fs.StringLong("log-level", "warn", "Log level: debug, info, warn or error")
		logFormat      = fs.StringLong("log-format", logger.FormatConsole, "Log format: 'console' or 'json'")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("EXPENSE_TRACKER"),
	); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	files := fs.GetArgs()
	if len(files) == 0 {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(stderr, "error: no input files")
		return 1
	}

	log, err := logger.Configure(stderr, *logFormat, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := *geminiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	r := &reader{
		log:  log,
		text: scanning.NewFitzReader(),
		cfg: scanning.Config{
			Backend:     *recognizerType,
			GeminiKey:   apiKey,
			GeminiModel: *geminiModel,
			OllamaURL:   *ollamaURL,
			OllamaModel: *ollamaModel,
		},
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close recognizer")
		}
	}()

	docs := make([]extract.Document, 0, len(files))
	for _, path := range files {
		doc, err := r.load(ctx, path, *kind)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read document")
			return 1
		}
		docs = append(docs, doc)
	}

	extractor := extract.NewExtractorWithDeps(nil, logger.ExtractObserver(log))
	results, err := extractor.ParseDocuments(ctx, docs, *workers)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse documents")
		return 1
	}

	enc := json.NewEncoder(stdout)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			log.Error().Err(err).Msg("Failed to write result")
			return 1
		}
	}
	return 0
}

// reader turns files into text. The OCR backend is only started once an
// image is seen.
type reader struct {
	log        zerolog.Logger
	text       scanning.DocumentReader
	cfg        scanning.Config
	recognizer scanning.Recognizer
}

func (r *reader) load(ctx context.Context, path, kind string) (extract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Document{}, err
	}

	contentType := contentTypeOf(path)
	image := strings.HasPrefix(contentType, "image/")

	doc := extract.Document{Name: path, Kind: extract.Kind(kind)}
	if kind == kindAuto {
		doc.Kind = extract.KindStatement
		if image {
			doc.Kind = extract.KindReceipt
		}
	}

	if !image {
		doc.Text, err = r.text.ReadText(ctx, data, contentType)
		return doc, err
	}

	if r.recognizer == nil {
		if r.cfg.Backend == scanning.BackendGemini && r.cfg.GeminiKey == "" {
			return doc, fmt.Errorf("gemini API key is required to read images")
		}
		r.recognizer, err = scanning.NewRecognizer(ctx, r.cfg)
		if err != nil {
			return doc, err
		}
	}
	r.log.Debug().Str("file", path).Str("content_type", contentType).Msg("Recognizing image")
	doc.Text, err = r.recognizer.RecognizeText(ctx, data, contentType)
	return doc, err
}

func (r *reader) Close() error {
	if r.recognizer == nil {
		return nil
	}
	return r.recognizer.Close()
}

// contentTypeOf guesses a content type from the file extension
func contentTypeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}
