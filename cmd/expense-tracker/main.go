package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/logger"
	"github.com/zombor/expense-tracker/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the server and blocks until a signal or a server error. It
// returns the exit code so deferred cleanup runs first.
func run(args []string) int {
	// Check for version flag before parsing other flags
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			return 0
		}
	}

	fs := ff.NewFlagSet("expense-tracker")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "expense-tracker.db", "Database file path")
		storagePath    = fs.StringLong("storage", "./uploads", "Directory for archived uploads")
		recognizerType = fs.StringLong("recognizer", scanning.BackendGemini, "OCR backend: 'gemini', 'ollama' or 'tesseract'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat      = fs.StringLong("log-format", logger.FormatConsole, "Log format: 'console' or 'json'")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("EXPENSE_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	log, err := logger.Configure(os.Stderr, *logFormat, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("path", *dbPath).Msg("Initializing database...")
	db, err := ledger.NewBoltDB(*dbPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	apiKey := *geminiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if *recognizerType == scanning.BackendGemini && apiKey == "" {
		log.Error().Msg("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
		return 1
	}

	log.Info().Str("backend", *recognizerType).Msg("Initializing recognizer...")
	recognizer, err := scanning.NewRecognizer(ctx, scanning.Config{
		Backend:     *recognizerType,
		GeminiKey:   apiKey,
		GeminiModel: *geminiModel,
		OllamaURL:   *ollamaURL,
		OllamaModel: *ollamaModel,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize recognizer")
		return 1
	}
	defer recognizer.Close()

	log.Info().Str("path", *storagePath).Msg("Initializing storage...")
	store, err := ledger.NewLocalStorage(*storagePath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize storage")
		return 1
	}

	service := ledger.NewService(db, recognizer, scanning.NewFitzReader(), store, log)
	server := ledger.NewServer(service, ledger.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}, log)

	addr := fmt.Sprintf(":%d", *port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(addr)
	}()

	log.Info().Str("address", fmt.Sprintf("http://localhost%s", addr)).Str("version", version).Msg("Server started")
	if *authUser != "" || *authPass != "" {
		log.Info().Str("user", *authUser).Msg("Basic auth enabled")
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
		return 0
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server error")
		return 1
	}
}
