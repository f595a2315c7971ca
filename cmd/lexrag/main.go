package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"lexrag/internal/chunker"
	"lexrag/internal/config"
	"lexrag/internal/index"
	"lexrag/internal/loader"
	"lexrag/internal/logging"
	"lexrag/internal/metrics"
	"lexrag/internal/retriever"
	"lexrag/internal/service"
	"lexrag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, query string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/lexrag/config.yaml if not provided)")
	flag.StringVar(&query, "query", "", "Run a single query, print the matching context and exit")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: lexrag [--config=config.yaml] [--query=text] file1.txt [file2.md doc.pdf ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logOut, closeLog, err := logOutput(cfg.Log, query == "")
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closeLog()
	logger := logging.New(logOut, "lexrag", cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, inputs, query); err != nil {
		logger.Error("lexrag failed", "error", err)
		stop()
		closeLog()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, inputs []string, query string) error {
	// Assemble components
	ch, err := chunker.NewWindow(cfg.Chunker.WindowSize, cfg.Chunker.Overlap)
	if err != nil {
		return err
	}
	rt, err := retriever.NewLexical(cfg.Retriever.Limit)
	if err != nil {
		return err
	}
	m := metrics.New()
	lib := service.NewLibrary(loader.New(cfg.Ingest.Extensions), ch, rt, index.NewStore(),
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithConcurrency(cfg.Ingest.Concurrency),
	)

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
	}

	report, err := lib.Ingest(ctx, inputs)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if query != "" {
		res, err := lib.Query(query, nil)
		if err != nil {
			return err
		}
		if len(res) == 0 {
			fmt.Println("No matching passages.")
			return nil
		}
		fmt.Println(service.BuildContext(res))
		fmt.Println()
		fmt.Println("Sources: " + strings.Join(service.Sources(res), ", "))
		return nil
	}

	model := tui.New(lib, summarize(report))
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func summarize(report service.IngestReport) string {
	names := make([]string, 0, len(report.Documents))
	for _, d := range report.Documents {
		names = append(names, fmt.Sprintf("%s (%d)", d.Name, d.Chunks))
	}
	return fmt.Sprintf("%d documents, %d chunks: %s", len(report.Documents), report.Chunks, strings.Join(names, ", "))
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

// logOutput picks where logs go. The TUI owns the terminal, so interactive
// runs without a log file discard logs.
func logOutput(cfg config.LogConfig, interactive bool) (io.Writer, func(), error) {
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	if interactive {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}
