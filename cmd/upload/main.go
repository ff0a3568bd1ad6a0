package main

import (
	"accountant-assistant/internal/adapters/notifier"
	"accountant-assistant/internal/adapters/scheduler"
	"accountant-assistant/internal/adapters/transport"
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/service/upload"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	surfaceName := flag.String("surface", string(domain.SurfaceStatements), "upload surface: statements|receipts")
	transportName := flag.String("transport", "", "upload transport: http|minio (defaults to UPLOAD_TRANSPORT)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-surface statements|receipts] [-transport http|minio] FILE...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	os.Exit(run(logger, domain.Surface(*surfaceName), *transportName, flag.Args()))
}

func run(logger *log.Logger, surfaceName domain.Surface, transportName string, paths []string) int {
	if len(paths) == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	if transportName != "" {
		cfg.Upload.Transport = transportName
		if err := cfg.Validate(); err != nil {
			logger.Error("invalid configuration", "error", err)
			return 1
		}
	}

	surface, err := domain.LookupSurface(surfaceName)
	if err != nil {
		logger.Error("unknown surface", "surface", surfaceName)
		return 2
	}

	files, err := readFiles(paths)
	if err != nil {
		logger.Error("failed to read files", "error", err)
		return 1
	}
	accepted, rejected := upload.FilterAccepted(surface, files)
	for _, rejection := range rejected {
		logger.Warn("skipping file", "error", rejection)
	}
	if len(accepted) == 0 {
		logger.Error("no file to upload", "accept", surface.Accept)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := slog.New(logger)
	uploadTransport, err := transport.New(ctx, cfg, slogger)
	if err != nil {
		logger.Error("failed to init upload transport", "transport", cfg.Upload.Transport, "error", err)
		return 1
	}

	session := upload.NewUploadSession(surface, uploadTransport, scheduler.NewTicker(), notifier.NewLogNotifier(slogger), cfg.Upload, slogger)

	rep := newReporter(os.Stdout)
	done := make(chan struct{})
	var once sync.Once
	unsubscribe := session.Subscribe(func(snapshot domain.Snapshot) {
		rep.report(snapshot)
		if !snapshot.Busy && len(snapshot.Tasks) > 0 {
			once.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	session.AddFiles(ctx, accepted)

	select {
	case <-done:
	case <-ctx.Done():
		session.Clear()
		logger.Warn("interrupted, pending uploads discarded")
		return 130
	}

	final := session.Snapshot()
	fmt.Fprintln(os.Stdout, summary(final))
	for _, task := range final.Tasks {
		if task.Status == domain.TaskStatusError {
			return 1
		}
	}
	return 0
}

func readFiles(paths []string) ([]domain.File, error) {
	files := make([]domain.File, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		files = append(files, domain.File{
			Name:      name,
			SizeBytes: int64(len(content)),
			MimeType:  upload.DetectMimeType(name, ""),
			Content:   content,
		})
	}
	return files, nil
}
