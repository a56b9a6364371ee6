package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/quillchat/quill/internal/config"
	"github.com/quillchat/quill/internal/history"
	"github.com/quillchat/quill/internal/imaging"
	"github.com/quillchat/quill/internal/log"
	"github.com/quillchat/quill/internal/observability"
	"github.com/quillchat/quill/internal/tui"
	"github.com/quillchat/quill/internal/upload"
)

// shutdownTimeout bounds the trace exporter flush on exit.
const shutdownTimeout = 5 * time.Second

// runChat initializes and starts the interactive chat with Bubble Tea TUI.
func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	shutdown := observability.Setup(ctx, cfg.Telemetry)
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer flushCancel()
		if shutdownErr := shutdown(flushCtx); shutdownErr != nil {
			logger.Warn("trace shutdown error", "error", shutdownErr)
		}
	}()

	histPath, err := history.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving history path: %w", err)
	}
	histStore, err := history.NewStore(histPath, cfg.History.MaxEntries)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}

	resizer, err := imaging.NewResizer(cfg.Image.MaxWidth, cfg.Image.MaxHeight)
	if err != nil {
		return fmt.Errorf("creating image resizer: %w", err)
	}

	uploader, err := upload.NewClient(cfg.Upload.Endpoint,
		logger.With("component", "upload"),
		upload.WithRateLimit(cfg.Upload.Rate, cfg.Upload.Burst),
	)
	if err != nil {
		return fmt.Errorf("creating upload client: %w", err)
	}

	model, err := tui.New(ctx, cfg, resizer, uploader, histStore, conversationID(cfg), logger)
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}
	program := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err = program.Run(); err != nil {
		return fmt.Errorf("TUI exited: %w", err)
	}
	return nil
}

// conversationID returns the pinned conversation from configuration, or a
// fresh UUID for this run.
func conversationID(cfg *config.Config) string {
	if cfg.ConversationID != "" {
		return cfg.ConversationID
	}
	return uuid.NewString()
}
