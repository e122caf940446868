package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/deskhandai/deskhand/internal/archive"
	"github.com/deskhandai/deskhand/internal/chat"
	"github.com/deskhandai/deskhand/internal/config"
	"github.com/deskhandai/deskhand/internal/dispatch"
	"github.com/deskhandai/deskhand/internal/fetch"
	"github.com/deskhandai/deskhand/internal/handlers"
	"github.com/deskhandai/deskhand/internal/logger"
	"github.com/deskhandai/deskhand/internal/pipeline"
	"github.com/deskhandai/deskhand/internal/scratch"
	"github.com/deskhandai/deskhand/internal/server"
	"github.com/deskhandai/deskhand/internal/tools"
	"github.com/deskhandai/deskhand/internal/vision"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideScratch,
			provideFetcher,
			provideVisionAnalyzer,
			provideInspector,
			provideTools,
			provideChatClient,
			provideDispatcher,
			providePipeline,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(provideStatusHandler),
			provideServerHandler(provideTestToolsHandler),
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideScratch(cfg config.Config) (*scratch.Dir, error) {
	return scratch.New(cfg.Scratch.Root)
}

func provideFetcher(log *slog.Logger, cfg config.Config, dir *scratch.Dir) *fetch.Fetcher {
	return fetch.NewFetcher(log, dir, cfg.Upstream.BaseURL, cfg.Upstream.FetchTimeout(), cfg.Upstream.MaxFetchBytes)
}

// provideVisionAnalyzer tolerates a misconfigured vision backend: the service
// still answers text and archive questions, image description degrades to
// metadata for the process lifetime.
func provideVisionAnalyzer(log *slog.Logger, cfg config.Config) *vision.Analyzer {
	var backend vision.Backend
	b, err := vision.NewOpenAIBackend(log, vision.OpenAIConfig{
		APIKey:  cfg.Vision.APIKey,
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		Timeout: cfg.Vision.Timeout(),
	})
	if err != nil {
		log.Warn("vision backend unavailable, image analysis degrades to metadata",
			slog.Any("error", err))
	} else {
		backend = b
	}
	return vision.NewAnalyzer(log, backend)
}

func provideInspector(log *slog.Logger, cfg config.Config, dir *scratch.Dir, analyzer *vision.Analyzer) *archive.Inspector {
	limits := archive.Limits{
		MaxTotalBytes: cfg.Archive.MaxTotalBytes,
		MaxEntryBytes: cfg.Archive.MaxEntryBytes,
		MaxEntries:    cfg.Archive.MaxEntries,
		MaxDepth:      cfg.Archive.MaxDepth,
	}
	return archive.NewInspector(log, dir, analyzer, limits)
}

func provideTools(log *slog.Logger, fetcher *fetch.Fetcher, analyzer *vision.Analyzer, inspector *archive.Inspector) []tools.Tool {
	return []tools.Tool{
		tools.NewImageTool(log, fetcher, analyzer),
		tools.NewArchiveTool(log, fetcher, inspector),
	}
}

func provideChatClient(log *slog.Logger, cfg config.Config) (*chat.Client, error) {
	return chat.NewClient(log, chat.Config{
		BaseURL: cfg.Chat.BaseURL,
		APIKey:  cfg.Chat.APIKey,
		Model:   cfg.Chat.Model,
		Timeout: cfg.Chat.Timeout(),
	})
}

func provideDispatcher(log *slog.Logger, cfg config.Config) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(log, cfg.Upstream.BaseURL, cfg.Upstream.ReplyTimeout())
}

func providePipeline(log *slog.Logger, cfg config.Config, client *chat.Client, dispatcher *dispatch.Dispatcher, ts []tools.Tool) *pipeline.Pipeline {
	return pipeline.New(log, client, dispatcher, ts, cfg.Upstream.HistoryWindow)
}

func provideWebhookHandler(log *slog.Logger, pipe *pipeline.Pipeline) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, pipe)
}

func provideStatusHandler(log *slog.Logger, cfg config.Config, analyzer *vision.Analyzer, ts []tools.Tool) *handlers.StatusHandler {
	return handlers.NewStatusHandler(log, cfg.Chat.Model, cfg.Vision.Model, analyzer.Available(), tools.Names(ts))
}

func provideTestToolsHandler(log *slog.Logger, ts []tools.Tool) *handlers.TestToolsHandler {
	return handlers.NewTestToolsHandler(log, ts)
}

type serverParams struct {
	fx.In
	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Config.Server.WebhookToken, params.Handlers)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
