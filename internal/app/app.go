package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gram-gold-watch/internal/alerting"
	"gram-gold-watch/internal/arblog"
	"gram-gold-watch/internal/config"
	"gram-gold-watch/internal/history"
	"gram-gold-watch/internal/marketdata"
	"gram-gold-watch/internal/news"
	"gram-gold-watch/internal/quote"
	"gram-gold-watch/internal/sampler"
	"gram-gold-watch/internal/server"
	"gram-gold-watch/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newQuoteFetcher() *quote.Fetcher {
	return quote.NewFetcher(quote.FetcherOptions{
		RetailURL:    a.Config.Sources.RetailURL,
		ReferenceURL: a.Config.Sources.ReferenceURL,
		Timeout:      a.Config.Sources.RequestTimeout,
		UserAgent:    a.Config.Sources.UserAgent,
	}, a.Logger)
}

func (a *App) newArbLog() *arblog.Log {
	return arblog.NewLog(a.Config.ArbLog.Path, a.Config.ArbLog.WriteInterval, a.Logger)
}

func (a *App) newAggregator() *history.Aggregator {
	client := marketdata.NewClient(marketdata.ClientOptions{
		BaseURL:      a.Config.MarketData.BaseURL,
		Timeout:      a.Config.MarketData.RequestTimeout,
		RateLimitRPS: a.Config.MarketData.RateLimitRPS,
	}, a.Logger)
	resolver := marketdata.NewResolver(client, a.Logger)
	return history.NewAggregator(resolver, a.Logger)
}

func (a *App) newHeadlineCache() *news.Cache {
	feed := news.NewFeedFetcher(news.FeedOptions{
		BaseURL:   a.Config.News.BaseURL,
		Timeout:   a.Config.News.RequestTimeout,
		UserAgent: a.Config.News.UserAgent,
	}, a.Logger)
	translator := news.NewTranslator(news.TranslatorOptions{
		BaseURL:    a.Config.Translate.BaseURL,
		Timeout:    a.Config.Translate.RequestTimeout,
		TargetLang: a.Config.Translate.TargetLang,
	}, a.Logger)
	svc := news.NewService(feed, translator, a.Config.News.Limit, a.Logger)
	return news.NewCache(svc, a.Config.News.TTL, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Enabled && a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// Serve runs the HTTP surface and, when enabled, the background sampler,
// until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fetcher := a.newQuoteFetcher()
	log := a.newArbLog()
	svc := service.New(fetcher, a.newAggregator(), log, a.Logger)
	handler := server.NewHandler(svc, a.newHeadlineCache(), a.Logger)
	engine := server.NewEngine(handler)

	srv := &http.Server{
		Addr:    a.Config.Server.Addr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", srv.Addr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if a.Config.Sampler.Enabled {
		loop := sampler.New(sampler.Options{
			Interval:     a.Config.Sampler.Interval,
			AlignToStart: a.Config.Sampler.AlignToStart,
			StartupDelay: a.Config.Sampler.StartupDelay,
		}, fetcher, log, a.newNotifier(), a.Config.Alerting.ThresholdPct, a.Logger)
		go func() {
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error().Err(err).Msg("sampler terminated with error")
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("http server shutdown failed")
		return err
	}

	a.Logger.Info().Msg("http server stopped")
	return nil
}

// ExportOptions hold parameters for exporting the arbitrage log.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
