// Package app wires the bot together: stores, sources, polling jobs,
// scheduler and the telegram front-end.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/veeso/spazio-grigio-bot/internal/bot"
	"github.com/veeso/spazio-grigio-bot/internal/config"
	"github.com/veeso/spazio-grigio-bot/internal/feed"
	"github.com/veeso/spazio-grigio-bot/internal/logging"
	"github.com/veeso/spazio-grigio-bot/internal/notify"
	"github.com/veeso/spazio-grigio-bot/internal/poll"
	"github.com/veeso/spazio-grigio-bot/internal/sched"
	"github.com/veeso/spazio-grigio-bot/internal/subscriber"
	"github.com/veeso/spazio-grigio-bot/internal/watermark"
)

// Watermark keys. Stable across restarts and redeploys; changing one resets
// the corresponding source to "never checked".
const (
	keyNewsletter = "spaziogrigio-bot:last_newsletter_update"
	keyVideo      = "spaziogrigio-bot:last_video_pubdate"
	keyInstagram  = "spaziogrigio-bot:last_instagram_update_v2"
)

type App struct {
	log zerolog.Logger

	marks *watermark.RedisStore
	dir   *subscriber.SQLiteDirectory
	bot   *bot.Bot
	bc    *notify.Broadcaster
	sched *sched.Service
}

// New builds every component and registers the polling jobs. A malformed
// schedule or unreachable local store fails here, before anything runs.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	marks, err := watermark.NewRedis(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("watermark store: %w", err)
	}
	dir, err := subscriber.OpenSQLite(cfg.Database.Path, log.With().Str("component", "subscriber").Logger())
	if err != nil {
		_ = marks.Close()
		return nil, fmt.Errorf("subscriber directory: %w", err)
	}

	a := &App{
		log:   log,
		marks: marks,
		dir:   dir,
		sched: sched.New(log.With().Str("component", "sched").Logger()),
	}

	youtube := feed.NewYouTube(cfg.YouTube.ChannelID)
	a.bot, err = bot.New(cfg.Telegram.Token, a, youtube, log.With().Str("component", "bot").Logger())
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("telegram: %w", err)
	}
	a.bc = notify.New(a.bot, cfg.Notify.RatePerSec, log.With().Str("component", "notify").Logger())

	if err := a.registerJobs(cfg, youtube); err != nil {
		a.closeStores()
		return nil, err
	}
	return a, nil
}

func (a *App) registerJobs(cfg *config.Config, youtube feed.Source) error {
	pollLog := a.log.With().Str("component", "poll").Logger()
	newJob := func(jc poll.JobConfig) *poll.Job {
		return poll.NewJob(jc, a.marks, a.dir, a.bc, pollLog)
	}

	newsletter := newJob(poll.JobConfig{
		Name: "newsletter",
		Key:  keyNewsletter,
		Source: feed.NewMailbox(
			cfg.Mail.Server, cfg.Mail.Port,
			cfg.Mail.Address, cfg.Mail.Password,
			cfg.Mail.Sender,
		),
		Policy: poll.SingleLatest{},
		Render: bot.RenderNewsletter,
	})
	video := newJob(poll.JobConfig{
		Name:   "video",
		Key:    keyVideo,
		Source: youtube,
		Policy: poll.OldestUnseen{},
		Render: bot.RenderVideo,
	})
	instagram := newJob(poll.JobConfig{
		Name:   "instagram",
		Key:    keyInstagram,
		Source: feed.NewRSSHub(cfg.RSSHub.URL, cfg.RSSHub.Account),
		Policy: poll.OldestUnseen{},
		Render: bot.RenderInstagram,
	})

	for _, reg := range []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"newsletter", cfg.Schedules.Newsletter, newsletter.Run},
		{"video", cfg.Schedules.Video, video.Run},
		{"instagram", cfg.Schedules.Instagram, instagram.Run},
		{"good_morning", cfg.Schedules.GoodMorning, a.goodMorning},
	} {
		if err := a.sched.Add(reg.name, reg.spec, reg.run); err != nil {
			return fmt.Errorf("register schedule: %w", err)
		}
	}
	return nil
}

// Start arms the scheduler and begins serving telegram commands.
func (a *App) Start(ctx context.Context) error {
	if err := a.sched.Start(ctx); err != nil {
		return err
	}
	a.bot.Start()
	a.log.Info().Msg("application ready")
	return nil
}

// Stop broadcasts the restart notice, then shuts everything down
// gracefully within ctx.
func (a *App) Stop(ctx context.Context) {
	a.notifyRestart(ctx)
	a.bot.Stop()
	a.sched.Stop(ctx)
	a.closeStores()
	a.log.Info().Msg("application stopped")
}

func (a *App) closeStores() {
	if err := a.marks.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing watermark store")
	}
	if err := a.dir.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing subscriber directory")
	}
}

// Subscribe implements bot.Subscriptions.
func (a *App) Subscribe(ctx context.Context, chatID int64) error {
	if err := a.dir.Add(ctx, chatID); err != nil {
		return err
	}
	a.log.Info().Int64("chat", chatID).Msg("chat subscribed")
	return nil
}

// Unsubscribe implements bot.Subscriptions.
func (a *App) Unsubscribe(ctx context.Context, chatID int64) error {
	if err := a.dir.Remove(ctx, chatID); err != nil {
		return err
	}
	a.log.Info().Int64("chat", chatID).Msg("chat unsubscribed")
	return nil
}

// ApplyConfig is the config hot-reload hook. Only the log level can change
// at runtime; schedules and credentials need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	logging.SetLevel(cfg.Logging.Level)
}

// goodMorning is the scheduled morning broadcast. Not a poll job: there is
// no source and no watermark, just a random routine video.
func (a *App) goodMorning(ctx context.Context) error {
	targets, err := a.dir.List(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	a.bc.Broadcast(ctx, bot.GoodMorningText(), targets)
	return nil
}

// notifyRestart tells every subscriber the bot is going away for a while.
func (a *App) notifyRestart(ctx context.Context) {
	targets, err := a.dir.List(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("restart notice: listing subscribers failed")
		return
	}
	a.bc.Broadcast(ctx, bot.RestartText(), targets)
}
