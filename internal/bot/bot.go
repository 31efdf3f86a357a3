// Package bot is the telegram front-end: it parses the fixed command set,
// forwards subscribe/unsubscribe to the application, and doubles as the
// delivery transport used by the broadcaster.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"github.com/veeso/spazio-grigio-bot/internal/feed"
)

// Subscriptions is what the front-end needs from the application.
type Subscriptions interface {
	Subscribe(ctx context.Context, chatID int64) error
	Unsubscribe(ctx context.Context, chatID int64) error
}

const handlerTimeout = 30 * time.Second

type Bot struct {
	b      *tele.Bot
	subs   Subscriptions
	videos feed.Source
	log    zerolog.Logger
}

// New connects to the Telegram API. videos backs the on-demand
// /videominimalista and /serasenzatv commands.
func New(token string, subs Subscriptions, videos feed.Source, log zerolog.Logger) (*Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{b: b, subs: subs, videos: videos, log: log}
	bot.routes()
	return bot, nil
}

func (b *Bot) routes() {
	b.b.Handle("/start", func(c tele.Context) error { return c.Send(textStart) })
	b.b.Handle("/help", func(c tele.Context) error { return c.Send(textHelp) })
	b.b.Handle("/ciaoirina", b.onSubscribe)
	b.b.Handle("/sialconsumismo", b.onUnsubscribe)
	b.b.Handle("/buongiornoirina", func(c tele.Context) error { return c.Send(GoodMorningText()) })
	b.b.Handle("/videominimalista", b.onLatestVideo)
	b.b.Handle("/serasenzatv", b.onLatestVideos)
}

// Start begins long polling. It returns immediately; telebot runs its own
// loop until Stop.
func (b *Bot) Start() {
	go b.b.Start()
	b.log.Info().Msg("telegram long polling started")
}

func (b *Bot) Stop() {
	b.b.Stop()
	b.log.Info().Msg("telegram long polling stopped")
}

// Send implements notify.Transport. The telebot API call itself carries no
// context, so an in-flight send cannot be interrupted; cancellation takes
// effect between sends.
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.b.Send(tele.ChatID(chatID), text)
	return err
}

func (b *Bot) onSubscribe(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := b.subs.Subscribe(ctx, c.Chat().ID); err != nil {
		b.log.Error().Err(err).Int64("chat", c.Chat().ID).Msg("subscribe failed")
		return c.Send(err.Error())
	}
	return c.Send(textSubscribed)
}

func (b *Bot) onUnsubscribe(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := b.subs.Unsubscribe(ctx, c.Chat().ID); err != nil {
		b.log.Error().Err(err).Int64("chat", c.Chat().ID).Msg("unsubscribe failed")
		return c.Send(err.Error())
	}
	return c.Send(textUnsubscribed)
}

func (b *Bot) onLatestVideo(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	items, err := b.videos.Fetch(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("latest video fetch failed")
		return c.Send(err.Error())
	}
	if len(items) == 0 {
		return c.Send(textNoVideos)
	}
	latest := items[len(items)-1]
	return c.Send(RenderVideo(latest))
}

func (b *Bot) onLatestVideos(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	items, err := b.videos.Fetch(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("latest videos fetch failed")
		return c.Send(err.Error())
	}
	if len(items) == 0 {
		return c.Send(textNoVideos)
	}
	return c.Send(renderVideoList(items))
}
