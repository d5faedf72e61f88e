package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/tanamoe/release-bot/db"
	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/telemetry"
)

// PostDigest sends today's summary to channelID. Days without releases are
// skipped silently; the caller only sees real failures.
func (b *Bot) PostDigest(ctx context.Context, channelID string) error {
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	log := telemetry.LoggerWithCorr(ctx).With(slog.String("channel", channelID), slog.String("component", "scheduler"))

	summary, err := b.digester.Digest(ctx, "")
	if release.IsOutcome(err) {
		log.Debug("no releases today; skipping digest", slog.Any("reason", err))
		telemetry.CountDigest(telemetry.OutcomeEmpty)
		return nil
	}
	if err != nil {
		telemetry.CountDigest(telemetry.OutcomeFailed)
		return fmt.Errorf("build digest: %w", err)
	}

	msg := b.render(ctx, summary)
	sent, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: msg.embeds,
		Files:  msg.files,
	})
	if err != nil {
		telemetry.CountDigest(telemetry.OutcomeFailed)
		return fmt.Errorf("send digest: %w", err)
	}
	telemetry.CountDigest(telemetry.OutcomeDelivered)
	log.Info("digest delivered", slog.Int("items", summary.ItemCount()), slog.String("day", summary.Date.Format(time.DateOnly)))

	if b.deliveries != nil {
		d := db.Delivery{
			Day:         summary.Date,
			ChannelID:   channelID,
			MessageID:   sent.ID,
			Items:       summary.ItemCount(),
			TotalPrice:  summary.TotalPrice,
			DeliveredAt: time.Now().UTC(),
		}
		if err := b.deliveries.RecordDelivery(ctx, d); err != nil {
			log.Warn("failed to record delivery", slog.Any("err", err))
		}
	}
	return nil
}

// Scheduler runs PostDigest on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	bot     *Bot
	channel string
	timeout time.Duration
}

// NewScheduler parses schedule (standard five-field cron) in loc.
func NewScheduler(b *Bot, channelID, schedule string, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{log: slog.Default().With(slog.String("component", "scheduler"))}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		bot:     b,
		channel: channelID,
		timeout: 2 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.bot.PostDigest(ctx, s.channel); err != nil {
		slog.Error("scheduled digest failed", slog.Any("err", err), slog.String("component", "scheduler"))
	}
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running digest to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		slog.Info("digest scheduled", slog.Time("next", e.Next), slog.String("component", "scheduler"))
	}
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append([]any{slog.Any("err", err)}, keysAndValues...)...)
}
