package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/tanamoe/release-bot/db"
	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/telemetry"
)

// Session is the subset of *discordgo.Session the bot calls.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Digester runs the release pipeline for an optional raw date.
type Digester interface {
	Digest(ctx context.Context, rawDate string) (*release.Summary, error)
}

// DeliveryLog records delivered scheduled digests.
type DeliveryLog interface {
	RecordDelivery(ctx context.Context, d db.Delivery) error
}

// Bot dispatches slash commands and scheduled digests.
type Bot struct {
	session    Session
	digester   Digester
	appID      string
	images     ImageFetcher
	deliveries DeliveryLog
	handlers   map[string]commandHandler
}

type commandHandler func(ctx context.Context, inv *invocation)

// Option configures a Bot.
type Option func(*Bot)

// WithImageFetcher attaches calendar images downloaded by f instead of linking them.
func WithImageFetcher(f ImageFetcher) Option {
	return func(b *Bot) { b.images = f }
}

// WithDeliveryLog records every scheduled delivery in l.
func WithDeliveryLog(l DeliveryLog) Option {
	return func(b *Bot) { b.deliveries = l }
}

// New returns a bot for application appID.
func New(session Session, digester Digester, appID string, opts ...Option) *Bot {
	b := &Bot{session: session, digester: digester, appID: appID}
	b.handlers = map[string]commandHandler{
		CommandReleases: b.handleReleases,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register replaces the application's global commands with the bot's set.
func (b *Bot) Register() error {
	cmds, err := b.session.ApplicationCommandBulkOverwrite(b.appID, "", Commands())
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	slog.Info("registered application commands", slog.Int("count", len(cmds)), slog.String("component", "bot"))
	return nil
}

// OnInteraction is the discordgo handler for InteractionCreate events.
func (b *Bot) OnInteraction(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	b.HandleInteraction(context.Background(), ic.Interaction)
}

// HandleInteraction dispatches one interaction. Panics and errors are
// contained here; the user always gets a reply once the command is known.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	log := telemetry.LoggerWithCorr(ctx).With(slog.String("command", name), slog.String("component", "bot"))

	h, ok := b.handlers[name]
	if !ok {
		log.Error("unknown command")
		return
	}

	inv := &invocation{bot: b, interaction: i, log: log}
	defer func() {
		if r := recover(); r != nil {
			log.Error("command panicked", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			inv.fail(fmt.Errorf("panic: %v", r))
		}
	}()
	h(ctx, inv)
}

// invocation tracks the reply state of one command call.
type invocation struct {
	bot         *Bot
	interaction *discordgo.Interaction
	log         *slog.Logger
	deferred    bool
	replied     bool
}

func (inv *invocation) option(name string) string {
	for _, o := range inv.interaction.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func (inv *invocation) deferReply() error {
	err := inv.bot.session.InteractionRespond(inv.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		return fmt.Errorf("defer reply: %w", err)
	}
	inv.deferred = true
	return nil
}

func (inv *invocation) edit(edit *discordgo.WebhookEdit) error {
	if _, err := inv.bot.session.InteractionResponseEdit(inv.interaction, edit); err != nil {
		return fmt.Errorf("edit reply: %w", err)
	}
	inv.replied = true
	return nil
}

func (inv *invocation) editText(text string) error {
	return inv.edit(&discordgo.WebhookEdit{Content: &text})
}

// fail delivers the generic failure message if nothing was replied yet.
func (inv *invocation) fail(cause error) {
	if inv.replied {
		return
	}
	log := inv.log
	if inv.deferred {
		if err := inv.editText(MsgFailure); err != nil {
			log.Error("failed to deliver failure message", slog.Any("err", err), slog.Any("cause", cause))
		}
		return
	}
	err := inv.bot.session.InteractionRespond(inv.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: MsgFailure, Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Error("failed to deliver failure message", slog.Any("err", err), slog.Any("cause", cause))
		return
	}
	inv.replied = true
}

func (b *Bot) handleReleases(ctx context.Context, inv *invocation) {
	if err := inv.deferReply(); err != nil {
		inv.log.Error("acknowledge failed", slog.Any("err", err))
		telemetry.CountCommand(CommandReleases, telemetry.OutcomeFailed)
		return
	}

	summary, err := b.digester.Digest(ctx, inv.option(OptionDate))
	switch {
	case errors.Is(err, release.ErrInvalidDate):
		inv.log.Info("invalid date", slog.Any("err", err))
		telemetry.CountCommand(CommandReleases, telemetry.OutcomeInvalidDate)
		err = inv.editText(MsgInvalidDate)
	case errors.Is(err, release.ErrNoReleases):
		telemetry.CountCommand(CommandReleases, telemetry.OutcomeEmpty)
		err = inv.editText(MsgNoReleases)
	case err != nil:
		inv.log.Error("release digest failed", slog.Any("err", err))
		telemetry.CountCommand(CommandReleases, telemetry.OutcomeFailed)
		inv.fail(err)
		return
	default:
		msg := b.render(ctx, summary)
		err = inv.edit(&discordgo.WebhookEdit{Embeds: &msg.embeds, Files: msg.files})
		if err == nil {
			telemetry.CountCommand(CommandReleases, telemetry.OutcomeDelivered)
			inv.log.Info("releases delivered", slog.Int("items", summary.ItemCount()), slog.String("day", summary.Date.Format("2006-01-02")))
		}
	}
	if err != nil {
		inv.log.Error("reply failed", slog.Any("err", err))
	}
}
