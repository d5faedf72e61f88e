package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/tanamoe/release-bot/telemetry"
)

// NewSession creates a gateway session that tracks its connection state in
// the gateway metric. The caller adds handlers and opens it.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		telemetry.SetGatewayConnected(true)
		slog.Info("gateway ready", slog.String("user", r.User.Username), slog.Int("guilds", len(r.Guilds)), slog.String("component", "bot"))
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		telemetry.SetGatewayConnected(true)
	})
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		telemetry.SetGatewayConnected(false)
		slog.Warn("gateway disconnected", slog.String("component", "bot"))
	})
	return s, nil
}
