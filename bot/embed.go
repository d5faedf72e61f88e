package bot

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/telemetry"
)

const (
	embedColor  = 0x89c4f4
	embedTitle  = "Lịch phát hành"
	embedURL    = "https://tana.moe/calendar"
	authorName  = "Tana.moe"
	authorURL   = "https://tana.moe"
	authorIcon  = "https://tana.moe/apple-touch-icon.png"
	footerLabel = "Tổng số tiền: "

	// ImageName is the attachment name of the calendar image.
	ImageName = "releases.png"

	// Discord embed limits.
	maxFields     = 25
	maxFieldName  = 256
	maxFieldValue = 1024
)

type message struct {
	embeds []*discordgo.MessageEmbed
	files  []*discordgo.File
}

// render turns a summary into an embed, attaching the calendar image when it
// can be downloaded and linking it otherwise.
func (b *Bot) render(ctx context.Context, s *release.Summary) message {
	embed := Embed(s)
	msg := message{embeds: []*discordgo.MessageEmbed{embed}}
	if b.images == nil {
		return msg
	}
	file, err := b.images.Fetch(ctx, s.ImageURL, ImageName)
	if err != nil {
		telemetry.LoggerWithCorr(ctx).Warn("calendar image unavailable; linking instead",
			slog.String("url", s.ImageURL), slog.Any("err", err), slog.String("component", "bot"))
		return msg
	}
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + ImageName}
	msg.files = []*discordgo.File{file}
	return msg
}

// Embed renders the summary as a Discord embed linking the calendar image.
func Embed(s *release.Summary) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Color: embedColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    authorName,
			IconURL: authorIcon,
			URL:     authorURL,
		},
		Title:       embedTitle,
		Description: s.DateLabel,
		URL:         embedURL,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerLabel + s.TotalLabel},
		Image:       &discordgo.MessageEmbedImage{URL: s.ImageURL},
	}
	for i, f := range s.Fields {
		if i == maxFields {
			slog.Warn("summary exceeds embed field limit; truncating",
				slog.Int("fields", len(s.Fields)), slog.String("component", "bot"))
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  truncate(f.Name, maxFieldName),
			Value: truncate(f.Value, maxFieldValue),
		})
	}
	return e
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
