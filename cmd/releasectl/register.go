package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanamoe/release-bot/bot"
)

// registerCmd and postCmd only use the Discord REST API; the gateway is never opened.

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Overwrite the application's slash commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DiscordToken == "" || cfg.DiscordClientID == "" {
				return errors.New("missing discord env: require DISCORD_TOKEN, DISCORD_CLIENT_ID")
			}
			session, err := bot.NewSession(cfg.DiscordToken)
			if err != nil {
				return err
			}
			if err := bot.New(session, nil, cfg.DiscordClientID).Register(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %d command(s)\n", len(bot.Commands()))
			return nil
		},
	}
}

func postCmd() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post today's digest to a channel now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if channel == "" {
				channel = cfg.DiscordChannelID
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			session, err := bot.NewSession(cfg.DiscordToken)
			if err != nil {
				return err
			}
			b := bot.New(session, svc, cfg.DiscordClientID, bot.WithImageFetcher(bot.NewHTTPImageFetcher(cfg.CatalogTimeout)))
			if err := b.PostDigest(cmd.Context(), channel); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "target channel id (default DISCORD_CHANNEL_ID)")
	return cmd
}
