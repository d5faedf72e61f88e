// Package config loads environment variables and provides a typed Config used across the service.
// It applies defaults for everything optional; Validate reports missing credentials, which the
// binary treats as a fatal startup error.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tanamoe/release-bot/release"
)

// DefaultSchedule fires at minute 0 of every sixth hour.
const DefaultSchedule = "0 */6 * * *"

type Config struct {
	// Discord
	DiscordToken     string
	DiscordClientID  string
	DiscordChannelID string

	// Catalog
	CatalogURL        string
	CatalogToken      string
	CatalogCollection string
	CatalogPageSize   int
	CatalogTimeout    time.Duration

	// Presentation
	Locale         string
	Timezone       string
	Currency       string
	CalendarImage  string
	EmotesFile     string
	DigestSchedule string

	// Ops
	HTTPAddr string
	DBDsn    string
}

// Load reads environment variables and applies defaults. It does not check required
// credentials; call Validate for that.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")
	cfg.DiscordClientID = os.Getenv("DISCORD_CLIENT_ID")
	cfg.DiscordChannelID = os.Getenv("DISCORD_CHANNEL_ID")

	cfg.CatalogURL = os.Getenv("CATALOG_URL")
	cfg.CatalogToken = os.Getenv("CATALOG_TOKEN")
	cfg.CatalogCollection = envOr("CATALOG_COLLECTION", "bookDetailed")
	cfg.CatalogPageSize = 500
	if v := os.Getenv("CATALOG_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CATALOG_PAGE_SIZE %q: must be a positive integer", v)
		}
		cfg.CatalogPageSize = n
	}
	cfg.CatalogTimeout = 15 * time.Second
	if v := os.Getenv("CATALOG_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CATALOG_TIMEOUT %q: must be a positive duration", v)
		}
		cfg.CatalogTimeout = d
	}

	cfg.Locale = envOr("LOCALE", "vi-VN")
	cfg.Timezone = envOr("TIMEZONE", "Asia/Ho_Chi_Minh")
	cfg.Currency = envOr("CURRENCY", "VND")
	cfg.CalendarImage = envOr("CALENDAR_IMAGE_URL", release.DefaultImageURL)
	cfg.EmotesFile = os.Getenv("EMOTES_FILE")
	cfg.DigestSchedule = envOr("DIGEST_SCHEDULE", DefaultSchedule)

	cfg.HTTPAddr = envOr("HTTP_ADDR", ":8080")
	cfg.DBDsn = os.Getenv("DB_DSN")

	return cfg, nil
}

// Validate checks the credentials the bot cannot start without.
func (c *Config) Validate() error {
	var missing []string
	for _, req := range []struct{ name, value string }{
		{"DISCORD_TOKEN", c.DiscordToken},
		{"DISCORD_CLIENT_ID", c.DiscordClientID},
		{"DISCORD_CHANNEL_ID", c.DiscordChannelID},
		{"CATALOG_URL", c.CatalogURL},
		{"CATALOG_TOKEN", c.CatalogToken},
	} {
		if strings.TrimSpace(req.value) == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(c.CalendarImage, "{date}") {
		return errors.New("CALENDAR_IMAGE_URL must contain a {date} placeholder")
	}
	return nil
}

// ValidateCatalog checks only the catalog settings, for tools that never touch Discord.
func (c *Config) ValidateCatalog() error {
	if c.CatalogURL == "" || c.CatalogToken == "" {
		return fmt.Errorf("missing catalog env: require CATALOG_URL, CATALOG_TOKEN")
	}
	return nil
}

// ReleaseLocale builds the immutable presentation locale.
func (c *Config) ReleaseLocale() (release.Locale, error) {
	return release.NewLocale(c.Locale, c.Timezone, c.Currency)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
