package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadEmotes reads the publisher slug -> glyph mapping from a YAML file:
//
//	ipm: "<:ipm:1100000000000000001>"
//	kim-dong: "<:kimdong:1100000000000000002>"
//
// An empty path yields an empty mapping.
func LoadEmotes(path string) (map[string]string, error) {
	emotes := map[string]string{}
	if path == "" {
		return emotes, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read emotes file: %w", err)
	}
	return ParseEmotes(data)
}

// ParseEmotes decodes a YAML slug -> glyph mapping. Blank slugs are dropped.
func ParseEmotes(data []byte) (map[string]string, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse emotes: %w", err)
	}
	emotes := make(map[string]string, len(raw))
	for slug, glyph := range raw {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		emotes[slug] = strings.TrimSpace(glyph)
	}
	return emotes, nil
}
