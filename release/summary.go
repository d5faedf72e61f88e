package release

import (
	"strings"
	"time"
)

// DefaultImageURL is the calendar image renderer; {date} is replaced by the
// ISO day.
const DefaultImageURL = "https://og.tana.moe/calendar/today?date={date}"

// SummaryBuilder renders an Aggregation into a Summary. It performs no I/O.
type SummaryBuilder struct {
	Locale   Locale
	Emotes   map[string]string // publisher slug -> glyph
	ImageURL string            // template containing {date}
}

// Build renders the summary for day.
func (b SummaryBuilder) Build(day time.Time, agg Aggregation) Summary {
	s := Summary{
		Date:       day,
		DateLabel:  b.Locale.FormatDate(day),
		TotalPrice: agg.TotalPrice,
		TotalLabel: b.Locale.FormatCurrency(agg.TotalPrice),
		Groups:     agg.Groups,
		Fields:     make([]Field, 0, len(agg.Groups)),
		ImageURL:   b.imageURL(day),
	}
	for _, g := range agg.Groups {
		lines := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			lines = append(lines, e.Label())
		}
		s.Fields = append(s.Fields, Field{
			Name:  b.displayName(g),
			Value: strings.Join(lines, "\n"),
		})
	}
	return s
}

func (b SummaryBuilder) displayName(g PublisherGroup) string {
	return strings.TrimSpace(b.Emotes[g.PublisherSlug] + " " + g.PublisherName)
}

func (b SummaryBuilder) imageURL(day time.Time) string {
	tmpl := b.ImageURL
	if tmpl == "" {
		tmpl = DefaultImageURL
	}
	if b.Locale.Location != nil {
		day = day.In(b.Locale.Location)
	}
	return strings.ReplaceAll(tmpl, "{date}", day.Format(time.DateOnly))
}
