package release

import (
	"context"
	"time"
)

// Item is a single catalog record releasing on a given day.
type Item struct {
	ID            string
	Name          string
	Edition       string
	Volume        int // packed encoding, see DecodeVolume
	Price         float64
	PublisherID   string
	PublisherName string
	PublisherSlug string
	ReleaseDate   time.Time
}

// Label is the line shown for the item in a publisher field.
func (it Item) Label() string {
	if it.Edition != "" {
		return it.Name + " (" + it.Edition + ")"
	}
	return it.Name
}

// Entry pairs a fetched item with its decoded display volume.
type Entry struct {
	Item
	DisplayVolume float64
}

// PublisherGroup holds the entries of one publisher in fetch order.
type PublisherGroup struct {
	PublisherID   string
	PublisherName string
	PublisherSlug string
	Entries       []Entry
}

// Aggregation is the grouped view of one day's items.
type Aggregation struct {
	Groups     []PublisherGroup
	TotalPrice float64
	ItemCount  int
}

// Field is one rendered publisher block of a Summary.
type Field struct {
	Name  string
	Value string
}

// Summary is the presentation-ready digest for a single day.
type Summary struct {
	Date       time.Time
	DateLabel  string
	TotalPrice float64
	TotalLabel string
	Groups     []PublisherGroup
	Fields     []Field
	ImageURL   string
}

// ItemCount returns the number of items across all groups.
func (s *Summary) ItemCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Entries)
	}
	return n
}

// Fetcher returns the items releasing within [day, day+1).
// An empty result is not an error.
type Fetcher interface {
	Releases(ctx context.Context, day time.Time) ([]Item, error)
}
