package catalog

import (
	"time"

	"github.com/tanamoe/release-bot/release"
)

// pocketbaseTime is the layout PocketBase uses for date fields.
const pocketbaseTime = "2006-01-02 15:04:05.000Z07:00"

type listResponse struct {
	Page    int      `json:"page"`
	PerPage int      `json:"perPage"`
	Items   []record `json:"items"`
}

type record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Edition     string  `json:"edition"`
	Volume      float64 `json:"volume"`
	Price       float64 `json:"price"`
	Publisher   string  `json:"publisher"`
	PublishDate string  `json:"publishDate"`
	Expand      struct {
		Publisher *publisher `json:"publisher"`
	} `json:"expand"`
}

type publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r record) item() release.Item {
	it := release.Item{
		ID:          r.ID,
		Name:        r.Name,
		Edition:     r.Edition,
		Volume:      int(r.Volume),
		Price:       r.Price,
		PublisherID: r.Publisher,
		ReleaseDate: parseDate(r.PublishDate),
	}
	if p := r.Expand.Publisher; p != nil {
		if it.PublisherID == "" {
			it.PublisherID = p.ID
		}
		it.PublisherName = p.Name
		it.PublisherSlug = p.Slug
	}
	return it
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{pocketbaseTime, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
