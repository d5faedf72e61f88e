package release

// Aggregate groups items by publisher, preserving fetch order inside each
// group and first-seen order across groups. The total is summed over the
// input before grouping.
func Aggregate(items []Item) Aggregation {
	agg := Aggregation{ItemCount: len(items)}
	for _, it := range items {
		agg.TotalPrice += it.Price
	}

	index := make(map[string]int, len(items))
	for _, it := range items {
		i, ok := index[it.PublisherID]
		if !ok {
			i = len(agg.Groups)
			index[it.PublisherID] = i
			agg.Groups = append(agg.Groups, PublisherGroup{
				PublisherID:   it.PublisherID,
				PublisherName: it.PublisherName,
				PublisherSlug: it.PublisherSlug,
			})
		}
		agg.Groups[i].Entries = append(agg.Groups[i].Entries, Entry{
			Item:          it,
			DisplayVolume: DecodeVolume(it.Volume),
		})
	}
	return agg
}
