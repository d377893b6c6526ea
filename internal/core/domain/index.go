package domain

// IndexedItem is a stored retrievable unit in the question index.
type IndexedItem struct {
	// ID is a deterministic function of Text. Re-adding identical text
	// yields the same ID and overwrites rather than duplicates.
	ID string

	// Text is the indexed string (a question or question fragment).
	Text string

	// Metadata contains arbitrary key-value pairs (section, source,
	// difficulty). No keys are required.
	Metadata map[string]any
}

// RetrievalResult is a single nearest-neighbour hit. It is ephemeral and
// never persisted.
type RetrievalResult struct {
	// Item is a copy of the matched item.
	Item IndexedItem

	// Distance is the similarity distance. Zero means identical;
	// results are ordered ascending, nearest first.
	Distance float64
}
