package types

// Table names of the persisted layout.
const (
	HistoryTable = "history"
	DetailsTable = "details"
)
