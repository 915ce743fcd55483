package models

type EntryKind string

const (
	EntryHeader   EntryKind = "header"
	EntryCurrency EntryKind = "currency"
)

// CatalogEntry is either a section header (Title set) or a currency leaf
// (Code, Name and FlagURL set). Kind tells which.
type CatalogEntry struct {
	Kind    EntryKind `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Code    string    `json:"code,omitempty"`
	Name    string    `json:"name,omitempty"`
	FlagURL string    `json:"flagUrl,omitempty"`
}

func (e CatalogEntry) IsHeader() bool {
	return e.Kind == EntryHeader
}
