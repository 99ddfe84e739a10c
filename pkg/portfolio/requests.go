package portfolio

import "encoding/json"

// Request DTOs

// AddItemRequest contains parameters for creating an entry from a local file.
// FilePath points at a temporary copy of the upload; the caller deletes it
// after the call returns, success or not.
type AddItemRequest struct {
	FilePath    string
	FileName    string
	Title       string
	Category    string
	Medium      string
	Genre       string
	Description string
	Created     string
	Resource    ResourceKind
}

// AddItemFromURLRequest contains parameters for creating an entry whose asset
// is already hosted somewhere durable; the URL is stored verbatim.
type AddItemFromURLRequest struct {
	URL         string
	Title       string
	Category    string
	Medium      string
	Genre       string
	Description string
	Created     string
}

// UpdateItemRequest applies a partial field merge to one entry.
type UpdateItemRequest struct {
	Category string
	ID       string
	Updates  map[string]json.RawMessage
}

// MoveToPileRequest folds the source entry's images into the target's gallery
// and deletes the source.
type MoveToPileRequest struct {
	Category string
	SourceID string
	TargetID string
}

// ExtractFromPileRequest promotes one gallery image to a standalone entry.
// ImageIndex is authoritative; when ImageURL is also supplied it must agree
// with the element at that index.
type ExtractFromPileRequest struct {
	Category          string
	SourceID          string
	ImageURL          string
	ImageIndex        int
	CustomTitle       string
	CustomDescription string
}

// AddToPileRequest moves one gallery image from the source's gallery to the
// target's gallery.
type AddToPileRequest struct {
	Category   string
	SourceID   string
	TargetID   string
	ImageURL   string
	ImageIndex int
}
