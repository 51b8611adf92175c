package domain

// Snapshot is the read-only view of cart state handed to subscribers and
// readers. Items are deep copies; holders can mutate a snapshot freely
// without touching the store's authoritative state.
//
// The persisted record excludes PanelOpen: visibility is ephemeral and
// never survives a session.
type Snapshot struct {
	Items         []LineItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	TotalQuantity int64      `json:"total_quantity"`
	PanelOpen     bool       `json:"panel_open"`
}
