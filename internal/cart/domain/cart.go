package domain

import "fmt"

type ItemKind string

const (
	KindService ItemKind = "SERVICE"
	KindPackage ItemKind = "PACKAGE"
)

func (k ItemKind) Valid() bool {
	return k == KindService || k == KindPackage
}

func ParseItemKind(s string) (ItemKind, error) {
	switch ItemKind(s) {
	case KindService:
		return KindService, nil
	case KindPackage:
		return KindPackage, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// ItemKey uniquely identifies a line item. The same catalog id may appear
// once as a service and once as a package without colliding.
type ItemKey struct {
	ItemID string
	Kind   ItemKind
}

type LineItem struct {
	ItemID      string   `json:"item_id"`
	Kind        ItemKind `json:"item_kind"`
	DisplayName string   `json:"display_name"`
	UnitPrice   int64    `json:"unit_price"`
	VendorName  string   `json:"vendor_name"`
	ImageRef    string   `json:"image_ref"`
	Quantity    int64    `json:"quantity"`
}

func (it LineItem) Key() ItemKey {
	return ItemKey{ItemID: it.ItemID, Kind: it.Kind}
}
