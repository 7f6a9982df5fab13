package models

// ============================================================
// Stored documents
// ============================================================

const (
	KindNamed = "named"
	KindFlat  = "flat"
)

type HouseRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Body      []byte `json:"-"`
	CreatedAt string `json:"created_at"`
}
