package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// ============================================================
// Flat document (house01.json)
// ============================================================

type FlatDocument struct {
	Vertices []Vec3  `json:"vertices"`
	Faces    [][]int `json:"faces"`
}

func DecodeFlat(r io.Reader) (*FlatDocument, error) {
	var doc FlatDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &doc, nil
}

// Validate проверяет арность граней и диапазон индексов.
func (d *FlatDocument) Validate() error {
	for i, face := range d.Faces {
		if len(face) != 3 {
			return fmt.Errorf("%w: face %d has %d indices", ErrMalformedFace, i, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(d.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, len(d.Vertices))
			}
		}
	}
	return nil
}
