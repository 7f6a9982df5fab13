package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ============================================================
// Primitives
// ============================================================

// Vec3 - координата вершины, в JSON это массив из трёх чисел.
type Vec3 [3]float64

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("coordinate must have 3 components, got %d", len(raw))
	}
	copy(v[:], raw)
	return nil
}

// Face - треугольник из трёх меток вершин.
type Face []string

// ============================================================
// Named-group document (house.json)
// ============================================================

type SubMeshDoc struct {
	Name  string `json:"name"`
	Faces []Face `json:"faces"`
}

type Part struct {
	Name   string
	Meshes []SubMeshDoc
}

// PartList сохраняет порядок ключей объекта parts из документа.
type PartList []Part

func (l *PartList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parts must be an object")
	}

	var parts PartList
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in parts", tok)
		}

		var meshes []SubMeshDoc
		if err := dec.Decode(&meshes); err != nil {
			return fmt.Errorf("part %q: %w", name, err)
		}
		parts = append(parts, Part{Name: name, Meshes: meshes})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = parts
	return nil
}

func (l PartList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, part := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(part.Name)
		if err != nil {
			return nil, err
		}
		meshes := part.Meshes
		if meshes == nil {
			meshes = []SubMeshDoc{}
		}
		value, err := json.Marshal(meshes)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type HouseDocument struct {
	Vertices map[string]Vec3 `json:"vertices"`
	Parts    PartList        `json:"parts"`
}

// DecodeHouse читает документ house.json. Ссылки на вершины не проверяются,
// для этого есть Validate.
func DecodeHouse(r io.Reader) (*HouseDocument, error) {
	var doc HouseDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &doc, nil
}

// Validate проверяет имена и ссылки граней на вершины.
func (d *HouseDocument) Validate() error {
	seenParts := make(map[string]struct{}, len(d.Parts))

	for _, part := range d.Parts {
		if part.Name == "" {
			return fmt.Errorf("%w: part name is empty", ErrUnnamed)
		}
		if _, dup := seenParts[part.Name]; dup {
			return fmt.Errorf("%w: part %q", ErrDuplicateName, part.Name)
		}
		seenParts[part.Name] = struct{}{}

		seenMeshes := make(map[string]struct{}, len(part.Meshes))
		for _, mesh := range part.Meshes {
			if mesh.Name == "" {
				return fmt.Errorf("%w: sub-mesh name is empty in part %q", ErrUnnamed, part.Name)
			}
			if _, dup := seenMeshes[mesh.Name]; dup {
				return fmt.Errorf("%w: sub-mesh %q in part %q", ErrDuplicateName, mesh.Name, part.Name)
			}
			seenMeshes[mesh.Name] = struct{}{}

			for i, face := range mesh.Faces {
				if len(face) != 3 {
					return fmt.Errorf("%w: %s/%s face %d has %d labels", ErrMalformedFace, part.Name, mesh.Name, i, len(face))
				}
				for _, label := range face {
					if _, ok := d.Vertices[label]; !ok {
						return &MissingVertexError{Part: part.Name, Mesh: mesh.Name, Face: i, Label: label}
					}
				}
			}
		}
	}

	return nil
}

// SubMeshCount возвращает общее число под-мешей во всех частях.
func (d *HouseDocument) SubMeshCount() int {
	n := 0
	for _, part := range d.Parts {
		n += len(part.Meshes)
	}
	return n
}
