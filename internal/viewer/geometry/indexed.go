package geometry

import (
	"fmt"

	"house-viewer/internal/viewer/models"
)

// ============================================================
// Indexed geometry
// ============================================================

// Indexed - компактный буфер под-меша: каждая метка встречается в Positions
// ровно один раз, грани ссылаются на неё через Indices.
type Indexed struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Labels    []string
}

func (g *Indexed) VertexCount() int {
	return len(g.Positions) / 3
}

func (g *Indexed) TriangleCount() int {
	return len(g.Indices) / 3
}

// BuildIndexed переводит грани с метками в индексированный буфер.
// Локальные индексы выдаются по порядку первого появления метки.
func BuildIndexed(vertices map[string]models.Vec3, faces []models.Face) (*Indexed, error) {
	g := &Indexed{
		Positions: make([]float32, 0, len(faces)*3),
		Indices:   make([]uint32, 0, len(faces)*3),
	}
	local := make(map[string]uint32)

	for i, face := range faces {
		if len(face) != 3 {
			return nil, fmt.Errorf("%w: face %d has %d labels", models.ErrMalformedFace, i, len(face))
		}

		for _, label := range face {
			if _, seen := local[label]; seen {
				continue
			}
			v, ok := vertices[label]
			if !ok {
				return nil, &models.MissingVertexError{Face: i, Label: label}
			}
			local[label] = uint32(len(g.Labels))
			g.Labels = append(g.Labels, label)
			g.Positions = append(g.Positions, float32(v[0]), float32(v[1]), float32(v[2]))
		}

		g.Indices = append(g.Indices, local[face[0]], local[face[1]], local[face[2]])
	}

	g.Normals = ComputeNormals(g.Positions, g.Indices)
	return g, nil
}
