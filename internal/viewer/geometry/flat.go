package geometry

import (
	"house-viewer/internal/viewer/models"
)

// ============================================================
// Non-indexed geometry
// ============================================================

// Flat хранит каждую вершину каждого треугольника отдельно,
// общие вершины дублируются.
type Flat struct {
	Positions []float32
	Normals   []float32
}

func (g *Flat) VertexCount() int {
	return len(g.Positions) / 3
}

func (g *Flat) TriangleCount() int {
	return len(g.Positions) / 9
}

// BuildFlat разворачивает грани с числовыми индексами в плоский буфер.
func BuildFlat(doc *models.FlatDocument) (*Flat, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	g := &Flat{Positions: make([]float32, 0, len(doc.Faces)*9)}
	for _, face := range doc.Faces {
		for _, idx := range face {
			v := doc.Vertices[idx]
			g.Positions = append(g.Positions, float32(v[0]), float32(v[1]), float32(v[2]))
		}
	}

	g.Normals = ComputeNormals(g.Positions, nil)
	return g, nil
}
