package scene

import (
	"house-viewer/internal/viewer/palette"
)

// ============================================================
// Snapshot
// ============================================================

type SectionView struct {
	Name            string       `json:"name"`
	Visible         bool         `json:"visible"`
	Drawn           bool         `json:"drawn"`
	Positions       []float32    `json:"positions"`
	Normals         []float32    `json:"normals"`
	Indices         []uint32     `json:"indices"`
	Labels          []string     `json:"labels"`
	Material        Material     `json:"material"`
	Outline         []float32    `json:"outline"`
	OutlineMaterial LineMaterial `json:"outline_material"`
}

type PartView struct {
	Name     string        `json:"name"`
	Color    palette.Color `json:"color"`
	Visible  bool          `json:"visible"`
	Sections []SectionView `json:"sections"`
}

type Snapshot struct {
	Parts []PartView `json:"parts"`
	Stats Stats      `json:"stats"`
}

// Snapshot копирует флаги видимости под блокировкой. Буферы геометрии
// разделяются со сценой, их нельзя изменять.
func (h *House) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := Snapshot{Parts: make([]PartView, 0, len(h.parts)), Stats: h.Stats()}
	for _, p := range h.parts {
		pv := PartView{
			Name:     p.Name,
			Color:    p.Color,
			Visible:  p.visible,
			Sections: make([]SectionView, 0, len(p.Sections)),
		}
		for _, s := range p.Sections {
			g := s.Mesh.Geometry
			pv.Sections = append(pv.Sections, SectionView{
				Name:            s.Name,
				Visible:         s.visible,
				Drawn:           p.visible && s.visible,
				Positions:       nonNil(g.Positions),
				Normals:         nonNil(g.Normals),
				Indices:         nonNilIdx(g.Indices),
				Labels:          nonNilLabels(g.Labels),
				Material:        s.Mesh.Material,
				Outline:         nonNil(s.Outline.Positions),
				OutlineMaterial: s.Outline.Material,
			})
		}
		snap.Parts = append(snap.Parts, pv)
	}
	return snap
}

func nonNil(v []float32) []float32 {
	if v == nil {
		return []float32{}
	}
	return v
}

func nonNilIdx(v []uint32) []uint32 {
	if v == nil {
		return []uint32{}
	}
	return v
}

func nonNilLabels(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
