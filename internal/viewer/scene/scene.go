package scene

import (
	"errors"
	"fmt"
	"sync"

	"house-viewer/internal/viewer/geometry"
	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/palette"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrPartNotFound    = errors.New("part not found")
	ErrSectionNotFound = errors.New("section not found")
)

// ============================================================
// Materials
// ============================================================

type Material struct {
	Color       palette.Color `json:"color"`
	Metalness   float64       `json:"metalness"`
	Roughness   float64       `json:"roughness"`
	Opacity     float64       `json:"opacity"`
	Transparent bool          `json:"transparent"`
	DoubleSided bool          `json:"double_sided"`
}

type LineMaterial struct {
	Color       palette.Color `json:"color"`
	Opacity     float64       `json:"opacity"`
	Transparent bool          `json:"transparent"`
}

func surfaceMaterial(color palette.Color) Material {
	return Material{
		Color:       color,
		Metalness:   0.05,
		Roughness:   0.9,
		Opacity:     0.6,
		Transparent: true,
		DoubleSided: true,
	}
}

func outlineMaterial() LineMaterial {
	return LineMaterial{Color: palette.White, Opacity: 0.3, Transparent: true}
}

// ============================================================
// Groups
// ============================================================

type Mesh struct {
	Geometry *geometry.Indexed
	Material Material
}

// Outline - line segments по рёбрам той же геометрии, что и Mesh.
type Outline struct {
	Positions []float32
	Material  LineMaterial
}

type Section struct {
	Name    string
	Mesh    *Mesh
	Outline *Outline
	visible bool
}

type Part struct {
	Name     string
	Color    palette.Color
	Sections []*Section
	visible  bool
	index    map[string]*Section
}

// House - корневая группа. Флаги видимости независимы: флаг части
// не переписывает флаги её секций, но секция рисуется только при обоих true.
type House struct {
	mu    sync.RWMutex
	parts []*Part
	index map[string]*Part
}

// ColorSource выдаёт цвет для очередной части.
type ColorSource interface {
	Next() palette.Color
}

type options struct {
	edgeThreshold float64
}

type Option func(*options)

// WithEdgeThreshold задаёт угол в градусах для контура.
func WithEdgeThreshold(deg float64) Option {
	return func(o *options) { o.edgeThreshold = deg }
}

// Build собирает дерево групп из документа. Документ валидируется целиком до
// построения, частично собранный дом не возвращается.
func Build(doc *models.HouseDocument, colors ColorSource, opts ...Option) (*House, error) {
	o := options{edgeThreshold: geometry.DefaultEdgeThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	h := &House{index: make(map[string]*Part, len(doc.Parts))}
	for _, partDoc := range doc.Parts {
		part := &Part{
			Name:    partDoc.Name,
			Color:   colors.Next(),
			visible: true,
			index:   make(map[string]*Section, len(partDoc.Meshes)),
		}

		for _, meshDoc := range partDoc.Meshes {
			g, err := geometry.BuildIndexed(doc.Vertices, meshDoc.Faces)
			if err != nil {
				var mv *models.MissingVertexError
				if errors.As(err, &mv) {
					mv.Part, mv.Mesh = partDoc.Name, meshDoc.Name
				}
				return nil, fmt.Errorf("build %s/%s: %w", partDoc.Name, meshDoc.Name, err)
			}

			section := &Section{
				Name:    meshDoc.Name,
				Mesh:    &Mesh{Geometry: g, Material: surfaceMaterial(part.Color)},
				Outline: &Outline{Positions: geometry.Edges(g.Positions, g.Indices, o.edgeThreshold), Material: outlineMaterial()},
				visible: true,
			}
			part.Sections = append(part.Sections, section)
			part.index[section.Name] = section
		}

		h.parts = append(h.parts, part)
		h.index[part.Name] = part
	}

	return h, nil
}

// Parts возвращает части в порядке документа. Геометрия после Build
// не меняется, поэтому её можно читать без блокировки.
func (h *House) Parts() []*Part {
	return h.parts
}

// ============================================================
// Visibility
// ============================================================

func (h *House) SetPartVisible(part string, visible bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.index[part]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPartNotFound, part)
	}
	p.visible = visible
	return nil
}

func (h *House) SetSectionVisible(part, section string, visible bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.section(part, section)
	if err != nil {
		return err
	}
	s.visible = visible
	return nil
}

func (h *House) PartVisible(part string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.index[part]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrPartNotFound, part)
	}
	return p.visible, nil
}

func (h *House) SectionVisible(part, section string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, err := h.section(part, section)
	if err != nil {
		return false, err
	}
	return s.visible, nil
}

// Drawn - итоговая видимость секции: флаг части И флаг секции.
func (h *House) Drawn(part, section string) (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, err := h.section(part, section)
	if err != nil {
		return false, err
	}
	return h.index[part].visible && s.visible, nil
}

func (h *House) section(part, section string) (*Section, error) {
	p, ok := h.index[part]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, part)
	}
	s, ok := p.index[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q in part %q", ErrSectionNotFound, section, part)
	}
	return s, nil
}

// ============================================================
// Stats
// ============================================================

type Stats struct {
	Parts     int `json:"parts"`
	Sections  int `json:"sections"`
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
	Edges     int `json:"edges"`
}

func (h *House) Stats() Stats {
	var st Stats
	st.Parts = len(h.parts)
	for _, p := range h.parts {
		st.Sections += len(p.Sections)
		for _, s := range p.Sections {
			st.Vertices += s.Mesh.Geometry.VertexCount()
			st.Triangles += s.Mesh.Geometry.TriangleCount()
			st.Edges += len(s.Outline.Positions) / 6
		}
	}
	return st
}
