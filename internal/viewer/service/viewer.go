package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"house-viewer/internal/viewer/geometry"
	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/panel"
	"house-viewer/internal/viewer/scene"

	"github.com/google/uuid"
)

// ============================================================
// Viewer
// ============================================================

// Store - хранилище документов.
type Store interface {
	Save(ctx context.Context, name, kind string, body []byte) (*models.HouseRecord, error)
	Get(ctx context.Context, id string) (*models.HouseRecord, error)
	GetByName(ctx context.Context, name, kind string) (*models.HouseRecord, error)
	List(ctx context.Context) ([]models.HouseRecord, error)
	Delete(ctx context.Context, id string) error
}

type view struct {
	house *scene.House
	panel *panel.Panel
}

// Viewer собирает дома лениво и держит их в памяти вместе с флагами видимости.
type Viewer struct {
	store         Store
	colors        scene.ColorSource
	edgeThreshold float64

	mu    sync.Mutex
	views map[string]*view
}

// NewViewer создаёт реестр домов. Отрицательный edgeThreshold означает
// угол по умолчанию, 0 оставляет все общие рёбра.
func NewViewer(store Store, colors scene.ColorSource, edgeThreshold float64) *Viewer {
	if edgeThreshold < 0 {
		edgeThreshold = geometry.DefaultEdgeThreshold
	}
	return &Viewer{
		store:         store,
		colors:        colors,
		edgeThreshold: edgeThreshold,
		views:         make(map[string]*view),
	}
}

// Resolve принимает uuid или имя документа. Если по uuid ничего нет,
// ref ищется как имя.
func (v *Viewer) Resolve(ctx context.Context, ref, kind string) (*models.HouseRecord, error) {
	if err := uuid.Validate(ref); err == nil {
		rec, err := v.store.Get(ctx, ref)
		switch {
		case err == nil && rec.Kind == kind:
			return rec, nil
		case err == nil:
			err = fmt.Errorf("house %s is %s: %w", ref, rec.Kind, models.ErrNotFound)
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
		if byName, nameErr := v.store.GetByName(ctx, ref, kind); nameErr == nil {
			return byName, nil
		}
		return nil, err
	}
	return v.store.GetByName(ctx, ref, kind)
}

func (v *Viewer) load(ctx context.Context, ref string) (*view, error) {
	rec, err := v.Resolve(ctx, ref, models.KindNamed)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if cached, ok := v.views[rec.ID]; ok {
		return cached, nil
	}

	doc, err := models.DecodeHouse(bytes.NewReader(rec.Body))
	if err != nil {
		return nil, err
	}
	house, err := scene.Build(doc, v.colors, scene.WithEdgeThreshold(v.edgeThreshold))
	if err != nil {
		return nil, err
	}

	st := house.Stats()
	log.Printf("[VIEWER] Built %s (%s): %d parts, %d sections, %d triangles", rec.Name, rec.ID, st.Parts, st.Sections, st.Triangles)

	built := &view{house: house, panel: panel.New(house)}
	v.views[rec.ID] = built
	return built, nil
}

// House возвращает собранный дом.
func (v *Viewer) House(ctx context.Context, ref string) (*scene.House, error) {
	vw, err := v.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return vw.house, nil
}

func (v *Viewer) Scene(ctx context.Context, ref string) (scene.Snapshot, error) {
	vw, err := v.load(ctx, ref)
	if err != nil {
		return scene.Snapshot{}, err
	}
	return vw.house.Snapshot(), nil
}

func (v *Viewer) Panel(ctx context.Context, ref string) (panel.View, error) {
	vw, err := v.load(ctx, ref)
	if err != nil {
		return panel.View{}, err
	}
	return vw.panel.View()
}

func (v *Viewer) SetPartVisible(ctx context.Context, ref, part string, visible bool) error {
	vw, err := v.load(ctx, ref)
	if err != nil {
		return err
	}
	c, err := vw.panel.Find(part, "Show "+part)
	if err != nil {
		return vw.house.SetPartVisible(part, visible)
	}
	return vw.panel.Set(c, visible)
}

func (v *Viewer) SetSectionVisible(ctx context.Context, ref, part, section string, visible bool) error {
	vw, err := v.load(ctx, ref)
	if err != nil {
		return err
	}
	c, err := vw.panel.Find(part, section)
	if err != nil || c.Master() {
		return vw.house.SetSectionVisible(part, section, visible)
	}
	return vw.panel.Set(c, visible)
}

// ============================================================
// Documents
// ============================================================

// Upload проверяет документ и сохраняет его. Невалидный документ
// не попадает в хранилище.
func (v *Viewer) Upload(ctx context.Context, name string, body []byte) (*models.HouseRecord, error) {
	doc, err := models.DecodeHouse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: house name is empty", models.ErrUnnamed)
	}
	return v.store.Save(ctx, name, models.KindNamed, body)
}

func (v *Viewer) Document(ctx context.Context, ref, kind string) ([]byte, error) {
	rec, err := v.Resolve(ctx, ref, kind)
	if err != nil {
		return nil, err
	}
	return rec.Body, nil
}

func (v *Viewer) List(ctx context.Context) ([]models.HouseRecord, error) {
	return v.store.List(ctx)
}

func (v *Viewer) Delete(ctx context.Context, ref string) error {
	rec, err := v.Resolve(ctx, ref, models.KindNamed)
	if err != nil {
		return err
	}
	if err := v.store.Delete(ctx, rec.ID); err != nil {
		return err
	}

	v.mu.Lock()
	delete(v.views, rec.ID)
	v.mu.Unlock()
	return nil
}

// ============================================================
// Flat documents
// ============================================================

type FlatMesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Outline   []float32 `json:"outline"`
	Vertices  int       `json:"vertices"`
	Triangles int       `json:"triangles"`
}

// BuildFlat собирает неиндексированный меш с контуром.
func (v *Viewer) BuildFlat(body []byte) (*FlatMesh, error) {
	doc, err := models.DecodeFlat(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	g, err := geometry.BuildFlat(doc)
	if err != nil {
		return nil, err
	}

	outline := geometry.Edges(g.Positions, nil, v.edgeThreshold)
	if outline == nil {
		outline = []float32{}
	}
	return &FlatMesh{
		Positions: g.Positions,
		Normals:   g.Normals,
		Outline:   outline,
		Vertices:  g.VertexCount(),
		Triangles: g.TriangleCount(),
	}, nil
}
