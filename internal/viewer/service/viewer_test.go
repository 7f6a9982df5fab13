package service

import (
	"context"
	"sync"
	"testing"

	"house-viewer/internal/viewer/geometry"
	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/palette"
	"house-viewer/internal/viewer/scene"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	recs map[string]*models.HouseRecord
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]*models.HouseRecord)}
}

func (s *memStore) Save(_ context.Context, name, kind string, body []byte) (*models.HouseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.Name == name && r.Kind == kind {
			return nil, models.ErrExists
		}
	}
	rec := &models.HouseRecord{ID: uuid.NewString(), Name: name, Kind: kind, Body: body}
	s.recs[rec.ID] = rec
	return rec, nil
}

func (s *memStore) Get(_ context.Context, id string) (*models.HouseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return rec, nil
}

func (s *memStore) GetByName(_ context.Context, name, kind string) (*models.HouseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.Name == name && r.Kind == kind {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) List(context.Context) ([]models.HouseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.HouseRecord
	for _, r := range s.recs {
		out = append(out, *r)
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.recs, id)
	return nil
}

const doc = `{
	"vertices": {"A":[0,0,0],"B":[1,0,0],"C":[0,1,0],"D":[1,1,0]},
	"parts": {
		"walls": [{"name":"front","faces":[["A","B","C"]]},{"name":"back","faces":[["B","D","C"]]}],
		"roof":  [{"name":"top","faces":[["A","B","D"]]}]
	}
}`

func newViewer(t *testing.T) (*Viewer, *models.HouseRecord) {
	t.Helper()
	v := NewViewer(newMemStore(), palette.NewPicker(5, nil), -1)
	rec, err := v.Upload(context.Background(), "cottage", []byte(doc))
	require.NoError(t, err)
	return v, rec
}

func TestUploadRejectsInvalid(t *testing.T) {
	v := NewViewer(newMemStore(), palette.NewPicker(5, nil), -1)
	ctx := context.Background()

	_, err := v.Upload(ctx, "bad", []byte(`{"vertices":{},"parts":{"wall":[{"name":"w","faces":[["A","B","C"]]}]}}`))
	assert.ErrorIs(t, err, models.ErrMissingVertex)

	_, err = v.Upload(ctx, "bad", []byte(`nope`))
	assert.ErrorIs(t, err, models.ErrDecode)

	_, err = v.Upload(ctx, "", []byte(doc))
	assert.ErrorIs(t, err, models.ErrUnnamed)

	list, err := v.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSceneByIDAndName(t *testing.T) {
	v, rec := newViewer(t)
	ctx := context.Background()

	byID, err := v.Scene(ctx, rec.ID)
	require.NoError(t, err)
	byName, err := v.Scene(ctx, "cottage")
	require.NoError(t, err)

	assert.Equal(t, byID.Stats, byName.Stats)
	assert.Equal(t, 3, byID.Stats.Sections)

	h1, _ := v.House(ctx, rec.ID)
	h2, _ := v.House(ctx, "cottage")
	assert.Same(t, h1, h2)
}

func TestVisibilityThroughViewer(t *testing.T) {
	v, rec := newViewer(t)
	ctx := context.Background()

	require.NoError(t, v.SetSectionVisible(ctx, rec.ID, "walls", "back", false))
	require.NoError(t, v.SetPartVisible(ctx, rec.ID, "roof", false))

	p, err := v.Panel(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, p.Folders, 2)
	assert.True(t, p.Folders[0].Controllers[0].Value)
	assert.True(t, p.Folders[0].Controllers[1].Value)
	assert.False(t, p.Folders[0].Controllers[2].Value)
	assert.False(t, p.Folders[1].Controllers[0].Value)
	assert.True(t, p.Folders[1].Controllers[1].Value)

	assert.ErrorIs(t, v.SetPartVisible(ctx, rec.ID, "garage", true), scene.ErrPartNotFound)
	assert.ErrorIs(t, v.SetSectionVisible(ctx, rec.ID, "walls", "side", true), scene.ErrSectionNotFound)
}

func TestDeleteEvictsCache(t *testing.T) {
	v, rec := newViewer(t)
	ctx := context.Background()

	_, err := v.Scene(ctx, rec.ID)
	require.NoError(t, err)
	require.NoError(t, v.Delete(ctx, rec.ID))

	_, err = v.Scene(ctx, rec.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveChecksKind(t *testing.T) {
	v, rec := newViewer(t)
	_, err := v.Document(context.Background(), rec.ID, models.KindFlat)
	assert.ErrorIs(t, err, models.ErrNotFound)

	body, err := v.Document(context.Background(), "cottage", models.KindNamed)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(body))
}

func TestBuildFlat(t *testing.T) {
	v := NewViewer(newMemStore(), palette.NewPicker(5, nil), -1)

	mesh, err := v.BuildFlat([]byte(`{"vertices":[[0,0,0],[1,0,0],[1,1,0],[0,1,0]],"faces":[[0,1,2],[0,2,3]]}`))
	require.NoError(t, err)
	assert.Equal(t, 6, mesh.Vertices)
	assert.Equal(t, 2, mesh.Triangles)
	assert.Len(t, mesh.Outline, 4*6)

	_, err = v.BuildFlat([]byte(`{"vertices":[[0,0,0]],"faces":[[0,0,5]]}`))
	assert.ErrorIs(t, err, models.ErrIndexOutOfRange)
}

func TestZeroEdgeThresholdKeepsSharedEdges(t *testing.T) {
	square := []byte(`{"vertices":[[0,0,0],[1,0,0],[1,1,0],[0,1,0]],"faces":[[0,1,2],[0,2,3]]}`)

	def := NewViewer(newMemStore(), palette.NewPicker(5, nil), geometry.DefaultEdgeThreshold)
	mesh, err := def.BuildFlat(square)
	require.NoError(t, err)
	assert.Len(t, mesh.Outline, 4*6)

	all := NewViewer(newMemStore(), palette.NewPicker(5, nil), 0)
	mesh, err = all.BuildFlat(square)
	require.NoError(t, err)
	assert.Len(t, mesh.Outline, 5*6)
}

func TestResolveUUIDShapedName(t *testing.T) {
	v := NewViewer(newMemStore(), palette.NewPicker(5, nil), -1)
	ctx := context.Background()

	name := uuid.NewString()
	rec, err := v.Upload(ctx, name, []byte(doc))
	require.NoError(t, err)
	require.NotEqual(t, name, rec.ID)

	got, err := v.Resolve(ctx, name, models.KindNamed)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = v.Resolve(ctx, uuid.NewString(), models.KindNamed)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
