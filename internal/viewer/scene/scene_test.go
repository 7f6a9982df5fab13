package scene

import (
	"encoding/json"
	"strings"
	"testing"

	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedColors struct {
	colors []palette.Color
	n      int
}

func (f *fixedColors) Next() palette.Color {
	c := f.colors[f.n%len(f.colors)]
	f.n++
	return c
}

const houseDoc = `{
	"vertices": {
		"A": [0,0,0], "B": [4,0,0], "C": [4,3,0], "D": [0,3,0],
		"E": [0,0,4], "F": [4,0,4], "G": [2,5,2]
	},
	"parts": {
		"walls": [
			{"name": "front", "faces": [["A","B","C"],["A","C","D"]]},
			{"name": "side",  "faces": [["B","F","C"]]}
		],
		"roof": [
			{"name": "slope", "faces": [["C","D","G"]]}
		],
		"floor": []
	}
}`

func buildHouse(t *testing.T, body string, colors ...palette.Color) *House {
	t.Helper()
	doc, err := models.DecodeHouse(strings.NewReader(body))
	require.NoError(t, err)
	if len(colors) == 0 {
		colors = []palette.Color{palette.Red, palette.Green, palette.Purple}
	}
	h, err := Build(doc, &fixedColors{colors: colors})
	require.NoError(t, err)
	return h
}

func TestBuildScenario(t *testing.T) {
	h := buildHouse(t, `{"vertices":{"A":[0,0,0],"B":[1,0,0],"C":[0,1,0]},"parts":{"wall":[{"name":"w1","faces":[["A","B","C"]]}]}}`)

	parts := h.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, "wall", parts[0].Name)
	require.Len(t, parts[0].Sections, 1)

	s := parts[0].Sections[0]
	assert.Equal(t, "w1", s.Name)
	assert.Len(t, s.Mesh.Geometry.Positions, 9)
	assert.Equal(t, []uint32{0, 1, 2}, s.Mesh.Geometry.Indices)
	assert.Len(t, s.Outline.Positions, 18)
}

func TestBuildSectionCountMatchesDocument(t *testing.T) {
	doc, err := models.DecodeHouse(strings.NewReader(houseDoc))
	require.NoError(t, err)
	h, err := Build(doc, palette.NewPicker(3, nil))
	require.NoError(t, err)

	st := h.Stats()
	assert.Equal(t, doc.SubMeshCount(), st.Sections)
	assert.Equal(t, 3, st.Parts)
	assert.Equal(t, 4, st.Triangles)

	var names []string
	for _, p := range h.Parts() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"walls", "roof", "floor"}, names)
}

func TestColorSharedWithinPart(t *testing.T) {
	h := buildHouse(t, houseDoc, palette.Red, palette.Green, palette.Purple)

	parts := h.Parts()
	assert.Equal(t, palette.Red, parts[0].Color)
	assert.Equal(t, palette.Green, parts[1].Color)
	for _, p := range parts {
		for _, s := range p.Sections {
			assert.Equal(t, p.Color, s.Mesh.Material.Color)
			assert.Equal(t, 0.6, s.Mesh.Material.Opacity)
			assert.True(t, s.Mesh.Material.DoubleSided)
			assert.Equal(t, palette.White, s.Outline.Material.Color)
		}
	}
}

func TestBuildRejectsMissingVertex(t *testing.T) {
	doc, err := models.DecodeHouse(strings.NewReader(`{"vertices":{"A":[0,0,0]},"parts":{"wall":[{"name":"w1","faces":[["A","B","C"]]}]}}`))
	require.NoError(t, err)

	_, err = Build(doc, &fixedColors{colors: palette.Default})
	assert.ErrorIs(t, err, models.ErrMissingVertex)
}

func TestToggleSectionDoesNotTouchSiblings(t *testing.T) {
	h := buildHouse(t, houseDoc)

	require.NoError(t, h.SetSectionVisible("walls", "front", false))

	front, err := h.SectionVisible("walls", "front")
	require.NoError(t, err)
	assert.False(t, front)

	side, err := h.SectionVisible("walls", "side")
	require.NoError(t, err)
	assert.True(t, side)

	walls, err := h.PartVisible("walls")
	require.NoError(t, err)
	assert.True(t, walls)
}

func TestPartToggleDoesNotCascade(t *testing.T) {
	h := buildHouse(t, houseDoc)

	require.NoError(t, h.SetSectionVisible("walls", "side", false))
	require.NoError(t, h.SetPartVisible("walls", false))

	front, _ := h.SectionVisible("walls", "front")
	assert.True(t, front)
	drawn, _ := h.Drawn("walls", "front")
	assert.False(t, drawn)

	require.NoError(t, h.SetPartVisible("walls", true))
	side, _ := h.SectionVisible("walls", "side")
	assert.False(t, side)
	drawn, _ = h.Drawn("walls", "front")
	assert.True(t, drawn)
}

func TestUnknownNames(t *testing.T) {
	h := buildHouse(t, houseDoc)

	assert.ErrorIs(t, h.SetPartVisible("garage", false), ErrPartNotFound)
	assert.ErrorIs(t, h.SetSectionVisible("walls", "back", false), ErrSectionNotFound)
	_, err := h.Drawn("garage", "x")
	assert.ErrorIs(t, err, ErrPartNotFound)
}

func TestSnapshotReflectsFlags(t *testing.T) {
	h := buildHouse(t, houseDoc)
	require.NoError(t, h.SetPartVisible("roof", false))

	snap := h.Snapshot()
	require.Len(t, snap.Parts, 3)

	roof := snap.Parts[1]
	assert.False(t, roof.Visible)
	assert.True(t, roof.Sections[0].Visible)
	assert.False(t, roof.Sections[0].Drawn)

	floor := snap.Parts[2]
	assert.Empty(t, floor.Sections)
	assert.NotNil(t, floor.Sections)
}

func TestSnapshotEmptySectionHasArrays(t *testing.T) {
	h := buildHouse(t, `{"vertices":{},"parts":{"porch":[{"name":"steps","faces":[]}]}}`)

	out, err := json.Marshal(h.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
	assert.Contains(t, string(out), `"labels":[]`)
}
