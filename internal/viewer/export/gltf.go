package export

import (
	"fmt"
	"io"

	"house-viewer/internal/viewer/scene"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ============================================================
// glTF export
// ============================================================

// Document собирает glTF: узел и меш на каждую секцию, материал на каждую часть.
// При onlyDrawn секции, которые сейчас не рисуются, пропускаются.
// Пустые секции пропускаются всегда.
func Document(house *scene.House, onlyDrawn bool) *gltf.Document {
	snap := house.Snapshot()

	doc := gltf.NewDocument()
	doc.Asset.Generator = "house-viewer"

	for _, part := range snap.Parts {
		material := uint32(len(doc.Materials))
		materialUsed := false

		for _, s := range part.Sections {
			if onlyDrawn && !s.Drawn {
				continue
			}
			if len(s.Indices) == 0 {
				continue
			}

			if !materialUsed {
				doc.Materials = append(doc.Materials, partMaterial(part.Name, s.Material))
				materialUsed = true
			}

			posAccessor := modeler.WritePosition(doc, triples(s.Positions))
			normalAccessor := modeler.WriteNormal(doc, triples(s.Normals))
			indicesAccessor := modeler.WriteIndices(doc, s.Indices)

			prim := &gltf.Primitive{
				Attributes: map[string]uint32{
					gltf.POSITION: uint32(posAccessor),
					gltf.NORMAL:   uint32(normalAccessor),
				},
				Indices:  gltf.Index(uint32(indicesAccessor)),
				Material: gltf.Index(material),
			}

			name := fmt.Sprintf("%s/%s", part.Name, s.Name)
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
			doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
		}
	}

	return doc
}

// WriteGLB пишет дом в бинарном glTF.
func WriteGLB(w io.Writer, house *scene.House, onlyDrawn bool) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(Document(house, onlyDrawn)); err != nil {
		return fmt.Errorf("encode glb: %w", err)
	}
	return nil
}

func partMaterial(name string, m scene.Material) *gltf.Material {
	rgb := m.Color.RGB()
	mode := gltf.AlphaOpaque
	if m.Transparent {
		mode = gltf.AlphaBlend
	}
	return &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{rgb[0], rgb[1], rgb[2], float32(m.Opacity)},
			MetallicFactor:  gltf.Float(float32(m.Metalness)),
			RoughnessFactor: gltf.Float(float32(m.Roughness)),
		},
		AlphaMode:   mode,
		DoubleSided: m.DoubleSided,
	}
}

func triples(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out
}
