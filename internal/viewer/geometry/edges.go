package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ============================================================
// Outline edges
// ============================================================

// DefaultEdgeThreshold - угол в градусах, как у THREE.EdgesGeometry.
const DefaultEdgeThreshold = 1.0

const edgePrecision = 1e4

type edgeEntry struct {
	v0, v1 mgl32.Vec3
	normal mgl32.Vec3
	open   bool
}

// Edges строит контур треугольников: пары точек для line segments.
// Вершины сливаются по позиции с точностью 4 знака. Ребро одного треугольника
// выводится всегда, общее ребро двух треугольников - если угол между их
// нормалями больше thresholdDeg. Вырожденные треугольники пропускаются.
// При indices == nil каждая тройка вершин - отдельный треугольник.
func Edges(positions []float32, indices []uint32, thresholdDeg float64) []float32 {
	thresholdDot := float32(math.Cos(thresholdDeg * math.Pi / 180))

	triangles := len(indices) / 3
	if indices == nil {
		triangles = len(positions) / 9
	}

	index := func(i int) uint32 {
		if indices == nil {
			return uint32(i)
		}
		return indices[i]
	}

	edges := make(map[string]*edgeEntry)
	var order []string
	var out []float32

	for t := 0; t < triangles; t++ {
		var verts [3]mgl32.Vec3
		var hashes [3]string
		for j := 0; j < 3; j++ {
			verts[j] = vertexAt(positions, index(t*3+j))
			hashes[j] = positionHash(verts[j])
		}
		if hashes[0] == hashes[1] || hashes[1] == hashes[2] || hashes[2] == hashes[0] {
			continue
		}

		normal := verts[2].Sub(verts[1]).Cross(verts[0].Sub(verts[1]))
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}

		for j := 0; j < 3; j++ {
			next := (j + 1) % 3
			hash := hashes[j] + "_" + hashes[next]
			reverse := hashes[next] + "_" + hashes[j]

			if entry, ok := edges[reverse]; ok && entry.open {
				if normal.Dot(entry.normal) <= thresholdDot {
					out = appendSegment(out, verts[j], verts[next])
				}
				entry.open = false
				continue
			}
			if _, ok := edges[hash]; !ok {
				edges[hash] = &edgeEntry{v0: verts[j], v1: verts[next], normal: normal, open: true}
				order = append(order, hash)
			}
		}
	}

	for _, key := range order {
		if entry := edges[key]; entry.open {
			out = appendSegment(out, entry.v0, entry.v1)
		}
	}

	return out
}

func positionHash(v mgl32.Vec3) string {
	return fmt.Sprintf("%d,%d,%d", roundHalfUp(v[0]), roundHalfUp(v[1]), roundHalfUp(v[2]))
}

// roundHalfUp округляет как Math.round в JS.
func roundHalfUp(f float32) int64 {
	return int64(math.Floor(float64(f)*edgePrecision + 0.5))
}

func appendSegment(out []float32, a, b mgl32.Vec3) []float32 {
	return append(out, a[0], a[1], a[2], b[0], b[1], b[2])
}
