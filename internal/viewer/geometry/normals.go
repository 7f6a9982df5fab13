package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ============================================================
// Normals
// ============================================================

// ComputeNormals считает нормали вершин как three.js computeVertexNormals.
// Для индексированного буфера нормали граней (ненормированные, т.е. с весом
// по площади) суммируются в общих вершинах. При indices == nil каждая тройка
// вершин - отдельный треугольник.
func ComputeNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))

	accumulate := func(a, b, c uint32) {
		pA, pB, pC := vertexAt(positions, a), vertexAt(positions, b), vertexAt(positions, c)
		n := pC.Sub(pB).Cross(pA.Sub(pB))
		for _, idx := range [3]uint32{a, b, c} {
			normals[idx*3] += n[0]
			normals[idx*3+1] += n[1]
			normals[idx*3+2] += n[2]
		}
	}

	if indices != nil {
		for i := 0; i+2 < len(indices); i += 3 {
			accumulate(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := uint32(0); int(i+2) < len(positions)/3; i += 3 {
			accumulate(i, i+1, i+2)
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}

	return normals
}

func vertexAt(positions []float32, idx uint32) mgl32.Vec3 {
	return mgl32.Vec3{positions[idx*3], positions[idx*3+1], positions[idx*3+2]}
}
