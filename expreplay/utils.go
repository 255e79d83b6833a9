package expreplay

import "gonum.org/v1/gonum/mat"

// copyVec copies v into dst, which must have length v.Len()
func copyVec(dst []float64, v mat.Vector) {
	for i := range dst {
		dst[i] = v.AtVec(i)
	}
}
