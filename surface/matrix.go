package surface

import "math"

// Matrix is a 2D affine transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate returns m followed by a translation in user space.
func (m Matrix) Translate(x, y float64) Matrix {
	m.E += m.A*x + m.C*y
	m.F += m.B*x + m.D*y
	return m
}

// Scale returns m followed by a scale in user space.
func (m Matrix) Scale(sx, sy float64) Matrix {
	m.A *= sx
	m.B *= sx
	m.C *= sy
	m.D *= sy
	return m
}

// Apply maps a user-space point to device space.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ScaleX returns the horizontal scale factor of m.
func (m Matrix) ScaleX() float64 {
	return math.Hypot(m.A, m.B)
}

// isTranslation reports whether m only translates.
func (m Matrix) isTranslation() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
