package features

import (
	"math"
)

// HuInvariants derives the seven Hu moment invariants from normalized
// central moments. The combinations are invariant to translation,
// uniform scale, and rotation.
func HuInvariants(m Moments) [7]float64 {
	n20, n11, n02 := m.Nu20, m.Nu11, m.Nu02
	n30, n21, n12, n03 := m.Nu30, m.Nu21, m.Nu12, m.Nu03

	s1 := n30 + n12 // recurring sums
	s2 := n21 + n03
	d1 := n30 - 3*n12
	d2 := 3*n21 - n03

	var h [7]float64
	h[0] = n20 + n02
	h[1] = (n20-n02)*(n20-n02) + 4*n11*n11
	h[2] = d1*d1 + d2*d2
	h[3] = s1*s1 + s2*s2
	h[4] = d1*s1*(s1*s1-3*s2*s2) + d2*s2*(3*s1*s1-s2*s2)
	h[5] = (n20-n02)*(s1*s1-s2*s2) + 4*n11*s1*s2
	h[6] = d2*s1*(s1*s1-3*s2*s2) - d1*s2*(3*s1*s1-s2*s2)
	return h
}

// LogScale compresses a Hu moment into a usable numeric range via
// log10(|h|). The absolute value is taken first: the sign of the
// higher-order invariants flips under reflection and is not stable
// across orientations. An exact zero maps to 0 rather than -Inf.
func LogScale(h float64) float64 {
	if h == 0 {
		return 0
	}
	return math.Log10(math.Abs(h))
}
