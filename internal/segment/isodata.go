package segment

import (
	"math"
	"math/rand"

	"gocv.io/x/gocv"
)

// isodataSeed makes the pixel sample deterministic so the same frame
// always yields the same split value.
const isodataSeed = 42

// ISODATAThreshold picks a foreground/background split value for a
// grayscale image by 2-means clustering over a 1/16 pixel sample.
// The returned value is the midpoint of the two converged cluster means.
func ISODATAThreshold(gray gocv.Mat) int {
	rows, cols := gray.Rows(), gray.Cols()
	if rows == 0 || cols == 0 {
		return 127
	}

	rng := rand.New(rand.NewSource(isodataSeed))
	n := rows * cols / 16
	if n < 1 {
		n = 1
	}

	samples := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Intn(rows)
		c := rng.Intn(cols)
		samples = append(samples, float64(gray.GetUCharAt(r, c)))
	}

	// Two-cluster k-means: iterate until both means stabilize
	m1, m2 := 80.0, 180.0 // initial guesses: dark / light
	for iter := 0; iter < 50; iter++ {
		var sum1, sum2 float64
		var cnt1, cnt2 int
		for _, v := range samples {
			if math.Abs(v-m1) < math.Abs(v-m2) {
				sum1 += v
				cnt1++
			} else {
				sum2 += v
				cnt2++
			}
		}
		nm1, nm2 := m1, m2
		if cnt1 > 0 {
			nm1 = sum1 / float64(cnt1)
		}
		if cnt2 > 0 {
			nm2 = sum2 / float64(cnt2)
		}
		if math.Abs(nm1-m1) < 0.5 && math.Abs(nm2-m2) < 0.5 {
			break
		}
		m1, m2 = nm1, nm2
	}

	return int((m1 + m2) / 2)
}
