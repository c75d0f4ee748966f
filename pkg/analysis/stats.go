package analysis

import "math"

// Rate divides with 0/0 defined as 0.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Mean is the arithmetic mean, 0 for no values.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the sample variance (n-1 denominator).
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return ss / float64(len(xs)-1)
}

// StdDev is the sample standard deviation, 0 for fewer than two values.
func StdDev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// Pearson is the correlation coefficient of x and y. It is 0 when the
// series differ in length, have fewer than two points, or either is
// constant.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	n := float64(len(x))
	var sx, sy, sxy, sx2, sy2 float64
	for i := range x {
		sx += x[i]
		sy += y[i]
		sxy += x[i] * y[i]
		sx2 += x[i] * x[i]
		sy2 += y[i] * y[i]
	}
	den := math.Sqrt((n*sx2 - sx*sx) * (n*sy2 - sy*sy))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

// CohensD is the effect size of a against b using the pooled standard
// deviation. It is 0 when either group has fewer than two values or the
// pooled deviation is 0.
func CohensD(a, b []float64) float64 {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return 0
	}
	pooled := math.Sqrt((variance(a)*float64(n1-1) + variance(b)*float64(n2-1)) / float64(n1+n2-2))
	if pooled == 0 {
		return 0
	}
	return (Mean(a) - Mean(b)) / pooled
}
