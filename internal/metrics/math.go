package metrics

// safeDiv devuelve 0 cuando el denominador no es positivo.
func safeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// pctChange is (cur-prev)/prev*100, zero when prev is not positive.
func pctChange(cur, prev float64) float64 {
	return safeDiv(cur-prev, prev) * 100
}

func sum[T any](xs []T, f func(T) float64) float64 {
	var s float64
	for _, x := range xs {
		s += f(x)
	}
	return s
}
