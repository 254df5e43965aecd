package signal

import "math"

// rollingMean returns the trailing window mean at each index, NaN before the
// window fills.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rollingStd returns the trailing window sample standard deviation at each
// index, NaN before the window fills.
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 2 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sum, sumSq := 0.0, 0.0
	for i, v := range values {
		sum += v
		sumSq += v * v
		if i >= window {
			old := values[i-window]
			sum -= old
			sumSq -= old * old
		}
		if i >= window-1 {
			n := float64(window)
			variance := (sumSq - sum*sum/n) / (n - 1)
			if variance < 0 {
				variance = 0
			}
			out[i] = math.Sqrt(variance)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
