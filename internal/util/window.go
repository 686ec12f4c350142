package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowMax returns the max value in the window
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetPartialWindowAvg returns the average of a window that has seen only
// the given number of appends. Unwritten buckets hold 0 and are skipped.
func GetPartialWindowAvg(window *rolling.PointPolicy, appended int) float64 {
	return window.Reduce(func(w rolling.Window) float64 {
		filled := appended
		if filled > len(w) {
			filled = len(w)
		}
		if filled <= 0 {
			return 0
		}
		sum := 0.0
		count := 0
		for _, bucket := range w[:filled] {
			for _, value := range bucket {
				sum += value
				count++
			}
		}
		return sum / float64(count)
	})
}
