// Package score maps elapsed time against a time limit to a numeric score
// on a linear decay curve.
package score

// MaxScore is the score awarded at zero elapsed time.
const MaxScore = 100.0

// Compute returns a score in [0,100] that decreases linearly with elapsed
// time. A non-positive time limit or an elapsed time at or beyond the limit
// scores zero. The function is monotonically non-increasing in elapsed for
// any fixed positive limit.
func Compute(elapsed, timeLimit float64) float64 {
	if timeLimit <= 0 || elapsed >= timeLimit {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	s := MaxScore * (1.0 - elapsed/timeLimit)
	if s < 0 {
		return 0
	}
	return s
}
