package stage

// Clamp bounds a per-stage completion percentage to [0, 100].
func Clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// OverallProgress computes the weighted overall completion percentage from
// per-stage percentages. Every registered stage contributes; stages missing
// from the input count as 0. Inputs are clamped to [0, 100].
//
// The result is Σ progress(s)·weight(s)/100 rounded half-up (round to
// nearest, ties away from zero). With integer inputs the sum is always
// non-negative, so half-up reduces to adding 50 before the final division.
// The function is pure: same input, same output, no side effects.
func OverallProgress(progress map[Stage]int) int {
	total := 0 // in hundredths of a percent
	for _, s := range order {
		total += Clamp(progress[s]) * weights[s]
	}
	return (total + 50) / 100
}
