package extraction

// ComputeValueScore derives the ranking score (reviews × rating) / rate.
//
// The score is defined only when both rating and reviewCount are present. When
// they are and rate is zero or negative, the score is 0; the division guard
// takes precedence over absence. Otherwise a nil result means "unknown", which
// sorts after every defined score, including 0.
func ComputeValueScore(rate float64, rating *float64, reviewCount *int) *float64 {
	if rating == nil || reviewCount == nil {
		return nil
	}
	if rate <= 0 {
		zero := 0.0
		return &zero
	}
	score := round2(float64(*reviewCount) * *rating / rate)
	return &score
}
