package feedback

import "peerpulse-backend/internal/models"

type CategoryStats struct {
	Category        models.FeedbackType `json:"feedbackType"`
	Count           int                 `json:"count"`
	WeightedAverage float64             `json:"weightedAverage"`
}

type OverallStats struct {
	Count           int     `json:"count"`
	WeightedAverage float64 `json:"weightedAverage"`
}

type Stats struct {
	ByCategory []CategoryStats `json:"feedbackTypeStats"`
	Overall    OverallStats    `json:"overallStats"`
}

// AggregateScores folds a set of feedback records into per-category and
// overall weighted averages. Each record contributes rawScore*weight to the
// numerator and weight to the denominator; the fold is a plain sum, so the
// result does not depend on record order. A zero denominator (no records,
// or all weights 0) reports an average of 0 rather than NaN, and every
// category appears in the output even when empty.
func AggregateScores(records []models.Feedback) Stats {
	type acc struct {
		count    int
		weighted float64
		weight   float64
	}
	byCat := make(map[models.FeedbackType]*acc, len(models.FeedbackTypes))
	for _, t := range models.FeedbackTypes {
		byCat[t] = &acc{}
	}
	var total acc

	for _, rec := range records {
		contribution := rec.WeightedScore()
		if a, ok := byCat[rec.FeedbackType]; ok {
			a.count++
			a.weighted += contribution
			a.weight += rec.Weight
		}
		total.count++
		total.weighted += contribution
		total.weight += rec.Weight
	}

	stats := Stats{ByCategory: make([]CategoryStats, 0, len(models.FeedbackTypes))}
	for _, t := range models.FeedbackTypes {
		a := byCat[t]
		stats.ByCategory = append(stats.ByCategory, CategoryStats{
			Category:        t,
			Count:           a.count,
			WeightedAverage: safeDivide(a.weighted, a.weight),
		})
	}
	stats.Overall = OverallStats{
		Count:           total.count,
		WeightedAverage: safeDivide(total.weighted, total.weight),
	}
	return stats
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
