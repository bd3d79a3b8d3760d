package grading

import (
	"math"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/models"
)

// Classification labels ordered from best to worst.
const (
	ClassificationExcellent  = "Excellent"
	ClassificationGood       = "Good"
	ClassificationFairlyGood = "Fairly good"
	ClassificationAverage    = "Average"
	ClassificationWeak       = "Weak"
	ClassificationPoor       = "Poor"
)

// MaxScore bounds a valid exam score. Scores live in [0, MaxScore].
const MaxScore = 10.0

// Round2 rounds to two decimal places, half away from zero. The whole
// codebase uses this one rounding policy; tests pin it.
func Round2(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return math.Round(value*100) / 100
}

// ComputeAverage returns the mean of the scores whose subject counts toward
// the average and whose value is present, numeric and non-negative, rounded
// to two decimals. An empty eligible set yields 0: no valid data yet, not
// an error.
func ComputeAverage(c *catalog.Catalog, scores models.ScoreMap) float64 {
	var sum float64
	var count int
	for code, score := range scores {
		if score == nil || math.IsNaN(*score) || *score < 0 {
			continue
		}
		if !c.CountsTowardAverage(code) {
			continue
		}
		sum += *score
		count++
	}
	if count == 0 {
		return 0
	}
	return Round2(sum / float64(count))
}

// Classifier maps averages to classification labels. The Excellent band
// was added in the latest deployment; older installs can switch it off so
// 9.5+ falls through to Good.
type Classifier struct {
	ExcellentBand bool
}

// Classify is total over all reals. NaN is treated as 0, so bad numeric
// input classifies as Poor instead of failing.
func (cl Classifier) Classify(average float64) string {
	if math.IsNaN(average) {
		average = 0
	}
	switch {
	case cl.ExcellentBand && average >= 9.5:
		return ClassificationExcellent
	case average >= 8.5:
		return ClassificationGood
	case average >= 7.0:
		return ClassificationFairlyGood
	case average >= 5.5:
		return ClassificationAverage
	case average >= 4.0:
		return ClassificationWeak
	default:
		return ClassificationPoor
	}
}
