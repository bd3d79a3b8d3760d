package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/models"
)

func scorePtr(v float64) *float64 {
	return &v
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	require.Equal(t, 8.46, Round2(8.455))
	require.Equal(t, 8.45, Round2(8.454))
	require.Equal(t, -8.46, Round2(-8.455))
	require.Equal(t, 7.0, Round2(7))
	require.Equal(t, 0.0, Round2(math.NaN()))
}

func TestComputeAverageSkipsAbsentAndInvalidScores(t *testing.T) {
	subjects := catalog.Default()

	scores := models.ScoreMap{
		"math":       scorePtr(8),
		"physics":    scorePtr(6.5),
		"literature": nil,
		"chemistry":  scorePtr(-3),
	}

	// mean of 8 and 6.5 only
	require.Equal(t, 7.25, ComputeAverage(subjects, scores))
}

func TestComputeAverageIgnoresNonCountingSubjects(t *testing.T) {
	subjects := catalog.Default()

	scores := models.ScoreMap{
		"math":               scorePtr(9),
		"physical_education": scorePtr(2),
	}
	require.Equal(t, 9.0, ComputeAverage(subjects, scores))

	// only a non-counting subject present: no valid data yet
	onlyPE := models.ScoreMap{"physical_education": scorePtr(10)}
	require.Equal(t, 0.0, ComputeAverage(subjects, onlyPE))
}

func TestComputeAverageEmptyMapIsZero(t *testing.T) {
	subjects := catalog.Default()
	require.Equal(t, 0.0, ComputeAverage(subjects, models.ScoreMap{}))
	require.Equal(t, 0.0, ComputeAverage(subjects, nil))
}

func TestComputeAverageRoundsResult(t *testing.T) {
	subjects := catalog.Default()

	scores := models.ScoreMap{
		"math":    scorePtr(8.4),
		"physics": scorePtr(8.51),
	}
	require.Equal(t, 8.46, ComputeAverage(subjects, scores))
}

func TestClassifyBands(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}

	cases := []struct {
		average float64
		want    string
	}{
		{10, ClassificationExcellent},
		{9.5, ClassificationExcellent},
		{9.49, ClassificationGood},
		{8.5, ClassificationGood},
		{8.49, ClassificationFairlyGood},
		{7.0, ClassificationFairlyGood},
		{6.99, ClassificationAverage},
		{5.5, ClassificationAverage},
		{5.49, ClassificationWeak},
		{4.0, ClassificationWeak},
		{3.99, ClassificationPoor},
		{0, ClassificationPoor},
		{-1, ClassificationPoor},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, classifier.Classify(tc.average), "average %v", tc.average)
	}
}

func TestClassifyWithoutExcellentBand(t *testing.T) {
	classifier := Classifier{ExcellentBand: false}
	require.Equal(t, ClassificationGood, classifier.Classify(9.8))
	require.Equal(t, ClassificationGood, classifier.Classify(9.5))
}

func TestClassifyNaNIsPoor(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}
	require.Equal(t, ClassificationPoor, classifier.Classify(math.NaN()))
}
