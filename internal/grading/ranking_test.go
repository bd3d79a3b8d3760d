package grading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func gradeRecord(id uint, studentID, name string, term int, average float64) models.GradeRecord {
	return models.GradeRecord{
		ID:          id,
		StudentID:   studentID,
		StudentName: name,
		ClassName:   "10A",
		Term:        term,
		Average:     average,
	}
}

func TestRankByTermSortsDescendingWithConsecutiveRanks(t *testing.T) {
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 7.5),
		gradeRecord(2, "S2", "Ben", 1, 9.25),
		gradeRecord(3, "S3", "Cara", 2, 10),
		gradeRecord(4, "S4", "Dan", 1, 5.0),
	}

	entries := RankByTerm(records, 1)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"S2", "S1", "S4"}, studentIDs(entries))
	for i, entry := range entries {
		require.Equal(t, i+1, entry.Rank)
	}
}

func TestRankByTermTiesKeepLoadOrder(t *testing.T) {
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 8.0),
		gradeRecord(2, "S2", "Ben", 1, 8.0),
		gradeRecord(3, "S3", "Cara", 1, 8.0),
	}

	entries := RankByTerm(records, 1)
	require.Equal(t, []string{"S1", "S2", "S3"}, studentIDs(entries))
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, 3, entries[2].Rank)
}

func TestRankByTermEmptyTermYieldsEmptyLeaderboard(t *testing.T) {
	records := []models.GradeRecord{gradeRecord(1, "S1", "Anna", 1, 8.0)}
	require.Empty(t, RankByTerm(records, 2))
}

func TestRankCombinedStrictRequiresBothTerms(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 8.0),
		gradeRecord(2, "S1", "Anna", 2, 9.0),
		gradeRecord(3, "S2", "Ben", 1, 9.5),
	}

	entries := RankCombined(records, PolicyStrict, classifier)
	require.Len(t, entries, 1)
	require.Equal(t, "S1", entries[0].StudentID)
	require.Equal(t, 8.5, entries[0].Average)
	require.Equal(t, ClassificationGood, entries[0].Classification)
	require.NotNil(t, entries[0].Term1Average)
	require.NotNil(t, entries[0].Term2Average)
	require.Equal(t, 8.0, *entries[0].Term1Average)
	require.Equal(t, 9.0, *entries[0].Term2Average)
}

func TestRankCombinedStrictExcludesUnresolvedDuplicates(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 8.0),
		gradeRecord(2, "S1", "Anna", 1, 6.0),
		gradeRecord(3, "S1", "Anna", 2, 9.0),
	}

	require.Empty(t, RankCombined(records, PolicyStrict, classifier))
}

func TestRankCombinedLenientAdmitsSingleTermStudents(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 8.0),
		gradeRecord(2, "S1", "Anna", 2, 9.0),
		gradeRecord(3, "S2", "Ben", 2, 9.5),
	}

	entries := RankCombined(records, PolicyLenient, classifier)
	require.Equal(t, []string{"S2", "S1"}, studentIDs(entries))

	ben := entries[0]
	require.Equal(t, 9.5, ben.Average)
	require.Nil(t, ben.Term1Average)
	require.NotNil(t, ben.Term2Average)
}

func TestRankCombinedUsesTerm2Identity(t *testing.T) {
	classifier := Classifier{ExcellentBand: true}
	records := []models.GradeRecord{
		gradeRecord(1, "S1", "Anna", 1, 8.0),
		{ID: 2, StudentID: "S1", StudentName: "Anna", ClassName: "10B", Term: 2, Average: 9.0},
	}

	entries := RankCombined(records, PolicyStrict, classifier)
	require.Len(t, entries, 1)
	require.Equal(t, "10B", entries[0].ClassName)
}

func studentIDs(entries []RankingEntry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.StudentID
	}
	return ids
}
