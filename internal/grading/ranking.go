package grading

import (
	"sort"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// CombinedPolicy selects which students qualify for the combined leaderboard.
type CombinedPolicy string

const (
	// PolicyStrict admits only students with exactly one record in each of
	// terms 1 and 2. Partial participants are excluded entirely.
	PolicyStrict CombinedPolicy = "strict"
	// PolicyLenient additionally admits single-term participants using
	// their sole available average.
	PolicyLenient CombinedPolicy = "lenient"
)

// RankingEntry is a transient leaderboard row, rebuilt on every request.
type RankingEntry struct {
	Rank           int      `json:"rank"`
	StudentID      string   `json:"student_id"`
	StudentName    string   `json:"student_name"`
	ClassName      string   `json:"class_name"`
	Term1Average   *float64 `json:"term1_average,omitempty"`
	Term2Average   *float64 `json:"term2_average,omitempty"`
	Average        float64  `json:"average"`
	Classification string   `json:"classification"`
}

// RankByTerm builds the per-term leaderboard: records of the requested term
// sorted descending by average. Ties keep their original relative order and
// receive consecutive ranks, never a shared rank.
func RankByTerm(records []models.GradeRecord, term int) []RankingEntry {
	entries := make([]RankingEntry, 0)
	for _, record := range records {
		if record.Term != term {
			continue
		}
		entries = append(entries, RankingEntry{
			StudentID:      record.StudentID,
			StudentName:    record.StudentName,
			ClassName:      record.ClassName,
			Average:        record.Average,
			Classification: record.Classification,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Average > entries[j].Average
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RankCombined builds the cross-term leaderboard. Records are grouped by
// student id in first-seen order; qualification follows the policy. The
// combined average is the rounded mean of the two term averages.
func RankCombined(records []models.GradeRecord, policy CombinedPolicy, classifier Classifier) []RankingEntry {
	type studentTerms struct {
		term1 []models.GradeRecord
		term2 []models.GradeRecord
	}

	order := make([]string, 0)
	byStudent := make(map[string]*studentTerms)
	for _, record := range records {
		group, ok := byStudent[record.StudentID]
		if !ok {
			group = &studentTerms{}
			byStudent[record.StudentID] = group
			order = append(order, record.StudentID)
		}
		switch record.Term {
		case 1:
			group.term1 = append(group.term1, record)
		case 2:
			group.term2 = append(group.term2, record)
		}
	}

	entries := make([]RankingEntry, 0)
	for _, studentID := range order {
		group := byStudent[studentID]
		entry, ok := combinedEntry(studentID, group.term1, group.term2, policy, classifier)
		if ok {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Average > entries[j].Average
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func combinedEntry(studentID string, term1, term2 []models.GradeRecord, policy CombinedPolicy, classifier Classifier) (RankingEntry, bool) {
	hasBoth := len(term1) == 1 && len(term2) == 1

	switch {
	case hasBoth:
		avg1 := term1[0].Average
		avg2 := term2[0].Average
		combined := Round2((avg1 + avg2) / 2)
		return RankingEntry{
			StudentID:      studentID,
			StudentName:    term2[0].StudentName,
			ClassName:      term2[0].ClassName,
			Term1Average:   &avg1,
			Term2Average:   &avg2,
			Average:        combined,
			Classification: classifier.Classify(combined),
		}, true

	case policy == PolicyLenient && len(term1)+len(term2) == 1:
		record := append(term1, term2...)[0]
		avg := record.Average
		entry := RankingEntry{
			StudentID:      studentID,
			StudentName:    record.StudentName,
			ClassName:      record.ClassName,
			Average:        avg,
			Classification: classifier.Classify(avg),
		}
		if record.Term == 1 {
			entry.Term1Average = &avg
		} else {
			entry.Term2Average = &avg
		}
		return entry, true
	}

	return RankingEntry{}, false
}
