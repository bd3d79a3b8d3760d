package grading

import (
	"sort"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/models"
)

// CleanCounts reports what a cleanup pass repaired. A pass over already
// clean data returns the zero value.
type CleanCounts struct {
	DuplicatesRemoved    int `json:"duplicates_removed"`
	NameConflictsRemoved int `json:"name_conflicts_removed"`
	NegativeScoresFixed  int `json:"negative_scores_fixed"`
}

// CleanPlan is the outcome of the in-memory cleaning pass. DeleteIDs and
// Updates describe the minimal set of writes: ids of discarded records and
// surviving records whose content changed. Untouched survivors appear in
// neither, which keeps their ids and timestamps stable.
type CleanPlan struct {
	Counts    CleanCounts
	DeleteIDs []uint
	Updates   []models.GradeRecord
}

// Clean runs the three repair steps in order over a snapshot of the store:
// negative scores become absent, duplicate (student, term) rows collapse to
// the first-loaded row, and student ids carrying conflicting names collapse
// to a single record chosen by (student id, student name) sort order. Every
// survivor then gets its average and classification recomputed.
func Clean(c *catalog.Catalog, classifier Classifier, records []models.GradeRecord) CleanPlan {
	plan := CleanPlan{}

	working := make([]models.GradeRecord, len(records))
	touched := make(map[uint]bool)
	for i, record := range records {
		working[i] = record
		working[i].SetScores(record.ScoreValues().Clone())
	}

	// Step 1: negative scores become "not taken".
	for i := range working {
		scores := working[i].ScoreValues()
		for code, score := range scores {
			if score != nil && *score < 0 {
				scores[code] = nil
				plan.Counts.NegativeScoresFixed++
				touched[working[i].ID] = true
			}
		}
		working[i].SetScores(scores)
	}

	// Step 2: one record per (student, term), first-loaded wins.
	type studentTerm struct {
		studentID string
		term      int
	}
	seen := make(map[studentTerm]bool)
	survivors := working[:0]
	for _, record := range working {
		key := studentTerm{record.StudentID, record.Term}
		if seen[key] {
			plan.Counts.DuplicatesRemoved++
			plan.DeleteIDs = append(plan.DeleteIDs, record.ID)
			continue
		}
		seen[key] = true
		survivors = append(survivors, record)
	}

	// Step 3: conflicting names for one student id collapse to a single
	// record overall. Runs on step 2's output; candidates sort by
	// (student id, student name), stable on load order.
	survivors = resolveNameConflicts(survivors, &plan)

	// Step 4: recompute derived fields on every survivor.
	for i := range survivors {
		average := ComputeAverage(c, survivors[i].ScoreValues())
		classification := classifier.Classify(average)
		if average != survivors[i].Average || classification != survivors[i].Classification {
			touched[survivors[i].ID] = true
		}
		survivors[i].Average = average
		survivors[i].Classification = classification
		if touched[survivors[i].ID] {
			plan.Updates = append(plan.Updates, survivors[i])
		}
	}

	return plan
}

func resolveNameConflicts(records []models.GradeRecord, plan *CleanPlan) []models.GradeRecord {
	byStudent := make(map[string][]models.GradeRecord)
	order := make([]string, 0)
	for _, record := range records {
		if _, ok := byStudent[record.StudentID]; !ok {
			order = append(order, record.StudentID)
		}
		byStudent[record.StudentID] = append(byStudent[record.StudentID], record)
	}

	kept := make(map[uint]bool)
	for _, studentID := range order {
		group := byStudent[studentID]
		names := make(map[string]bool)
		for _, record := range group {
			names[record.StudentName] = true
		}
		if len(names) <= 1 {
			for _, record := range group {
				kept[record.ID] = true
			}
			continue
		}

		plan.Counts.NameConflictsRemoved++
		candidates := make([]models.GradeRecord, len(group))
		copy(candidates, group)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].StudentName < candidates[j].StudentName
		})
		kept[candidates[0].ID] = true
	}

	out := records[:0]
	for _, record := range records {
		if kept[record.ID] {
			out = append(out, record)
		} else {
			plan.DeleteIDs = append(plan.DeleteIDs, record.ID)
		}
	}
	return out
}
