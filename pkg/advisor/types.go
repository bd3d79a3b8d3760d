package advisor

import "context"

// SubjectScore pairs a subject with the student's score for the prompt.
type SubjectScore struct {
	DisplayName string
	Score       float64
}

// AdviceInput describes one student's term results for advice generation.
type AdviceInput struct {
	StudentName    string
	Term           int
	Average        float64
	Classification string
	WeakSubjects   []SubjectScore
	StrongSubjects []SubjectScore
}

// Advisor produces a short study-advice paragraph for a student.
type Advisor interface {
	Advise(ctx context.Context, input AdviceInput) (string, error)
}
