package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/service"
)

// eligibilityServiceStub implements service.EligibilityService.
type eligibilityServiceStub struct {
	resp      dto.EligibilityResponse
	studentID string
}

func (s *eligibilityServiceStub) CanAdvanceToTerm2(ctx context.Context, studentID string) (dto.EligibilityResponse, error) {
	s.studentID = studentID
	return s.resp, nil
}

// suggestionServiceStub implements service.SuggestionService.
type suggestionServiceStub struct {
	resp dto.SuggestionResponse
	err  error
	term int
}

func (s *suggestionServiceStub) ForStudent(ctx context.Context, studentID string, term int) (dto.SuggestionResponse, error) {
	s.term = term
	if s.err != nil {
		return dto.SuggestionResponse{}, s.err
	}
	return s.resp, nil
}

func newStudentApp(eligibility *eligibilityServiceStub, suggestions *suggestionServiceStub) *fiber.App {
	app := fiber.New()
	h := NewStudentHandler(eligibility, suggestions, zerolog.Nop())
	h.Register(app.Group("/api/v1/students"))
	return app
}

func TestStudentHandlerEligibility(t *testing.T) {
	eligibility := &eligibilityServiceStub{resp: dto.EligibilityResponse{
		StudentID:         "SV001",
		Eligible:          true,
		Reason:            "mandatory average 4.50 meets the 4.0 threshold",
		MandatorySubjects: []string{"math", "literature"},
		Average:           4.5,
	}}
	app := newStudentApp(eligibility, &suggestionServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/SV001/eligibility", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "SV001", eligibility.studentID)

	defer resp.Body.Close()
	var envelope struct {
		Data dto.EligibilityResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Data.Eligible)
	require.Equal(t, []string{"math", "literature"}, envelope.Data.MandatorySubjects)
}

func TestStudentHandlerSuggestions(t *testing.T) {
	suggestions := &suggestionServiceStub{resp: dto.SuggestionResponse{
		StudentID: "SV001",
		Term:      2,
		Suggestions: []dto.SubjectSuggestion{
			{Code: "math", Score: 3.5},
		},
	}}
	app := newStudentApp(&eligibilityServiceStub{}, suggestions)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/SV001/suggestions?term=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 2, suggestions.term)
}

func TestStudentHandlerSuggestionsDefaultTerm(t *testing.T) {
	suggestions := &suggestionServiceStub{}
	app := newStudentApp(&eligibilityServiceStub{}, suggestions)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/SV001/suggestions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, suggestions.term)
}

func TestStudentHandlerSuggestionsNotFound(t *testing.T) {
	app := newStudentApp(&eligibilityServiceStub{}, &suggestionServiceStub{err: service.ErrGradeNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/SV999/suggestions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
