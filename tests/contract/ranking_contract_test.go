package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/handler"
)

type stubRankingService struct {
	byTerm   dto.RankingResponse
	combined dto.RankingResponse
}

func (s stubRankingService) RankByTerm(context.Context, int) (dto.RankingResponse, error) {
	return s.byTerm, nil
}

func (s stubRankingService) RankCombined(context.Context) (dto.RankingResponse, error) {
	return s.combined, nil
}

func loadSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func validateResponse(t *testing.T, schema *jsonschema.Schema, resp *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func scoreOf(v float64) *float64 {
	return &v
}

func TestTermRankingContract(t *testing.T) {
	schema := loadSchema(t, "ranking.schema.json")

	term := 1
	ranking := dto.RankingResponse{
		Term: &term,
		Entries: []grading.RankingEntry{
			{
				Rank:           1,
				StudentID:      "SV002",
				StudentName:    "Tran Binh",
				ClassName:      "10A",
				Average:        9.25,
				Classification: "Good",
			},
			{
				Rank:           2,
				StudentID:      "SV001",
				StudentName:    "Nguyen An",
				ClassName:      "10A",
				Average:        7.5,
				Classification: "Fairly good",
			},
		},
		GeneratedAt: time.Now().UTC(),
	}

	h := handler.NewRankingHandler(stubRankingService{byTerm: ranking}, zerolog.Nop())
	app := fiber.New()
	h.Register(app.Group("/api/v1/rankings"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rankings/term/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	validateResponse(t, schema, resp)
}

func TestCombinedRankingContract(t *testing.T) {
	schema := loadSchema(t, "ranking.schema.json")

	ranking := dto.RankingResponse{
		Policy: "strict",
		Entries: []grading.RankingEntry{
			{
				Rank:           1,
				StudentID:      "SV001",
				StudentName:    "Nguyen An",
				ClassName:      "10A",
				Term1Average:   scoreOf(8.0),
				Term2Average:   scoreOf(9.0),
				Average:        8.5,
				Classification: "Good",
			},
		},
		GeneratedAt: time.Now().UTC(),
	}

	h := handler.NewRankingHandler(stubRankingService{combined: ranking}, zerolog.Nop())
	app := fiber.New()
	h.Register(app.Group("/api/v1/rankings"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rankings/combined", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	validateResponse(t, schema, resp)
}
