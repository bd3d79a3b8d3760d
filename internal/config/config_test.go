package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Gradebook API", cfg.AppName)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "gradebook.db", cfg.DatabaseURL)
	require.Equal(t, "strict", cfg.RankingPolicy)
	require.Equal(t, [2]string{"math", "literature"}, cfg.EligibilitySubjects)
	require.True(t, cfg.ExcellentBand)
	require.Equal(t, "admin", cfg.AdminUsername)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt secret")
}

func TestLoadRejectsUnknownRankingPolicy(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "test-secret")
	t.Setenv("GRADEBOOK_RANKING_POLICY", "tournament")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ranking policy")
}

func TestLoadNormalizesRankingPolicy(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "test-secret")
	t.Setenv("GRADEBOOK_RANKING_POLICY", "Lenient")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "lenient", cfg.RankingPolicy)
}

func TestLoadReadsOpenAIKey(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "test-secret")
	t.Setenv("GRADEBOOK_OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
}

func TestLoadCustomEligibilityPair(t *testing.T) {
	t.Setenv("GRADEBOOK_JWT_SECRET", "test-secret")
	t.Setenv("GRADEBOOK_ELIGIBILITY_SUBJECTS", "math, english")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, [2]string{"math", "english"}, cfg.EligibilitySubjects)
}

func TestParseSubjectPair(t *testing.T) {
	_, err := parseSubjectPair("math")
	require.Error(t, err)

	_, err = parseSubjectPair("math,,literature")
	require.Error(t, err)

	_, err = parseSubjectPair("math, ")
	require.Error(t, err)

	pair, err := parseSubjectPair(" math , literature ")
	require.NoError(t, err)
	require.Equal(t, [2]string{"math", "literature"}, pair)
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9090", Config{AppPort: ":9090"}.HTTPAddress())
}
