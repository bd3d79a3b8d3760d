package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validCatalogJSON = `[
	{"code": "math", "display_name": "Mathematics", "counts_toward_average": true, "term": 1, "mandatory": true},
	{"code": "gym", "display_name": "Gym", "counts_toward_average": false, "term": 1}
]`

func TestParseValidCatalog(t *testing.T) {
	c, err := Parse([]byte(validCatalogJSON))
	require.NoError(t, err)
	require.Equal(t, []string{"math", "gym"}, c.Codes())
	require.False(t, c.CountsTowardAverage("gym"))
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not an array": `{"code": "math"}`,
		"missing code": `[{"display_name": "Mathematics", "counts_toward_average": true, "term": 1}]`,
		"bad term":     `[{"code": "math", "display_name": "Mathematics", "counts_toward_average": true, "term": 0}]`,
		"wrong type":   `[{"code": "math", "display_name": "Mathematics", "counts_toward_average": "yes", "term": 1}]`,
		"invalid json": `[{"code": "math"`,
	}

	for name, document := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(document))
			require.Error(t, err)
		})
	}
}

func TestParseRejectsDuplicateCodesAfterSchemaCheck(t *testing.T) {
	document := `[
		{"code": "math", "display_name": "Mathematics", "counts_toward_average": true, "term": 1},
		{"code": "math", "display_name": "Maths again", "counts_toward_average": true, "term": 2}
	]`
	_, err := Parse([]byte(document))
	require.ErrorContains(t, err, "duplicate subject code")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogJSON), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"math", "gym"}, c.Codes())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
