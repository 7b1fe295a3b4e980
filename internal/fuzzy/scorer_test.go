package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "one", b: "one", want: 100},
		{name: "case and punctuation ignored", a: "Software-Engineer", b: "software engineer", want: 100},
		{name: "one substitution", a: "abc", b: "abd", want: 67},
		{name: "nothing in common", a: "abc", b: "xyz", want: 0},
		{name: "empty query", a: "", b: "one", want: 0},
		{name: "only punctuation", a: "!!!", b: "one", want: 0},
		{name: "word order matters", a: "new york", b: "york new", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
			assert.Equal(t, tt.want, Ratio(tt.b, tt.a))
		})
	}
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("new york mets", "mets new york"))
	assert.Equal(t, 0, TokenSortRatio("", "mets"))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("software engineer", "senior software engineer"))
	assert.Equal(t, 100, TokenSetRatio("engineer engineer software", "software engineer"))
	assert.Equal(t, 0, TokenSetRatio("software", ""))
	assert.Less(t, TokenSetRatio("accountant", "software engineer"), 50)
}

func TestScorerByName(t *testing.T) {
	for _, name := range []string{"", ScorerRatio, ScorerTokenSortRatio, " Token_Set_Ratio "} {
		scorer, err := ScorerByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, 100, scorer("same", "same"))
	}

	_, err := ScorerByName("partial")
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	assert.Equal(t, "café owner operator", Process("  Café—Owner/Operator "))
	assert.Equal(t, "abc 123", Process("ＡＢＣ　１２３"))
	assert.Equal(t, "", Process(" ,.; "))
}
