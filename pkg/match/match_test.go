package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filmclub/screener/pkg/match"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Zone of Interest", "zone of interest"},
		{"Léon: The Professional", "leon professional"},
		{"Past Lives", "past lives"},
		{"Poor Things!", "poor things"},
		{"Sing Sing & Friends", "sing sing and friends"},
		{"Anatomy   of a Fall", "anatomy of a fall"},
		{"L'Amour Ouf", "lamour ouf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, match.Normalize(tt.in), "input %q", tt.in)
	}
}

func TestBestMatch_Exact(t *testing.T) {
	candidates := []string{"Oppenheimer", "Past Lives", "The Holdovers"}

	got := match.BestMatch("the holdovers", candidates)

	assert.Equal(t, "The Holdovers", got.Title)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, match.High, got.Confidence)
}

func TestBestMatch_Prefix(t *testing.T) {
	candidates := []string{"Killers of the Flower Moon", "Anatomy of a Fall"}

	got := match.BestMatch("killers of the flower", candidates)

	assert.Equal(t, 0, got.Index)
	assert.GreaterOrEqual(t, got.Confidence, match.Medium)
}

func TestBestMatch_NoneBelowThreshold(t *testing.T) {
	candidates := []string{"Oppenheimer", "Barbie"}

	got := match.BestMatch("zzzzzz completely unrelated", candidates)

	assert.Equal(t, match.None, got.Confidence)
	assert.Equal(t, -1, got.Index)
	assert.Empty(t, got.Title)
}

func TestBestMatch_NoCandidates(t *testing.T) {
	got := match.BestMatch("anything", nil)
	assert.Equal(t, match.None, got.Confidence)
	assert.Equal(t, -1, got.Index)
}

func TestRank_OrdersByScore(t *testing.T) {
	candidates := []string{"Dune", "Dune: Part Two", "Wonka"}

	got := match.Rank("dune part two", candidates)

	assert.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].Index)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Score, got[i-1].Score)
	}
}
