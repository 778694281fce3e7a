package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetSimilarity_IdenticalTextScoresOne(t *testing.T) {
	s := TokenSetSimilarity("the quick brown fox", "the quick brown fox")
	assert.Equal(t, 1.0, s)
}

func TestTokenSetSimilarity_DisjointTextScoresZero(t *testing.T) {
	s := TokenSetSimilarity("alpha beta gamma", "delta epsilon zeta")
	assert.Equal(t, 0.0, s)
}

func TestTokenSetSimilarity_PartialOverlap(t *testing.T) {
	s := TokenSetSimilarity("the quick brown fox", "the quick brown dog")
	// intersection {the, quick, brown} = 3, union {the, quick, brown, fox, dog} = 5
	assert.InDelta(t, 0.6, s, 0.001)
}

func TestTokenSetSimilarity_IgnoresHTMLMarkup(t *testing.T) {
	s := TokenSetSimilarity("<p>hello world</p>", "<div>hello world</div>")
	assert.Equal(t, 1.0, s)
}

func TestTokenSetSimilarity_BothEmptyScoresOne(t *testing.T) {
	s := TokenSetSimilarity("", "")
	assert.Equal(t, 1.0, s)
}

func TestTokenSetSimilarity_CaseInsensitive(t *testing.T) {
	s := TokenSetSimilarity("Hello World", "hello world")
	assert.Equal(t, 1.0, s)
}
