// Package simhash computes a 64-bit content fingerprint used by the
// Similarity-Check stage to detect near-duplicate articles across a batch.
//
// Tokenization (pinned per spec §9's open question, since the duplicate
// threshold depends on it): lowercase, strip HTML tags, strip punctuation,
// split on whitespace, drop a small stopword list, then hash overlapping
// word 3-grams (shingles). A single shingle falls back to unigrams when the
// token stream is shorter than the shingle size, so short fields still
// produce a meaningful fingerprint.
package simhash

import (
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/ai-visible/articleengine/internal/htmlutil"
)

const shingleSize = 3

var (
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	stopwords     = map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
		"to": true, "of": true, "in": true, "on": true, "for": true, "with": true,
		"as": true, "by": true, "at": true, "it": true, "this": true, "that": true,
		"from": true, "your": true, "you": true, "can": true, "will": true,
	}
)

// Tokenize normalizes text into a filtered word stream: lowercase, HTML
// stripped, punctuation stripped, stopwords removed.
func Tokenize(text string) []string {
	plain := htmlutil.StripTags(text)
	plain = strings.ToLower(plain)
	plain = punctuationRe.ReplaceAllString(plain, " ")

	var tokens []string
	for _, w := range strings.Fields(plain) {
		if !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// shingles returns overlapping word n-grams of the configured size.
func shingles(tokens []string) []string {
	if len(tokens) < shingleSize {
		return tokens
	}
	out := make([]string, 0, len(tokens)-shingleSize+1)
	for i := 0; i+shingleSize <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+shingleSize], " "))
	}
	return out
}

// Fingerprint computes the 64-bit SimHash of text.
func Fingerprint(text string) uint64 {
	tokens := Tokenize(text)
	shingleList := shingles(tokens)
	if len(shingleList) == 0 {
		return 0
	}

	var weights [64]int
	for _, sh := range shingleList {
		h := hashShingle(sh)
		for bit := 0; bit < 64; bit++ {
			if h&(1<<uint(bit)) != 0 {
				weights[bit]++
			} else {
				weights[bit]--
			}
		}
	}

	var fp uint64
	for bit := 0; bit < 64; bit++ {
		if weights[bit] > 0 {
			fp |= 1 << uint(bit)
		}
	}
	return fp
}

func hashShingle(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// HammingDistance returns the number of differing bits between a and b.
func HammingDistance(a, b uint64) int {
	x := a ^ b
	count := 0
	for x != 0 {
		count++
		x &= x - 1
	}
	return count
}

// DuplicateThresholdBits is the Hamming-distance threshold (inclusive) below
// which two fingerprints are considered near-duplicates (spec §4.2: distance
// ≤ 12, "≈80% similar" for 64-bit fingerprints).
const DuplicateThresholdBits = 12

// IsDuplicate reports whether a and b are within the duplicate threshold.
func IsDuplicate(a, b uint64) bool {
	return HammingDistance(a, b) <= DuplicateThresholdBits
}
