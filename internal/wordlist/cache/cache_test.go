package cache

import (
	"strings"
	"testing"

	"github.com/wordseer/frequentwords/internal/wordlist"
)

func TestBuildKeyDistinguishesInputs(t *testing.T) {
	c := &ListCache{}
	base := wordlist.LoadParams{Query: "whale", Instance: "3", Limit: 20}

	cases := []struct {
		name   string
		params wordlist.LoadParams
		cat    wordlist.Category
	}{
		{"different query", wordlist.LoadParams{Query: "ship", Instance: "3", Limit: 20}, wordlist.Nouns},
		{"different instance", wordlist.LoadParams{Query: "whale", Instance: "4", Limit: 20}, wordlist.Nouns},
		{"different limit", wordlist.LoadParams{Query: "whale", Instance: "3", Limit: 50}, wordlist.Nouns},
		{"different category", base, wordlist.Verbs},
	}
	baseKey := c.buildKey(wordlist.Nouns, base)
	for _, tc := range cases {
		if got := c.buildKey(tc.cat, tc.params); got == baseKey {
			t.Errorf("%s produced the same key %q", tc.name, got)
		}
	}

	if again := c.buildKey(wordlist.Nouns, base); again != baseKey {
		t.Errorf("key not deterministic: %q vs %q", again, baseKey)
	}
}

func TestBuildKeyMatchesInvalidationPattern(t *testing.T) {
	c := &ListCache{}
	key := c.buildKey(wordlist.Phrases, wordlist.LoadParams{Query: "q", Instance: "12", Limit: 20})

	// Invalidate flushes "wordlist:<instance>:*"; every key for the instance
	// must live under that prefix.
	if !strings.HasPrefix(key, "wordlist:12:") {
		t.Errorf("key %q not under instance prefix", key)
	}
}
