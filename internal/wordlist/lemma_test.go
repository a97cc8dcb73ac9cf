package wordlist

import "testing"

func TestStopwords(t *testing.T) {
	set := Stopwords([]string{"Custom", " padded "})

	cases := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"The", true},
		{"custom", true},
		{"padded", true},
		{"whale", false},
	}
	for _, tc := range cases {
		if got := IsStopword(set, tc.word); got != tc.want {
			t.Errorf("IsStopword(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}
}

func TestHasFunctionWords(t *testing.T) {
	set := Stopwords(nil)
	cases := []struct {
		phrase string
		want   bool
	}{
		{"white whale", false},
		{"of course", true},
		{"call me", false},
		{"the sea", true},
	}
	for _, tc := range cases {
		if got := HasFunctionWords(set, tc.phrase); got != tc.want {
			t.Errorf("HasFunctionWords(%q) = %v, want %v", tc.phrase, got, tc.want)
		}
	}
}

func TestLemmaGroupsInflectedForms(t *testing.T) {
	cases := []struct {
		word string
		want string
	}{
		{"running", "runn"},
		{"Walked", "walk"},
		{"stories", "story"},
		{"payments", "payment"},
		{"whale", "whale"},
	}
	for _, tc := range cases {
		if got := Lemma(tc.word); got != tc.want {
			t.Errorf("Lemma(%q) = %q, want %q", tc.word, got, tc.want)
		}
	}
}

func TestLemmaMergesPlural(t *testing.T) {
	if Lemma("dogs") != Lemma("dog") {
		t.Errorf("plural and singular stems diverge: %q vs %q", Lemma("dogs"), Lemma("dog"))
	}
}
