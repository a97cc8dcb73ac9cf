package refresh

import (
	"testing"

	"github.com/wordseer/frequentwords/internal/wordlist"
)

func testCandidates() []Candidate {
	return []Candidate{
		{WordID: 1, Surface: "whale", Lemma: "whale", PartOfSpeech: "NN", WordCount: 120, SentenceCount: 90},
		{WordID: 2, Surface: "whales", Lemma: "whale", PartOfSpeech: "NNS", WordCount: 40, SentenceCount: 35},
		{WordID: 3, Surface: "ship", Lemma: "ship", PartOfSpeech: "NN", WordCount: 80, SentenceCount: 60},
		{WordID: 4, Surface: "the", Lemma: "the", PartOfSpeech: "NN", WordCount: 900, SentenceCount: 800},
	}
}

func TestBuildSnapshotExcludesStopwords(t *testing.T) {
	rows := BuildSnapshot(testCandidates(), wordlist.Stopwords(nil), 20)
	for _, r := range rows {
		if r.Word == "the" {
			t.Error("stopword survived into snapshot")
		}
	}
}

func TestBuildSnapshotRanksBySentenceCount(t *testing.T) {
	rows := BuildSnapshot(testCandidates(), wordlist.Stopwords(nil), 20)

	var surfaces []string
	for _, r := range rows {
		if !r.IsLemmatized {
			surfaces = append(surfaces, r.Word)
		}
	}
	want := []string{"whale", "ship", "whales"}
	if len(surfaces) != len(want) {
		t.Fatalf("surface rows = %v, want %v", surfaces, want)
	}
	for i := range want {
		if surfaces[i] != want[i] {
			t.Errorf("surface rows = %v, want %v", surfaces, want)
			break
		}
	}
}

func TestBuildSnapshotTopN(t *testing.T) {
	rows := BuildSnapshot(testCandidates(), wordlist.Stopwords(nil), 2)
	var surfaces int
	for _, r := range rows {
		if !r.IsLemmatized {
			surfaces++
		}
	}
	if surfaces != 2 {
		t.Errorf("topN=2 kept %d surface rows", surfaces)
	}
}

func TestBuildSnapshotGroupsByLemma(t *testing.T) {
	rows := BuildSnapshot(testCandidates(), wordlist.Stopwords(nil), 20)

	var whale *wordlist.Row
	var lemmatized int
	for i, r := range rows {
		if r.IsLemmatized {
			lemmatized++
			if r.Word == "whale" {
				whale = &rows[i]
			}
		}
	}
	if lemmatized != 2 {
		t.Fatalf("lemmatized rows = %d, want 2 (whale, ship)", lemmatized)
	}
	if whale == nil {
		t.Fatal("no stem-grouped whale row")
	}
	if whale.Count != 160 {
		t.Errorf("grouped count = %d, want 160", whale.Count)
	}
	if whale.ScoreSentences != 125 {
		t.Errorf("grouped score = %v, want 125", whale.ScoreSentences)
	}
}

func TestBuildSnapshotDerivesMissingLemma(t *testing.T) {
	cands := []Candidate{
		{WordID: 1, Surface: "sailing", PartOfSpeech: "VBG", WordCount: 10, SentenceCount: 8},
	}
	rows := BuildSnapshot(cands, wordlist.Stopwords(nil), 20)

	var lemma string
	for _, r := range rows {
		if r.IsLemmatized {
			lemma = r.Word
		}
	}
	if lemma != wordlist.Lemma("sailing") {
		t.Errorf("derived lemma = %q, want %q", lemma, wordlist.Lemma("sailing"))
	}
}

func TestBuildSnapshotEmptyInput(t *testing.T) {
	if rows := BuildSnapshot(nil, wordlist.Stopwords(nil), 20); len(rows) != 0 {
		t.Errorf("empty input produced %d rows", len(rows))
	}
}
