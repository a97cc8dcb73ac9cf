package refresh

import (
	"sort"

	"github.com/wordseer/frequentwords/internal/wordlist"
)

// Candidate is one word with its per-project counts, as read from the
// words/word_counts tables.
type Candidate struct {
	WordID        int64
	Surface       string
	Lemma         string
	PartOfSpeech  string
	WordCount     int
	SentenceCount int
}

// BuildSnapshot turns candidate words into snapshot rows: the top N surface
// forms by sentence count, plus stem-grouped rows aggregating every surface
// form that shares a lemma. Stopwords are excluded by surface and by lemma
// before ranking.
func BuildSnapshot(cands []Candidate, stopwords map[string]struct{}, topN int) []wordlist.Row {
	if topN <= 0 {
		topN = 20
	}

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if wordlist.IsStopword(stopwords, c.Surface) || wordlist.IsStopword(stopwords, c.lemma()) {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].SentenceCount != kept[j].SentenceCount {
			return kept[i].SentenceCount > kept[j].SentenceCount
		}
		return kept[i].Surface < kept[j].Surface
	})
	if len(kept) > topN {
		kept = kept[:topN]
	}

	rows := make([]wordlist.Row, 0, 2*len(kept))
	for _, c := range kept {
		rows = append(rows, wordlist.Row{
			WordID:         c.WordID,
			Word:           c.Surface,
			PartOfSpeech:   c.PartOfSpeech,
			Count:          c.WordCount,
			ScoreSentences: float64(c.SentenceCount),
			IsLemmatized:   false,
		})
	}
	rows = append(rows, groupByLemma(kept)...)
	return rows
}

// groupByLemma merges the kept surface forms into one row per lemma, with
// counts and scores summed across forms.
func groupByLemma(cands []Candidate) []wordlist.Row {
	type group struct {
		wordID        int64
		pos           string
		wordCount     int
		sentenceCount int
	}
	groups := make(map[string]*group)
	order := make([]string, 0, len(cands))
	for _, c := range cands {
		lemma := c.lemma()
		g, ok := groups[lemma]
		if !ok {
			g = &group{wordID: c.WordID, pos: c.PartOfSpeech}
			groups[lemma] = g
			order = append(order, lemma)
		}
		g.wordCount += c.WordCount
		g.sentenceCount += c.SentenceCount
	}

	rows := make([]wordlist.Row, 0, len(groups))
	for _, lemma := range order {
		g := groups[lemma]
		rows = append(rows, wordlist.Row{
			WordID:         g.wordID,
			Word:           lemma,
			PartOfSpeech:   g.pos,
			Count:          g.wordCount,
			ScoreSentences: float64(g.sentenceCount),
			IsLemmatized:   true,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ScoreSentences != rows[j].ScoreSentences {
			return rows[i].ScoreSentences > rows[j].ScoreSentences
		}
		return rows[i].Word < rows[j].Word
	})
	return rows
}

// lemma returns the candidate's lemma, deriving it from the surface form
// when the corpus has none.
func (c Candidate) lemma() string {
	if c.Lemma != "" {
		return c.Lemma
	}
	return wordlist.Lemma(c.Surface)
}
