package wordlist

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/wordseer/frequentwords/pkg/errors"
	"github.com/wordseer/frequentwords/pkg/postgres"
)

// PostgresSource loads frequent word rows from the snapshot tables written
// by the refresher, and frequent phrases straight from the sequence tables.
//
// Required schema (see configs/schema.sql):
//
//	frequent_words(project_id, word_id, word, pos, word_count,
//	               score_sentences, is_lemmatized, captured_at)
//	sequences(id, sequence, length, lemmatized, has_function_words)
//	sequence_counts(project_id, sequence_id, sentence_count)
type PostgresSource struct {
	db           *postgres.Client
	phraseLength int
	stopwords    map[string]struct{}
	logger       *slog.Logger
}

// NewPostgresSource creates a source reading from db. phraseLength selects
// which sequence length backs the phrases list.
func NewPostgresSource(db *postgres.Client, phraseLength int) *PostgresSource {
	if phraseLength <= 0 {
		phraseLength = 2
	}
	return &PostgresSource{
		db:           db,
		phraseLength: phraseLength,
		stopwords:    Stopwords(nil),
		logger:       slog.Default().With("component", "wordlist-source"),
	}
}

// FetchRows returns the rows for a category, ordered by score descending.
func (s *PostgresSource) FetchRows(ctx context.Context, category Category, params LoadParams) ([]Row, error) {
	projectID, err := strconv.ParseInt(params.Instance, 10, 64)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"instance %q is not a project id", params.Instance)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	if category == Phrases {
		return s.fetchPhrases(ctx, projectID, limit)
	}
	return s.fetchWords(ctx, projectID, category.POS(), limit)
}

func (s *PostgresSource) fetchWords(ctx context.Context, projectID int64, pos string, limit int) ([]Row, error) {
	const q = `
		SELECT word_id, word, pos, word_count, score_sentences, is_lemmatized
		FROM frequent_words
		WHERE project_id = $1 AND pos LIKE $2
		ORDER BY score_sentences DESC, word ASC
		LIMIT $3`

	rows, err := s.db.DB.QueryContext(ctx, q, projectID, pos+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying frequent words (pos %s): %w", pos, err)
	}
	defer rows.Close()

	result := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.WordID, &r.Word, &r.PartOfSpeech, &r.Count, &r.ScoreSentences, &r.IsLemmatized); err != nil {
			return nil, fmt.Errorf("scanning frequent word row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating frequent word rows: %w", err)
	}
	return result, nil
}

// fetchPhrases mirrors the original behaviour of serving phrases live from
// the sequence tables: non-lemmatized sequences of the configured length
// that carry no function words, ordered by sentence count.
func (s *PostgresSource) fetchPhrases(ctx context.Context, projectID int64, limit int) ([]Row, error) {
	const q = `
		SELECT s.id, s.sequence, sc.sentence_count
		FROM sequences s
		JOIN sequence_counts sc ON sc.sequence_id = s.id
		WHERE sc.project_id = $1
		  AND s.length = $2
		  AND s.lemmatized = FALSE
		  AND s.has_function_words = FALSE
		ORDER BY sc.sentence_count DESC, s.sequence ASC
		LIMIT $3`

	rows, err := s.db.DB.QueryContext(ctx, q, projectID, s.phraseLength, limit)
	if err != nil {
		return nil, fmt.Errorf("querying frequent phrases: %w", err)
	}
	defer rows.Close()

	result := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		var sentenceCount int
		if err := rows.Scan(&r.WordID, &r.Word, &sentenceCount); err != nil {
			return nil, fmt.Errorf("scanning phrase row: %w", err)
		}
		// The has_function_words flag is set at ingest time; re-check against
		// the current stopword set in case the flag predates it.
		if HasFunctionWords(s.stopwords, r.Word) {
			continue
		}
		r.Count = sentenceCount
		r.ScoreSentences = float64(sentenceCount)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phrase rows: %w", err)
	}
	return result, nil
}
