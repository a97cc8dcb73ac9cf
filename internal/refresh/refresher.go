// Package refresh recomputes per-project frequent-word snapshots from the
// word count tables, on demand or on a cron schedule. Each run replaces the
// project's previous snapshot and announces completion on Kafka so serving
// instances can invalidate their list caches.
package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/wordseer/frequentwords/internal/wordlist"
	"github.com/wordseer/frequentwords/pkg/config"
	"github.com/wordseer/frequentwords/pkg/kafka"
	"github.com/wordseer/frequentwords/pkg/metrics"
	"github.com/wordseer/frequentwords/pkg/postgres"
	"github.com/wordseer/frequentwords/pkg/resilience"
)

// partsOfSpeech are the tag prefixes snapshotted per project.
var partsOfSpeech = []string{"NN", "VB", "JJ"}

// CompletedEvent is published to Kafka after a project snapshot is rebuilt.
type CompletedEvent struct {
	ProjectID   int64     `json:"project_id"`
	RowsWritten int       `json:"rows_written"`
	DurationMs  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// Refresher rebuilds frequent-word snapshots.
type Refresher struct {
	db        *postgres.Client
	producer  *kafka.Producer
	metrics   *metrics.Metrics
	stopwords map[string]struct{}
	topN      int
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Refresher. producer and m may be nil.
func New(db *postgres.Client, producer *kafka.Producer, m *metrics.Metrics, cfg config.RefreshConfig) *Refresher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Refresher{
		db:        db,
		producer:  producer,
		metrics:   m,
		stopwords: wordlist.Stopwords(cfg.Stopwords),
		topN:      cfg.TopN,
		timeout:   timeout,
		logger:    slog.Default().With("component", "refresher"),
	}
}

// Projects returns every project id present in the word count tables.
func (r *Refresher) Projects(ctx context.Context) ([]int64, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT DISTINCT project_id FROM word_counts ORDER BY project_id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RunAll refreshes every project, retrying each with backoff.
func (r *Refresher) RunAll(ctx context.Context) error {
	projects, err := r.Projects(ctx)
	if err != nil {
		return err
	}
	for _, projectID := range projects {
		err := resilience.Retry(ctx, fmt.Sprintf("refresh-project-%d", projectID), resilience.RetryConfig{}, func() error {
			runCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			return r.RunOnce(runCtx, projectID)
		})
		if err != nil {
			r.logger.Error("project refresh failed", "project_id", projectID, "error", err)
			if r.metrics != nil {
				r.metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
			}
			continue
		}
	}
	return nil
}

// RunOnce rebuilds the snapshot for a single project: deletes the previous
// rows and writes the top words per part of speech, both surface and
// stem-grouped forms.
func (r *Refresher) RunOnce(ctx context.Context, projectID int64) error {
	start := time.Now()

	var snapshot []wordlist.Row
	perCategory := make(map[string]int, len(partsOfSpeech))
	for _, pos := range partsOfSpeech {
		cands, err := r.candidates(ctx, projectID, pos)
		if err != nil {
			return err
		}
		rows := BuildSnapshot(cands, r.stopwords, r.topN)
		perCategory[pos] = len(rows)
		snapshot = append(snapshot, rows...)
	}

	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM frequent_words WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("deleting previous snapshot: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("frequent_words",
			"project_id", "word_id", "word", "pos", "word_count", "score_sentences", "is_lemmatized"))
		if err != nil {
			return fmt.Errorf("preparing snapshot copy: %w", err)
		}
		for _, row := range snapshot {
			if _, err := stmt.ExecContext(ctx, projectID, row.WordID, row.Word, row.PartOfSpeech,
				row.Count, row.ScoreSentences, row.IsLemmatized); err != nil {
				return fmt.Errorf("buffering snapshot row: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flushing snapshot copy: %w", err)
		}
		return stmt.Close()
	})
	if err != nil {
		return fmt.Errorf("writing snapshot for project %d: %w", projectID, err)
	}

	duration := time.Since(start)
	r.logger.Info("snapshot refreshed",
		"project_id", projectID,
		"rows", len(snapshot),
		"duration_ms", duration.Milliseconds(),
	)
	if r.metrics != nil {
		r.metrics.RefreshRunsTotal.WithLabelValues("ok").Inc()
		r.metrics.RefreshDuration.Observe(duration.Seconds())
		for pos, n := range perCategory {
			r.metrics.SnapshotRows.WithLabelValues(strconv.FormatInt(projectID, 10), pos).Set(float64(n))
		}
	}

	if r.producer != nil {
		event := CompletedEvent{
			ProjectID:   projectID,
			RowsWritten: len(snapshot),
			DurationMs:  duration.Milliseconds(),
			Timestamp:   time.Now().UTC(),
		}
		if err := r.producer.Publish(ctx, kafka.Event{Key: strconv.FormatInt(projectID, 10), Value: event}); err != nil {
			r.logger.Error("failed to publish refresh event", "project_id", projectID, "error", err)
		}
	}
	return nil
}

// Schedule registers RunAll on the cron expression and returns the started
// scheduler. The caller stops it on shutdown.
func (r *Refresher) Schedule(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := r.RunAll(ctx); err != nil {
			r.logger.Error("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("registering refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	r.logger.Info("refresh scheduled", "cron", schedule)
	return c, nil
}

// candidates reads a project's words for one part-of-speech prefix, ordered
// by sentence count. Stopword filtering happens in BuildSnapshot so the
// configured stopword list applies uniformly.
func (r *Refresher) candidates(ctx context.Context, projectID int64, pos string) ([]Candidate, error) {
	const q = `
		SELECT w.id, w.surface, COALESCE(w.lemma, ''), w.part_of_speech,
		       wc.word_count, wc.sentence_count
		FROM words w
		JOIN word_counts wc ON wc.word_id = w.id
		WHERE wc.project_id = $1 AND w.part_of_speech LIKE $2
		ORDER BY wc.sentence_count DESC`

	rows, err := r.db.DB.QueryContext(ctx, q, projectID, pos+"%")
	if err != nil {
		return nil, fmt.Errorf("querying candidates (pos %s): %w", pos, err)
	}
	defer rows.Close()

	var cands []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.WordID, &c.Surface, &c.Lemma, &c.PartOfSpeech, &c.WordCount, &c.SentenceCount); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}
