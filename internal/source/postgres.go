package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/umutdv/riddlebot/core/logger"
	"github.com/umutdv/riddlebot/internal/riddle"
)

const pickUnaskedSQL = `
UPDATE riddles
SET asked = TRUE
WHERE id = (
	SELECT id FROM riddles
	WHERE NOT asked
	ORDER BY random()
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, question, answer`

// Postgres rotates riddles stored in the riddles table: it picks a random
// row that has not been asked yet and marks it asked; once every row has
// been used it resets the cycle and picks again.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres builds a database-backed riddle source.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Fetch returns the next riddle of the rotation.
func (p *Postgres) Fetch(ctx context.Context) (riddle.Riddle, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return riddle.Riddle{}, fmt.Errorf("begin riddle pick: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r, err := pickUnasked(ctx, tx)
	if errors.Is(err, sql.ErrNoRows) {
		// Every riddle has been asked; start a new cycle.
		if _, err := tx.ExecContext(ctx, `UPDATE riddles SET asked = FALSE`); err != nil {
			return riddle.Riddle{}, fmt.Errorf("reset riddle cycle: %w", err)
		}
		logger.DB.Debug("riddle cycle reset",
			slog.String("event", "riddle.cycle"),
		)
		r, err = pickUnasked(ctx, tx)
		if errors.Is(err, sql.ErrNoRows) {
			return riddle.Riddle{}, ErrNoRiddles
		}
	}
	if err != nil {
		return riddle.Riddle{}, fmt.Errorf("pick riddle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return riddle.Riddle{}, fmt.Errorf("commit riddle pick: %w", err)
	}
	return r, nil
}

func pickUnasked(ctx context.Context, tx *sqlx.Tx) (riddle.Riddle, error) {
	var row struct {
		ID       int64  `db:"id"`
		Question string `db:"question"`
		Answer   string `db:"answer"`
	}
	if err := tx.QueryRowxContext(ctx, pickUnaskedSQL).StructScan(&row); err != nil {
		return riddle.Riddle{}, err
	}
	return riddle.Riddle{ID: row.ID, Question: row.Question, Answer: row.Answer}, nil
}

// SeedDefaults inserts the built-in riddle pool when the table is empty, so
// a freshly migrated database can serve riddles immediately. It reports how
// many rows were inserted.
func (p *Postgres) SeedDefaults(ctx context.Context) (int, error) {
	var count int
	if err := p.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM riddles`); err != nil {
		return 0, fmt.Errorf("count riddles: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin riddle seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, r := range builtinRiddles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO riddles (question, answer) VALUES ($1, $2)`,
			r.Question, r.Answer,
		); err != nil {
			return 0, fmt.Errorf("insert riddle: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit riddle seed: %w", err)
	}

	logger.DB.Info("riddles seeded",
		slog.String("event", "riddle.seed"),
		slog.Int("count", inserted),
	)
	return inserted, nil
}
