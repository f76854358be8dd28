package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkers/internal/apperr"
	"checkers/internal/domain"
	"checkers/internal/ports"
)

// MatchStore persists match lifecycle rows.
type MatchStore struct {
	db *pgxpool.Pool
}

// NewMatchStore builds a MatchStore over db.
func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

func scanMatch(row pgx.Row) (ports.Match, error) {
	var m ports.Match
	var whiteUser, blackUser *string
	var finishedAt *time.Time
	err := row.Scan(&m.MatchID, &m.StartedAt, &finishedAt, &whiteUser, &blackUser, &m.Result, &m.Reason, &m.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.Match{}, apperr.ErrMatchNotFound
		}
		return ports.Match{}, fmt.Errorf("%w: scan match: %v", apperr.ErrStoreFailure, err)
	}
	if whiteUser != nil {
		m.WhiteUser = *whiteUser
	}
	if blackUser != nil {
		m.BlackUser = *blackUser
	}
	m.FinishedAt = finishedAt
	return m, nil
}

const matchColumns = `matchid, started_at, finished_at, whiteuser, blackuser, result, reason, status`

// CreateWaiting seats userID at role and inserts a new waiting match.
func (s *MatchStore) CreateWaiting(ctx context.Context, matchID, userID string, role domain.Role) (ports.Match, error) {
	var whiteUser, blackUser *string
	if role == domain.White {
		whiteUser = &userID
	} else {
		blackUser = &userID
	}

	row := s.db.QueryRow(ctx, `
INSERT INTO matches (matchid, whiteuser, blackuser, result, reason, status)
VALUES ($1, $2, $3, 'none', 'none', 'waiting')
RETURNING `+matchColumns+`;
`, matchID, whiteUser, blackUser)
	return scanMatch(row)
}

// FindOldestWaitingWithEmptySlot returns the oldest waiting match with an
// empty seat that userID does not already occupy.
func (s *MatchStore) FindOldestWaitingWithEmptySlot(ctx context.Context, userID string) (ports.Match, bool, error) {
	row := s.db.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE status = 'waiting'
  AND (whiteuser IS NULL OR blackuser IS NULL)
  AND whiteuser IS DISTINCT FROM $1
  AND blackuser IS DISTINCT FROM $1
ORDER BY started_at ASC
LIMIT 1;
`, userID)
	m, err := scanMatch(row)
	if errors.Is(err, apperr.ErrMatchNotFound) {
		return ports.Match{}, false, nil
	}
	if err != nil {
		return ports.Match{}, false, err
	}
	return m, true, nil
}

// FindOwnedWaiting returns the waiting match userID already occupies, if any.
func (s *MatchStore) FindOwnedWaiting(ctx context.Context, userID string) (ports.Match, bool, error) {
	row := s.db.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE status = 'waiting'
  AND (whiteuser = $1 OR blackuser = $1)
LIMIT 1;
`, userID)
	m, err := scanMatch(row)
	if errors.Is(err, apperr.ErrMatchNotFound) {
		return ports.Match{}, false, nil
	}
	if err != nil {
		return ports.Match{}, false, err
	}
	return m, true, nil
}

// FindOngoingFor returns the ongoing match userID participates in, if any.
func (s *MatchStore) FindOngoingFor(ctx context.Context, userID string) (ports.Match, bool, error) {
	row := s.db.QueryRow(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE status = 'ongoing'
  AND (whiteuser = $1 OR blackuser = $1)
LIMIT 1;
`, userID)
	m, err := scanMatch(row)
	if errors.Is(err, apperr.ErrMatchNotFound) {
		return ports.Match{}, false, nil
	}
	if err != nil {
		return ports.Match{}, false, err
	}
	return m, true, nil
}

// ClaimWaiting seats userID into matchID's empty slot and flips it ongoing.
func (s *MatchStore) ClaimWaiting(ctx context.Context, matchID, userID string) (ports.Match, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ports.Match{}, fmt.Errorf("%w: begin tx: %v", apperr.ErrStoreFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m, err := scanMatch(tx.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE matchid = $1 FOR UPDATE;`, matchID))
	if err != nil {
		return ports.Match{}, err
	}
	if m.Status != ports.StatusWaiting {
		return ports.Match{}, apperr.ErrMatchNotWaiting
	}

	switch {
	case m.WhiteUser == "":
		m.WhiteUser = userID
	case m.BlackUser == "":
		m.BlackUser = userID
	default:
		return ports.Match{}, apperr.ErrMatchNotWaiting
	}

	updated, err := scanMatch(tx.QueryRow(ctx, `
UPDATE matches SET whiteuser = $2, blackuser = $3, status = 'ongoing'
WHERE matchid = $1
RETURNING `+matchColumns+`;
`, matchID, nullable(m.WhiteUser), nullable(m.BlackUser)))
	if err != nil {
		return ports.Match{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ports.Match{}, fmt.Errorf("%w: commit: %v", apperr.ErrStoreFailure, err)
	}
	return updated, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Get loads a match by id.
func (s *MatchStore) Get(ctx context.Context, matchID string) (ports.Match, error) {
	return scanMatch(s.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE matchid = $1;`, matchID))
}

// UpdateFinish transitions matchID to a terminal status with result/reason.
func (s *MatchStore) UpdateFinish(ctx context.Context, matchID string, status ports.MatchStatus, result ports.MatchResult, reason ports.MatchReason, at time.Time) (ports.Match, error) {
	row := s.db.QueryRow(ctx, `
UPDATE matches SET status = $2, result = $3, reason = $4, finished_at = $5
WHERE matchid = $1
RETURNING `+matchColumns+`;
`, matchID, status, result, reason, at)
	return scanMatch(row)
}

// DeleteStaleWaiting removes waiting matches started before olderThan.
func (s *MatchStore) DeleteStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
DELETE FROM matches WHERE status = 'waiting' AND started_at < $1;
`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("%w: delete stale waiting: %v", apperr.ErrStoreFailure, err)
	}
	return tag.RowsAffected(), nil
}
