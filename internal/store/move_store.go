package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkers/internal/apperr"
	"checkers/internal/domain"
	"checkers/internal/ports"
)

// postgresUniqueViolation is the Postgres error code for a unique
// constraint violation; see https://www.postgresql.org/docs/current/errcodes-appendix.html.
const postgresUniqueViolation = "23505"

// moveJSON is the wire shape stored in match_moves.move: the three fields
// spec.md requires at minimum, from/to as [row,col] pairs.
type moveJSON struct {
	From       [2]int `json:"from"`
	To         [2]int `json:"to"`
	WasCapture bool   `json:"was_capture"`
}

func toMoveJSON(m domain.Move) moveJSON {
	return moveJSON{
		From:       [2]int{m.From.Row, m.From.Col},
		To:         [2]int{m.To.Row, m.To.Col},
		WasCapture: m.WasCapture,
	}
}

func (m moveJSON) toDomain() domain.Move {
	return domain.Move{
		From:       domain.Pos{Row: m.From[0], Col: m.From[1]},
		To:         domain.Pos{Row: m.To[0], Col: m.To[1]},
		WasCapture: m.WasCapture,
	}
}

// MoveStore persists the append-only move log.
type MoveStore struct {
	db *pgxpool.Pool
}

// NewMoveStore builds a MoveStore over db.
func NewMoveStore(db *pgxpool.Pool) *MoveStore {
	return &MoveStore{db: db}
}

// Append locks the match row, computes the next contiguous move_number, and
// inserts the move, all in one transaction so numbering never gaps under
// concurrent appenders. A concurrent appender waits on the row lock and,
// once it holds it, computes the number after this one's. A unique
// violation on (matchid, move_number), which only a writer that skipped
// the lock can cause, is mapped to apperr.ErrNumberingConflict.
func (s *MoveStore) Append(ctx context.Context, matchID string, player domain.Role, move domain.Move) (ports.MatchMove, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ports.MatchMove{}, fmt.Errorf("%w: begin tx: %v", apperr.ErrStoreFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, `SELECT matchid FROM matches WHERE matchid = $1 FOR UPDATE`, matchID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.MatchMove{}, apperr.ErrMatchNotFound
		}
		return ports.MatchMove{}, fmt.Errorf("%w: lock match: %v", apperr.ErrStoreFailure, err)
	}

	var nextNumber int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(move_number), 0) + 1 FROM match_moves WHERE matchid = $1`, matchID).Scan(&nextNumber); err != nil {
		return ports.MatchMove{}, fmt.Errorf("%w: compute move number: %v", apperr.ErrStoreFailure, err)
	}

	payload, err := json.Marshal(toMoveJSON(move))
	if err != nil {
		return ports.MatchMove{}, fmt.Errorf("%w: marshal move: %v", apperr.ErrStoreFailure, err)
	}

	var row ports.MatchMove
	err = tx.QueryRow(ctx, `
INSERT INTO match_moves (matchid, move_number, player, move)
VALUES ($1, $2, $3, $4)
RETURNING id, matchid, move_number, player, move, created_at;
`, matchID, nextNumber, player, payload).Scan(
		&row.ID, &row.MatchID, &row.MoveNumber, &row.Player, &payload, &row.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation {
			return ports.MatchMove{}, apperr.ErrNumberingConflict
		}
		return ports.MatchMove{}, fmt.Errorf("%w: insert move: %v", apperr.ErrStoreFailure, err)
	}

	var mj moveJSON
	if err := json.Unmarshal(payload, &mj); err != nil {
		return ports.MatchMove{}, fmt.Errorf("%w: unmarshal move: %v", apperr.ErrStoreFailure, err)
	}
	row.Move = mj.toDomain()

	if err := tx.Commit(ctx); err != nil {
		return ports.MatchMove{}, fmt.Errorf("%w: commit: %v", apperr.ErrStoreFailure, err)
	}
	return row, nil
}

// Load returns the full move log for matchID in move_number order.
func (s *MoveStore) Load(ctx context.Context, matchID string) ([]ports.MatchMove, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, matchid, move_number, player, move, created_at
FROM match_moves
WHERE matchid = $1
ORDER BY move_number ASC;
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: query moves: %v", apperr.ErrStoreFailure, err)
	}
	defer rows.Close()

	var out []ports.MatchMove
	for rows.Next() {
		var row ports.MatchMove
		var payload []byte
		if err := rows.Scan(&row.ID, &row.MatchID, &row.MoveNumber, &row.Player, &payload, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan move: %v", apperr.ErrStoreFailure, err)
		}
		var mj moveJSON
		if err := json.Unmarshal(payload, &mj); err != nil {
			return nil, fmt.Errorf("%w: unmarshal move: %v", apperr.ErrStoreFailure, err)
		}
		row.Move = mj.toDomain()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate moves: %v", apperr.ErrStoreFailure, err)
	}
	return out, nil
}
