// Package store implements ports.MatchStore and ports.MoveStore against
// Postgres via pgx, following the row-lock-then-insert transaction shape
// the move log's contiguous numbering requires.
package store

// Schema is the DDL the server expects to already exist. It is not applied
// automatically; a deployment runs it once via its own migration step.
const Schema = `
CREATE TYPE match_status AS ENUM ('waiting', 'ongoing', 'finished', 'aborted');
CREATE TYPE match_result AS ENUM ('white', 'black', 'draw', 'none');
CREATE TYPE match_reason AS ENUM ('normal', 'resign', 'timeout', 'agreement', 'abandon', 'none');
CREATE TYPE match_player AS ENUM ('white', 'black');

CREATE TABLE matches (
	matchid     UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ,
	whiteuser   TEXT REFERENCES users(id),
	blackuser   TEXT REFERENCES users(id),
	result      match_result NOT NULL DEFAULT 'none',
	reason      match_reason NOT NULL DEFAULT 'none',
	status      match_status NOT NULL DEFAULT 'waiting'
);

CREATE TABLE match_moves (
	id          BIGSERIAL PRIMARY KEY,
	matchid     UUID NOT NULL REFERENCES matches(matchid),
	move_number BIGINT NOT NULL,
	player      match_player NOT NULL,
	move        JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (matchid, move_number)
);
`
