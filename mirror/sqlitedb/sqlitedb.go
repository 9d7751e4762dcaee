// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sqlitedb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// payout statuses that do not name a participant
const (
	payoutCharity = "charity"
	payoutYield   = "yield"
)

// SQLiteDB indexes program events into queryable tables.
type SQLiteDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

var _ mirror.Sink = (*SQLiteDB)(nil)

// New open a sqlite db at path.
func New(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &SQLiteDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db.
func NewMem() (*SQLiteDB, error) {
	return New(":memory:")
}

func (db *SQLiteDB) Name() string {
	return "sqlite"
}

// Path return db's path
func (db *SQLiteDB) Path() string {
	return db.path
}

// Close close sqlite
func (db *SQLiteDB) Close() error {
	return db.db.Close()
}

// Write stores the events and folds them into the pool and participant tables.
func (db *SQLiteDB) Write(ctx context.Context, events []*mirror.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := insertEvent(ctx, tx, ev); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %s event", ev.Kind)
		}
		if err := apply(ctx, tx, ev); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "apply %s event", ev.Kind)
		}
	}
	return tx.Commit()
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev *mirror.Event) error {
	var (
		wallet []byte
		day    sql.NullInt64
		passed sql.NullBool
	)
	if ev.Wallet != nil {
		wallet = ev.Wallet.Bytes()
	}
	if ev.Day != nil {
		day = sql.NullInt64{Int64: int64(*ev.Day), Valid: true}
	}
	if ev.Passed != nil {
		passed = sql.NullBool{Bool: *ev.Passed, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO event(instruction, idx, kind, poolID, time, wallet, amount, day, passed, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
		ev.Instruction.Bytes(),
		ev.Index,
		ev.Kind,
		ev.PoolID,
		ev.Time,
		wallet,
		ev.Amount,
		day,
		passed,
		ev.Status,
	)
	return err
}

func apply(ctx context.Context, tx *sql.Tx, ev *mirror.Event) error {
	var (
		stmt string
		args []any
	)
	wallet := func() []byte {
		if ev.Wallet == nil {
			return nil
		}
		return ev.Wallet.Bytes()
	}
	switch program.EventKind(ev.Kind) {
	case program.EventPoolCreated:
		stmt = "INSERT OR REPLACE INTO pool(id, creator, stake, status, createdAt) VALUES (?, ?, ?, 'recruiting', ?);"
		args = []any{ev.PoolID, wallet(), ev.Amount, ev.Time}
	case program.EventParticipantJoined:
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO participant(poolID, wallet, status, stake, joinedAt) VALUES (?, ?, 'active', ?, ?);",
			ev.PoolID, wallet(), ev.Amount, ev.Time); err != nil {
			return err
		}
		stmt = "UPDATE pool SET participants = participants + 1 WHERE id = ?;"
		args = []any{ev.PoolID}
	case program.EventPoolActivated:
		stmt = "UPDATE pool SET status = 'active', startedAt = ? WHERE id = ?;"
		args = []any{ev.Time, ev.PoolID}
	case program.EventPoolEnded:
		stmt = "UPDATE pool SET status = 'ended' WHERE id = ?;"
		args = []any{ev.PoolID}
	case program.EventPoolExpired:
		stmt = "UPDATE pool SET status = 'expired', finalValue = ? WHERE id = ?;"
		args = []any{ev.Amount, ev.PoolID}
	case program.EventPoolSettled:
		stmt = "UPDATE pool SET status = 'settled', finalValue = ? WHERE id = ?;"
		args = []any{ev.Amount, ev.PoolID}
	case program.EventVerificationRecorded:
		stmt = "UPDATE participant SET status = ?, daysVerified = ? WHERE poolID = ? AND wallet = ?;"
		args = []any{ev.Status, ev.Amount, ev.PoolID, wallet()}
	case program.EventParticipantForfeited:
		stmt = "UPDATE participant SET status = 'forfeit' WHERE poolID = ? AND wallet = ?;"
		args = []any{ev.PoolID, wallet()}
	case program.EventStakeRefunded:
		stmt = "UPDATE participant SET status = CASE status WHEN 'active' THEN 'forfeit' ELSE status END, payout = ? WHERE poolID = ? AND wallet = ?;"
		args = []any{ev.Amount, ev.PoolID, wallet()}
	case program.EventPayoutSent:
		if ev.Status == payoutCharity || ev.Status == payoutYield {
			return nil
		}
		stmt = "UPDATE participant SET status = ?, payout = ? WHERE poolID = ? AND wallet = ?;"
		args = []any{ev.Status, ev.Amount, ev.PoolID, wallet()}
	default:
		return nil
	}
	_, err := tx.ExecContext(ctx, stmt, args...)
	return err
}

// Pool is the indexed summary of a pool.
type Pool struct {
	ID           uint64       `json:"id"`
	Creator      pact.Address `json:"creator"`
	Stake        uint64       `json:"stake"`
	Status       string       `json:"status"`
	Participants uint64       `json:"participants"`
	CreatedAt    uint64       `json:"createdAt"`
	StartedAt    *uint64      `json:"startedAt,omitempty"`
	FinalValue   uint64       `json:"finalValue"`
}

// Participant is the indexed summary of a membership.
type Participant struct {
	PoolID       uint64       `json:"poolId"`
	Wallet       pact.Address `json:"wallet"`
	Status       string       `json:"status"`
	Stake        uint64       `json:"stake"`
	DaysVerified uint64       `json:"daysVerified"`
	Payout       uint64       `json:"payout"`
	JoinedAt     uint64       `json:"joinedAt"`
}

// Pools lists pools in id order, filtered by status when not empty.
func (db *SQLiteDB) Pools(ctx context.Context, status string) ([]*Pool, error) {
	stmt := "SELECT id, creator, stake, status, participants, createdAt, startedAt, finalValue FROM pool"
	var args []any
	if status != "" {
		stmt += " WHERE status = ?"
		args = append(args, status)
	}
	rows, err := db.db.QueryContext(ctx, stmt+" ORDER BY id;", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []*Pool
	for rows.Next() {
		var (
			p         Pool
			creator   []byte
			startedAt sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &creator, &p.Stake, &p.Status, &p.Participants, &p.CreatedAt, &startedAt, &p.FinalValue); err != nil {
			return nil, err
		}
		p.Creator = pact.BytesToAddress(creator)
		if startedAt.Valid {
			v := uint64(startedAt.Int64)
			p.StartedAt = &v
		}
		pools = append(pools, &p)
	}
	return pools, rows.Err()
}

// ParticipantsOf lists the members of a pool in join order.
func (db *SQLiteDB) ParticipantsOf(ctx context.Context, poolID uint64) ([]*Participant, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT poolID, wallet, status, stake, daysVerified, payout, joinedAt FROM participant WHERE poolID = ? ORDER BY joinedAt, rowid;",
		poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		var (
			p      Participant
			wallet []byte
		)
		if err := rows.Scan(&p.PoolID, &wallet, &p.Status, &p.Stake, &p.DaysVerified, &p.Payout, &p.JoinedAt); err != nil {
			return nil, err
		}
		p.Wallet = pact.BytesToAddress(wallet)
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}

// Events lists the events of a pool in commit order, at most limit.
func (db *SQLiteDB) Events(ctx context.Context, poolID uint64, limit int) ([]*mirror.Event, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT instruction, idx, kind, poolID, time, wallet, amount, day, passed, status FROM event WHERE poolID = ? ORDER BY rowid LIMIT ?;",
		poolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*mirror.Event
	for rows.Next() {
		var (
			ev          mirror.Event
			instruction []byte
			wallet      []byte
			day         sql.NullInt64
			passed      sql.NullBool
		)
		if err := rows.Scan(&instruction, &ev.Index, &ev.Kind, &ev.PoolID, &ev.Time, &wallet, &ev.Amount, &day, &passed, &ev.Status); err != nil {
			return nil, err
		}
		ev.Instruction = pact.BytesToBytes32(instruction)
		if wallet != nil {
			addr := pact.BytesToAddress(wallet)
			ev.Wallet = &addr
		}
		if day.Valid {
			v := uint64(day.Int64)
			ev.Day = &v
		}
		if passed.Valid {
			v := passed.Bool
			ev.Passed = &v
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
