// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sqlitedb

const schema = `
CREATE TABLE IF NOT EXISTS event (
	instruction BLOB(32) NOT NULL,
	idx         INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	poolID      INTEGER NOT NULL,
	time        INTEGER NOT NULL,
	wallet      BLOB(20),
	amount      INTEGER NOT NULL,
	day         INTEGER,
	passed      INTEGER,
	status      TEXT NOT NULL,
	PRIMARY KEY (instruction, idx)
);
CREATE INDEX IF NOT EXISTS event_pool ON event(poolID, time);

CREATE TABLE IF NOT EXISTS pool (
	id           INTEGER PRIMARY KEY,
	creator      BLOB(20) NOT NULL,
	stake        INTEGER NOT NULL,
	status       TEXT NOT NULL,
	participants INTEGER NOT NULL DEFAULT 0,
	createdAt    INTEGER NOT NULL,
	startedAt    INTEGER,
	finalValue   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS participant (
	poolID       INTEGER NOT NULL,
	wallet       BLOB(20) NOT NULL,
	status       TEXT NOT NULL,
	stake        INTEGER NOT NULL,
	daysVerified INTEGER NOT NULL DEFAULT 0,
	payout       INTEGER NOT NULL DEFAULT 0,
	joinedAt     INTEGER NOT NULL,
	PRIMARY KEY (poolID, wallet)
);
`
