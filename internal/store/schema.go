package store

import "database/sql"

// migrate creates all tables and indexes if they do not exist.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			active     INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS payments (
			id             TEXT PRIMARY KEY,
			amount         REAL NOT NULL,
			currency       TEXT NOT NULL,
			status         TEXT NOT NULL,
			method         TEXT NOT NULL,
			created_at     INTEGER NOT NULL,
			processed_at   INTEGER,
			customer_id    TEXT,
			customer_name  TEXT NOT NULL DEFAULT '',
			transaction_id TEXT,
			description    TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
		CREATE INDEX IF NOT EXISTS idx_payments_customer ON payments(customer_name);

		CREATE TABLE IF NOT EXISTS jobs (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			status       TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			started_at   INTEGER,
			completed_at INTEGER,
			progress     REAL NOT NULL DEFAULT 0,
			threads      INTEGER NOT NULL DEFAULT 1,
			source_file  TEXT NOT NULL DEFAULT '',
			target_file  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);

		CREATE TABLE IF NOT EXISTS job_errors (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id      TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			ts          INTEGER NOT NULL,
			message     TEXT NOT NULL,
			details     TEXT NOT NULL DEFAULT '',
			stack_trace TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_job_errors_job ON job_errors(job_id);

		CREATE TABLE IF NOT EXISTS job_batches (
			job_id          TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			batch_id        TEXT NOT NULL,
			total_items     INTEGER NOT NULL,
			processed_items INTEGER NOT NULL,
			failed_items    INTEGER NOT NULL,
			start_time      INTEGER,
			end_time        INTEGER,
			PRIMARY KEY (job_id, batch_id)
		);

		CREATE TABLE IF NOT EXISTS activity (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ts          INTEGER NOT NULL,
			type        TEXT NOT NULL,
			description TEXT NOT NULL,
			status      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_activity_ts ON activity(ts DESC);
	`)
	return err
}
