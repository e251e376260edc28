package sqlite

// Migrations returns the schema statements in execution order.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS credit_accounts (
			user_id    TEXT PRIMARY KEY,
			balance    INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS credit_transactions (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES credit_accounts(user_id),
			amount      INTEGER NOT NULL,
			type        TEXT NOT NULL CHECK (type IN ('PURCHASE','BONUS','CONSUMPTION')),
			description TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_user_created
			ON credit_transactions(user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS skill_configs (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			version      TEXT NOT NULL DEFAULT 'v1',
			cost         INTEGER NOT NULL DEFAULT 0 CHECK (cost >= 0),
			is_active    INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS skill_executions (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			skill_name      TEXT NOT NULL,
			transaction_id  TEXT REFERENCES credit_transactions(id) ON DELETE SET NULL,
			primary_keyword TEXT NOT NULL DEFAULT '',
			input_json      TEXT NOT NULL DEFAULT '{}',
			output_json     TEXT NOT NULL DEFAULT '{}',
			status          TEXT NOT NULL CHECK (status IN ('success','failure')),
			latency_ms      INTEGER NOT NULL DEFAULT 0,
			model_used      TEXT NOT NULL DEFAULT '',
			provider        TEXT NOT NULL DEFAULT '',
			tokens_used     INTEGER NOT NULL DEFAULT 0,
			created_at      TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exec_waiver
			ON skill_executions(user_id, skill_name, status, primary_keyword)`,
	}
}
