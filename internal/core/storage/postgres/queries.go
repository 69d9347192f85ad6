package postgres

// SQL for the snapshot tables. The whole cache is rewritten in one transaction,
// matching the wholesale semantics of the file backend.

const (
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'dashboard_records'
		)
	`

	// queryLoadRecords returns records in the order they were saved.
	// Order matters: merge dedup keeps the first occurrence of a key.
	queryLoadRecords = `
		SELECT data
		FROM dashboard_records
		ORDER BY position ASC
	`

	queryLoadLastSync = `SELECT last_sync FROM dashboard_sync_state WHERE id = 1`

	queryDeleteRecords = `DELETE FROM dashboard_records`

	queryInsertRecord = `
		INSERT INTO dashboard_records (
			position, district_code, fin_year, state_name,
			district_name, district_name_hi, data
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	queryUpsertLastSync = `
		INSERT INTO dashboard_sync_state (id, last_sync)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_sync = EXCLUDED.last_sync
	`
)
