package db

// PostgreSQL migrations for the run history

var postgresMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_articlegen_runs_table",
		Up: `
			CREATE TABLE IF NOT EXISTS articlegen_runs (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				strict BOOLEAN NOT NULL DEFAULT TRUE,
				row_count INTEGER NOT NULL DEFAULT 0,
				failed_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_articlegen_runs_created_at ON articlegen_runs(created_at);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_articlegen_runs_created_at;
			DROP TABLE IF EXISTS articlegen_runs;
		`,
	},
	{
		Version: 2,
		Name:    "create_articlegen_documents_table",
		Up: `
			CREATE TABLE IF NOT EXISTS articlegen_documents (
				run_id TEXT NOT NULL,
				row_index INTEGER NOT NULL,
				filename TEXT NOT NULL,
				link TEXT NOT NULL,
				passed BOOLEAN NOT NULL,
				PRIMARY KEY (run_id, row_index),
				FOREIGN KEY (run_id) REFERENCES articlegen_runs(id) ON DELETE CASCADE
			);
		`,
		Down: `
			DROP TABLE IF EXISTS articlegen_documents;
		`,
	},
	{
		Version: 3,
		Name:    "add_articlegen_runs_status_index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_articlegen_runs_status ON articlegen_runs(status);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_articlegen_runs_status;
		`,
	},
}
