package postgresql

// migrations returns the ordered schema migrations for the workflow store.
// Triggers and actions are embedded as JSONB: they are only ever read as part
// of their workflow, and the engine treats the whole workflow as one
// read-only configuration snapshot.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				evaluation_order INTEGER NOT NULL DEFAULT 0,
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				triggers JSONB NOT NULL DEFAULT '[]',
				actions JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_enabled_order
				ON workflows (enabled, evaluation_order, id);
		`,
		2: `
			CREATE TABLE IF NOT EXISTS documents (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL DEFAULT '',
				filename TEXT NOT NULL DEFAULT '',
				path TEXT NOT NULL DEFAULT '',
				correspondent TEXT NOT NULL DEFAULT '',
				document_type TEXT NOT NULL DEFAULT '',
				storage_path TEXT NOT NULL DEFAULT '',
				owner TEXT NOT NULL DEFAULT '',
				tags JSONB NOT NULL DEFAULT '[]',
				view_users JSONB NOT NULL DEFAULT '[]',
				view_groups JSONB NOT NULL DEFAULT '[]',
				change_users JSONB NOT NULL DEFAULT '[]',
				change_groups JSONB NOT NULL DEFAULT '[]',
				custom_fields JSONB NOT NULL DEFAULT '[]',
				created TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				added TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				modified TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS identities (
				kind TEXT NOT NULL,
				id TEXT NOT NULL,
				PRIMARY KEY (kind, id)
			);
		`,
	}
}
