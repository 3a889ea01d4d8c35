package store

// migrationV1 creates every table and index named in §4.3. Run once,
// gated by the PRAGMA user_version counter in database.go.
var migrationV1 = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_uuid TEXT NOT NULL,
		started_at TEXT NOT NULL,
		tool_version TEXT NOT NULL,
		config_json TEXT NOT NULL,
		source TEXT NOT NULL,
		spine TEXT NOT NULL,
		depth INTEGER NOT NULL,
		stats_json TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS papers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		source_id TEXT NOT NULL,
		doi TEXT,
		arxiv_id TEXT,
		title TEXT NOT NULL,
		abstract TEXT,
		year INTEGER,
		venue TEXT,
		url TEXT,
		citation_count INTEGER NOT NULL DEFAULT 0,
		influence_score REAL NOT NULL DEFAULT 0,
		keywords_json TEXT,
		concepts_json TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_papers_source_sourceid ON papers(source, source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_arxiv_id ON papers(arxiv_id)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_source_id ON papers(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		src INTEGER NOT NULL REFERENCES papers(id),
		dst INTEGER NOT NULL REFERENCES papers(id),
		type TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 0,
		confidence REAL NOT NULL DEFAULT 0,
		rationale TEXT,
		evidence TEXT,
		created_by TEXT NOT NULL,
		provenance_json TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_src ON edges(src)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges(dst)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(type)`,
	`CREATE TABLE IF NOT EXISTS authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS paper_authors (
		paper_id INTEGER NOT NULL REFERENCES papers(id),
		author_id INTEGER NOT NULL REFERENCES authors(id),
		PRIMARY KEY (paper_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS clusters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		method TEXT NOT NULL,
		name TEXT,
		description TEXT,
		stats_json TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS paper_clusters (
		cluster_id INTEGER NOT NULL REFERENCES clusters(id),
		paper_id INTEGER NOT NULL REFERENCES papers(id),
		PRIMARY KEY (cluster_id, paper_id)
	)`,
	`CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		aliases_json TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS paper_entities (
		paper_id INTEGER NOT NULL REFERENCES papers(id),
		entity_id INTEGER NOT NULL REFERENCES entities(id),
		role TEXT NOT NULL,
		PRIMARY KEY (paper_id, entity_id, role)
	)`,
}
