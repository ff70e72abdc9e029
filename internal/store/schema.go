package store

const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS papers (
	id INTEGER PRIMARY KEY,
	type TEXT NOT NULL DEFAULT 'article',
	title TEXT NOT NULL,
	year INTEGER NOT NULL DEFAULT 0,
	book_title TEXT NOT NULL DEFAULT '',
	pages TEXT NOT NULL DEFAULT '',
	publisher TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS papers_by_year ON papers(year);
CREATE INDEX IF NOT EXISTS papers_by_book_title ON papers(book_title);

CREATE TABLE IF NOT EXISTS authors (
	id INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS paper_authors (
	paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
	author_id INTEGER NOT NULL REFERENCES authors(id),
	position INTEGER NOT NULL,
	PRIMARY KEY(paper_id, author_id)
);

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS paper_tags (
	paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
	tag_id INTEGER NOT NULL REFERENCES tags(id),
	PRIMARY KEY(paper_id, tag_id)
);

CREATE INDEX IF NOT EXISTS paper_authors_by_author ON paper_authors(author_id);
CREATE INDEX IF NOT EXISTS paper_tags_by_tag ON paper_tags(tag_id);
`
