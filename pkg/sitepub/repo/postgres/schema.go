package postgres

import "context"

// Schema is the DDL the repository expects. The unique constraints are load
// bearing: they are what closes the check-then-insert race on section
// versions and blog slugs.
const Schema = `
CREATE TABLE IF NOT EXISTS section (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL,
	version     TEXT NOT NULL CHECK (version ~ '^\d+\.\d+\.\d+$'),
	is_active   BOOLEAN NOT NULL DEFAULT FALSE,
	payload     JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	CONSTRAINT section_kind_version_key UNIQUE (kind, version)
);

CREATE INDEX IF NOT EXISTS section_kind_active_idx ON section (kind) WHERE is_active;

CREATE TABLE IF NOT EXISTS blog (
	id             UUID PRIMARY KEY,
	slug           TEXT NOT NULL,
	title          TEXT NOT NULL,
	excerpt        TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL,
	content_type   TEXT NOT NULL,
	featured_image JSONB,
	images         JSONB NOT NULL DEFAULT '[]'::jsonb,
	author         JSONB NOT NULL,
	categories     TEXT[] NOT NULL DEFAULT '{}',
	tags           TEXT[] NOT NULL DEFAULT '{}',
	status         TEXT NOT NULL,
	published_at   TIMESTAMPTZ,
	view_count     BIGINT NOT NULL DEFAULT 0 CHECK (view_count >= 0),
	seo            JSONB,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	CONSTRAINT blog_slug_key UNIQUE (slug)
);

CREATE INDEX IF NOT EXISTS blog_status_idx ON blog (status);

CREATE TABLE IF NOT EXISTS testimonial (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT '',
	company       TEXT NOT NULL DEFAULT '',
	quote         TEXT NOT NULL,
	image         TEXT NOT NULL DEFAULT '',
	rating        INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	industry      TEXT NOT NULL DEFAULT '',
	company_size  TEXT NOT NULL DEFAULT '',
	active        BOOLEAN NOT NULL DEFAULT FALSE,
	featured      BOOLEAN NOT NULL DEFAULT FALSE,
	display_order INT NOT NULL DEFAULT 0,
	tags          TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, Schema)
	return err
}
