package store

// schema is applied at startup; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS websites (
	id                   UUID PRIMARY KEY,
	user_id              UUID NOT NULL,
	business_name        TEXT NOT NULL,
	business_description TEXT NOT NULL,
	industry             TEXT NOT NULL DEFAULT 'ecommerce',
	contact_email        TEXT NOT NULL,
	contact_phone        TEXT NOT NULL,
	address              TEXT NOT NULL,
	logo_image           TEXT,
	hero_image           TEXT,
	products             JSONB NOT NULL DEFAULT '[]',
	colors               JSONB NOT NULL DEFAULT '{}',
	social_links         JSONB NOT NULL DEFAULT '{}',
	slug                 TEXT NOT NULL,
	is_active            BOOLEAN NOT NULL DEFAULT TRUE,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- not unique: slug disambiguation happens in the application
CREATE INDEX IF NOT EXISTS idx_websites_user_slug ON websites (user_id, slug);
CREATE INDEX IF NOT EXISTS idx_websites_user_created ON websites (user_id, created_at);

CREATE TABLE IF NOT EXISTS auth_verifications (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	email      TEXT NOT NULL,
	code       TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	used       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_auth_verifications_user ON auth_verifications (user_id, created_at DESC);
`
