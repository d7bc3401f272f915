package store

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL DEFAULT '',
    category   TEXT NOT NULL,
    likes      INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
    shares     INTEGER NOT NULL DEFAULT 0 CHECK (shares >= 0),
    timestamp  TEXT NOT NULL,
    added_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);

CREATE TABLE IF NOT EXISTS category_weights (
    category   TEXT PRIMARY KEY,
    weight     REAL NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
