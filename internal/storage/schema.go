package storage

const schemaSQL = `
-- Reference data: created lazily on first sight, never mutated.
CREATE TABLE IF NOT EXISTS sites (
    site_id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_name TEXT NOT NULL,
    base_url TEXT UNIQUE NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    path TEXT NOT NULL,
    full_url TEXT UNIQUE NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site_id);

-- One row per invocation; scopes every metric row written in that run.
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_agent TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Per-metric observation tables. Append-only; never updated or deleted.
CREATE TABLE IF NOT EXISTS metric_ssl (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    valid_days INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_title (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    title_length INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_word_count (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    word_count INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    internal_links INTEGER NOT NULL,
    external_links INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    images_without_alt INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_scripts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    external_script_ratio REAL NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    h1_count INTEGER NOT NULL,
    h2_count INTEGER NOT NULL,
    h3_count INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_favicon (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    has_favicon INTEGER NOT NULL,
    extra TEXT
);

CREATE TABLE IF NOT EXISTS metric_meta_keywords (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    measured_at DATETIME NOT NULL,
    keywords_count INTEGER NOT NULL,
    extra TEXT
);

-- Unified summary: one row per scalar metric per run, the uniform query
-- surface across the heterogeneous metric tables.
CREATE TABLE IF NOT EXISTS main_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site_id INTEGER NOT NULL REFERENCES sites(site_id),
    page_id INTEGER NOT NULL REFERENCES pages(page_id),
    run_id INTEGER NOT NULL REFERENCES runs(run_id),
    metric_table TEXT NOT NULL,
    metric_id INTEGER,
    metric_name TEXT NOT NULL,
    metric_value REAL NOT NULL,
    measured_at DATETIME NOT NULL,
    notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_main_results_run ON main_results(run_id);
CREATE INDEX IF NOT EXISTS idx_main_results_page ON main_results(page_id, metric_name);
`
