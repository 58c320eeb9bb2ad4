package storage

// SQL schemas for the normalized telemetry tables.
// Tables: metrics, events, notifications. View: sessions (aggregated from events).
// received_at is UTC text in receivedAtLayout so it sorts lexically.

const sqliteMetricsSchema = `
CREATE TABLE IF NOT EXISTS metrics (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    name TEXT NOT NULL,
    timestamp INTEGER NOT NULL,
    value REAL NOT NULL,

    -- Dimensions from data point attributes
    metric_type TEXT,
    model TEXT,
    tool TEXT,
    decision TEXT,
    language TEXT,
    account_uuid TEXT,
    organization_id TEXT,
    terminal_type TEXT,
    app_version TEXT,
    user_id TEXT,
    user_email TEXT,

    unit TEXT,
    description TEXT,
    resource TEXT,

    received_at TEXT NOT NULL
);
`

const sqliteEventsSchema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    name TEXT NOT NULL,
    timestamp INTEGER NOT NULL,

    duration_ms INTEGER,
    success BOOLEAN,
    error TEXT,
    model TEXT,
    cost_usd REAL,
    input_tokens INTEGER,
    output_tokens INTEGER,
    cache_read_tokens INTEGER,
    cache_creation_tokens INTEGER,
    status_code INTEGER,
    attempt INTEGER,
    tool_name TEXT,
    tool_decision TEXT,
    decision_source TEXT,
    tool_parameters TEXT,
    prompt_length INTEGER,
    prompt TEXT,
    account_uuid TEXT,
    organization_id TEXT,
    terminal_type TEXT,
    app_version TEXT,
    user_id TEXT,
    user_email TEXT,
    event_sequence INTEGER,
    tool_result_size_bytes INTEGER,

    resource TEXT,
    received_at TEXT NOT NULL
);
`

const sqliteNotificationsSchema = `
CREATE TABLE IF NOT EXISTS notifications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    hook_event TEXT NOT NULL,
    notification_type TEXT,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    cwd TEXT,
    transcript_path TEXT,
    is_notified BOOLEAN NOT NULL DEFAULT FALSE,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at INTEGER NOT NULL
);
`

const duckdbMetricsSchema = `
CREATE TABLE IF NOT EXISTS metrics (
    id VARCHAR PRIMARY KEY,
    session_id VARCHAR NOT NULL,
    name VARCHAR NOT NULL,
    timestamp BIGINT NOT NULL,
    value DOUBLE NOT NULL,

    -- Dimensions from data point attributes
    metric_type VARCHAR,
    model VARCHAR,
    tool VARCHAR,
    decision VARCHAR,
    language VARCHAR,
    account_uuid VARCHAR,
    organization_id VARCHAR,
    terminal_type VARCHAR,
    app_version VARCHAR,
    user_id VARCHAR,
    user_email VARCHAR,

    unit VARCHAR,
    description VARCHAR,
    resource VARCHAR,

    received_at VARCHAR NOT NULL
);
`

const duckdbEventsSchema = `
CREATE TABLE IF NOT EXISTS events (
    id VARCHAR PRIMARY KEY,
    session_id VARCHAR NOT NULL,
    name VARCHAR NOT NULL,
    timestamp BIGINT NOT NULL,

    duration_ms BIGINT,
    success BOOLEAN,
    error VARCHAR,
    model VARCHAR,
    cost_usd DOUBLE,
    input_tokens BIGINT,
    output_tokens BIGINT,
    cache_read_tokens BIGINT,
    cache_creation_tokens BIGINT,
    status_code INTEGER,
    attempt INTEGER,
    tool_name VARCHAR,
    tool_decision VARCHAR,
    decision_source VARCHAR,
    tool_parameters VARCHAR,
    prompt_length BIGINT,
    prompt VARCHAR,
    account_uuid VARCHAR,
    organization_id VARCHAR,
    terminal_type VARCHAR,
    app_version VARCHAR,
    user_id VARCHAR,
    user_email VARCHAR,
    event_sequence BIGINT,
    tool_result_size_bytes BIGINT,

    resource VARCHAR,
    received_at VARCHAR NOT NULL
);
`

const duckdbNotificationsSequence = `CREATE SEQUENCE IF NOT EXISTS notifications_id_seq START 1;`

const duckdbNotificationsSchema = `
CREATE TABLE IF NOT EXISTS notifications (
    id BIGINT PRIMARY KEY DEFAULT nextval('notifications_id_seq'),
    session_id VARCHAR NOT NULL,
    hook_event VARCHAR NOT NULL,
    notification_type VARCHAR,
    title VARCHAR NOT NULL,
    message VARCHAR NOT NULL,
    cwd VARCHAR,
    transcript_path VARCHAR,
    is_notified BOOLEAN NOT NULL DEFAULT FALSE,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);
`

// Shared by both engines. Sums are cast so DuckDB does not hand back HUGEINT.
const sessionsView = `
CREATE VIEW IF NOT EXISTS sessions AS
SELECT
    session_id AS id,
    CAST(MIN(timestamp) AS BIGINT) AS start_time,
    CAST(MAX(timestamp) AS BIGINT) AS end_time,
    CAST(MAX(timestamp) - MIN(timestamp) AS BIGINT) AS duration_ms,
    CAST(COUNT(*) AS BIGINT) AS event_count,
    CAST(SUM(CASE WHEN name = 'claude_code.api_request' THEN 1 ELSE 0 END) AS BIGINT) AS api_request_count,
    CAST(SUM(CASE WHEN name = 'claude_code.api_error' THEN 1 ELSE 0 END) AS BIGINT) AS error_count,
    CAST(SUM(CASE WHEN name = 'claude_code.tool_result' THEN 1 ELSE 0 END) AS BIGINT) AS tool_use_count,
    CAST(SUM(CASE WHEN name = 'claude_code.user_prompt' THEN 1 ELSE 0 END) AS BIGINT) AS prompt_count,
    CAST(COALESCE(SUM(cost_usd), 0) AS DOUBLE) AS total_cost_usd,
    CAST(COALESCE(SUM(input_tokens), 0) AS BIGINT) AS total_input_tokens,
    CAST(COALESCE(SUM(output_tokens), 0) AS BIGINT) AS total_output_tokens,
    CAST(COALESCE(SUM(cache_read_tokens), 0) AS BIGINT) AS total_cache_read_tokens,
    MAX(account_uuid) AS account_uuid,
    MAX(organization_id) AS organization_id,
    MAX(terminal_type) AS terminal_type,
    MAX(app_version) AS app_version
FROM events
WHERE session_id <> 'unknown'
GROUP BY session_id;
`

const indexes = `
CREATE INDEX IF NOT EXISTS idx_metrics_session ON metrics(session_id);
CREATE INDEX IF NOT EXISTS idx_metrics_name_timestamp ON metrics(name, timestamp);
CREATE INDEX IF NOT EXISTS idx_metrics_received_at ON metrics(received_at);
CREATE INDEX IF NOT EXISTS idx_events_session_timestamp ON events(session_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);
CREATE INDEX IF NOT EXISTS idx_events_received_at ON events(received_at);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);
`

const duckdbIndexes = `
CREATE INDEX IF NOT EXISTS idx_metrics_name_timestamp ON metrics(name, timestamp);
CREATE INDEX IF NOT EXISTS idx_events_session_timestamp ON events(session_id, timestamp);
`

func schemaStatements(driver Driver) []string {
	if driver == DriverDuckDB {
		// Notifications stay unindexed on DuckDB; they are updated in place.
		return []string{
			duckdbMetricsSchema,
			duckdbEventsSchema,
			duckdbNotificationsSequence,
			duckdbNotificationsSchema,
			sessionsView,
			duckdbIndexes,
		}
	}
	return []string{
		sqliteMetricsSchema,
		sqliteEventsSchema,
		sqliteNotificationsSchema,
		sessionsView,
		indexes,
	}
}
