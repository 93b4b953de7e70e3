package storage

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions
(
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time TIMESTAMP NOT NULL,
    radio      TEXT      NOT NULL,
    fstart     INTEGER   NOT NULL,
    fstop      INTEGER   NOT NULL,
    bandwidth  INTEGER   NOT NULL,
    config     TEXT
);

CREATE TABLE IF NOT EXISTS signals
(
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER   NOT NULL REFERENCES sessions (id),
    timestamp  TIMESTAMP NOT NULL,
    frequency  INTEGER   NOT NULL,
    dbfs       REAL      NOT NULL
);`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_signals_session_frequency ON signals (session_id, frequency);`

	insertSessionSQL = `
INSERT INTO sessions (start_time,
                      radio,
                      fstart,
                      fstop,
                      bandwidth,
                      config)
VALUES (?, ?, ?, ?, ?, ?)`

	selectSessionSQL = `
SELECT id,
       start_time,
       radio,
       fstart,
       fstop,
       bandwidth,
       config
FROM sessions
WHERE id = ?`

	selectSessionsSQL = `
SELECT id,
       start_time,
       radio,
       fstart,
       fstop,
       bandwidth,
       config
FROM sessions
ORDER BY start_time, id`

	insertSignalSQL = `
INSERT INTO signals (session_id,
                     timestamp,
                     frequency,
                     dbfs)
VALUES `

	// keyset pagination over the max-hold value of every frequency
	selectSignalMapSQL = `
SELECT frequency,
       MAX(dbfs) AS dbfs
FROM signals
WHERE session_id = ?
  AND frequency > ?
  AND frequency <= ?
GROUP BY frequency
HAVING MAX(dbfs) >= ?
ORDER BY frequency
LIMIT ?`
)
