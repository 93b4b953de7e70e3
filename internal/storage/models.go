package storage

import (
	"database/sql"
	"time"
)

type sessionData struct {
	ID        int64
	StartTime time.Time
	Radio     string
	FStart    int64
	FStop     int64
	Bandwidth int64
	Config    sql.NullString
}

type signalData struct {
	ID        int64
	SessionID int64
	Timestamp time.Time
	Frequency int64
	Dbfs      float64
}
