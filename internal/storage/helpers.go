package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/sigscan/internal/spectrum"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func toConfigData(config any) (sql.NullString, error) {
	var data sql.NullString

	switch v := config.(type) {
	case nil:
		return data, nil

	case string:
		data.String = v

	case []byte:
		data.String = string(v)

	default:
		p, err := yaml.Marshal(v)
		if err != nil {
			return data, fmt.Errorf("marshaling config: %w", err)
		}
		data.String = string(p)
	}

	data.Valid = true
	return data, nil
}

func toSignalData(sessionID int64, at time.Time, p spectrum.SignalPoint) signalData {
	return signalData{
		SessionID: sessionID,
		Timestamp: at.UTC(),
		Frequency: p.Frequency,
		Dbfs:      p.Dbfs,
	}
}

func toScanSession(data sessionData) *spectrum.ScanSession {
	session := spectrum.ScanSession{
		ID:        data.ID,
		StartTime: data.StartTime,
		Radio:     data.Radio,
		FStart:    data.FStart,
		FStop:     data.FStop,
		Bandwidth: data.Bandwidth,
	}
	if data.Config.Valid {
		session.Config = &data.Config.String
	}
	return &session
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*spectrum.ScanSession, error) {
	var data sessionData
	err := row.Scan(&data.ID, &data.StartTime, &data.Radio, &data.FStart, &data.FStop, &data.Bandwidth, &data.Config)
	if err != nil {
		return nil, err
	}
	return toScanSession(data), nil
}
