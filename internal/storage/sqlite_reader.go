package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/sigscan/internal/spectrum"
)

// DefaultBatchSize is the number of frequencies fetched per page
const DefaultBatchSize = 4096

// SignalReader provides an iterator-based interface for reading the max-hold
// map of a session with optional frequency and level filtering.
type SignalReader interface {
	// Next advances the iterator and returns true if there is another point
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current point in the iteration.
	Current() spectrum.SignalPoint

	// Error returns any error that occurred during iteration.
	Error() error

	// Close releases any resources associated with the reader.
	Close() error
}

// ReaderOption configures a SqliteSignalReader with specific filtering criteria.
type ReaderOption func(*SqliteSignalReader)

// WithFreqRange limits the reader to frequencies in [minFreq, maxFreq]
func WithFreqRange(minFreq, maxFreq int64) ReaderOption {
	return func(r *SqliteSignalReader) {
		r.minFreq = minFreq
		r.maxFreq = maxFreq
	}
}

// WithMinDbfs skips frequencies whose strongest level is below v
func WithMinDbfs(v float64) ReaderOption {
	return func(r *SqliteSignalReader) {
		r.minDbfs = v
	}
}

// WithBatchSize sets how many frequencies are fetched per query
func WithBatchSize(n int) ReaderOption {
	return func(r *SqliteSignalReader) {
		r.batchSize = n
	}
}

var _ SignalReader = (*SqliteSignalReader)(nil)

// SqliteSignalReader implements SignalReader for the SQLite backend. Pages
// are fetched with keyset pagination on the frequency, so the reader never
// holds a query open across pages.
type SqliteSignalReader struct {
	db        *sql.DB
	stmt      *sql.Stmt
	sessionID int64

	minFreq   int64
	maxFreq   int64
	minDbfs   float64
	batchSize int

	page    []spectrum.SignalPoint
	pos     int
	last    int64 // last frequency read, the lower bound of the next page
	done    bool
	current spectrum.SignalPoint
	err     error
}

func newSqliteSignalReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*SqliteSignalReader, error) {
	sr := &SqliteSignalReader{
		db:        db,
		sessionID: sessionID,
		minFreq:   0,
		maxFreq:   math.MaxInt64,
		minDbfs:   -math.MaxFloat64,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(sr)
	}
	if err := sr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return sr, nil
}

func (sr *SqliteSignalReader) init(ctx context.Context) (err error) {
	if sr.db == nil {
		return errors.New("database connection required")
	}
	if sr.sessionID <= 0 {
		return errors.New("session ID required")
	}
	if sr.minFreq > sr.maxFreq {
		return fmt.Errorf("min frequency %d is greater than max frequency %d", sr.minFreq, sr.maxFreq)
	}
	if sr.batchSize <= 0 {
		return fmt.Errorf("batch size must be positive: %d", sr.batchSize)
	}

	if sr.stmt, err = sr.db.PrepareContext(ctx, selectSignalMapSQL); err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	// the query bound is exclusive
	sr.last = sr.minFreq - 1
	return nil
}

func (sr *SqliteSignalReader) fetch(ctx context.Context) (err error) {
	rows, err := sr.stmt.QueryContext(ctx, sr.sessionID, sr.last, sr.maxFreq, sr.minDbfs, sr.batchSize)
	if err != nil {
		return fmt.Errorf("querying signals: %w", err)
	}
	defer closeWithError(rows, &err)

	sr.page = sr.page[:0]
	sr.pos = 0

	for rows.Next() {
		var p spectrum.SignalPoint
		if err = rows.Scan(&p.Frequency, &p.Dbfs); err != nil {
			return fmt.Errorf("scanning signal: %w", err)
		}
		sr.page = append(sr.page, p)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	if len(sr.page) < sr.batchSize {
		sr.done = true
	}
	if len(sr.page) > 0 {
		sr.last = sr.page[len(sr.page)-1].Frequency
	}
	return nil
}

func (sr *SqliteSignalReader) Next(ctx context.Context) bool {
	if sr.err != nil || sr.stmt == nil {
		return false
	}

	if sr.pos >= len(sr.page) {
		if sr.done {
			return false
		}
		if sr.err = ctx.Err(); sr.err != nil {
			return false
		}
		if sr.err = sr.fetch(ctx); sr.err != nil {
			return false
		}
		if len(sr.page) == 0 {
			return false
		}
	}

	sr.current = sr.page[sr.pos]
	sr.pos++
	return true
}

func (sr *SqliteSignalReader) Current() spectrum.SignalPoint {
	return sr.current
}

func (sr *SqliteSignalReader) Error() error {
	return sr.err
}

func (sr *SqliteSignalReader) Close() error {
	if sr.stmt != nil {
		err := sr.stmt.Close()
		sr.stmt = nil
		sr.page = nil
		return err
	}
	return nil
}
