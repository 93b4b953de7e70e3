package storage

import (
	"context"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/sigscan/internal/spectrum"
)

// Store provides an interface for recording seek sessions and the max-hold
// signal levels they find.
type Store interface {
	// CreateSession initializes a new seek session and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - radio: Radio used for the sweep (e.g., "sim", "rtltcp")
	//   - fstart, fstop, bandwidth: Swept range and step in Hz
	//   - config: Optional configuration. Can be string, []byte, or a YAML-serializable value
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, radio string, fstart, fstop, bandwidth int64, config any) (sessionID int64, err error)

	// Session retrieves a specific session by its ID. ErrNoData is returned when
	// the session does not exist.
	Session(ctx context.Context, id int64) (session *spectrum.ScanSession, err error)

	// Sessions returns all sessions ordered by start time.
	Sessions(ctx context.Context) (sessions []*spectrum.ScanSession, err error)

	// RecordSignals saves the levels that raised the max-hold map in one
	// atomic transaction.
	RecordSignals(ctx context.Context, sessionID int64, at time.Time, points []spectrum.SignalPoint) error

	// ReadSignalMap returns the strongest level recorded for every frequency
	// of a session, in ascending frequency order.
	ReadSignalMap(ctx context.Context, sessionID int64, opts ...ReaderOption) (*spectrum.SignalSpan, error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}

var _ Store = (*SqliteStore)(nil)
