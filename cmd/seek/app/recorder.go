package app

import (
	"context"
	"time"

	"github.com/roman-kulish/sigscan/internal/spectrum"
	"github.com/roman-kulish/sigscan/internal/storage"
	"github.com/roman-kulish/sigscan/internal/visualizer"
)

// Recorder stores every max-hold update of a seek session
type Recorder struct {
	ctx       context.Context
	store     storage.Store
	sessionID int64
	now       func() time.Time
}

var _ visualizer.Recorder = (*Recorder)(nil)

// NewRecorder records into sessionID of store. ctx bounds every write.
func NewRecorder(ctx context.Context, store storage.Store, sessionID int64) *Recorder {
	return &Recorder{
		ctx:       ctx,
		store:     store,
		sessionID: sessionID,
		now:       time.Now,
	}
}

func (r *Recorder) Record(signals []visualizer.Signal) error {
	points := make([]spectrum.SignalPoint, len(signals))
	for i, s := range signals {
		points[i] = spectrum.SignalPoint{Frequency: s.Frequency, Dbfs: s.Dbfs}
	}
	return r.store.RecordSignals(r.ctx, r.sessionID, r.now(), points)
}
