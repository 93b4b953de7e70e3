package spectrum

import (
	"time"
)

// ScanSession represents a single seek run over a frequency range.
// Each session captures metadata about when and how the sweep was performed.
type ScanSession struct {
	ID        int64     `yaml:"id"`               // Unique identifier for the session
	StartTime time.Time `yaml:"startTime"`        // When the sweep began
	Radio     string    `yaml:"radio"`            // Radio used, e.g. "sim" or "rtltcp"
	FStart    int64     `yaml:"fstart"`           // First tuned frequency in Hz
	FStop     int64     `yaml:"fstop"`            // Last tuned frequency in Hz
	Bandwidth int64     `yaml:"bandwidth"`        // Sample rate and sweep step in Hz
	Config    *string   `yaml:"config,omitempty"` // Optional configuration the session ran with, YAML encoded
}

// SignalPoint is the strongest level seen at one frequency
type SignalPoint struct {
	Frequency int64   `yaml:"frequency"` // Hz
	Dbfs      float64 `yaml:"dbfs"`
}

// SignalSpan is a run of signal points in ascending frequency order
type SignalSpan struct {
	FrequencyStart int64         `yaml:"frequencyStart"`
	FrequencyEnd   int64         `yaml:"frequencyEnd"`
	Points         []SignalPoint `yaml:"points,omitempty"`
}

// Peak returns the strongest point, the lowest frequency on ties
func (s SignalSpan) Peak() (SignalPoint, bool) {
	if len(s.Points) == 0 {
		return SignalPoint{}, false
	}
	peak := s.Points[0]
	for _, p := range s.Points[1:] {
		if p.Dbfs > peak.Dbfs {
			peak = p
		}
	}
	return peak, true
}
