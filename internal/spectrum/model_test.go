package spectrum

import "testing"

func TestSignalSpan_Peak(t *testing.T) {
	testCases := []struct {
		name   string
		points []SignalPoint
		peak   SignalPoint
		ok     bool
	}{
		{name: "empty"},
		{
			name:   "single",
			points: []SignalPoint{{Frequency: 433_920_000, Dbfs: 3}},
			peak:   SignalPoint{Frequency: 433_920_000, Dbfs: 3},
			ok:     true,
		},
		{
			name: "strongest",
			points: []SignalPoint{
				{Frequency: 100_000_000, Dbfs: 1},
				{Frequency: 100_100_000, Dbfs: 12.5},
				{Frequency: 100_200_000, Dbfs: 7},
			},
			peak: SignalPoint{Frequency: 100_100_000, Dbfs: 12.5},
			ok:   true,
		},
		{
			name: "tie goes to the lowest frequency",
			points: []SignalPoint{
				{Frequency: 100_000_000, Dbfs: 9},
				{Frequency: 100_100_000, Dbfs: 9},
			},
			peak: SignalPoint{Frequency: 100_000_000, Dbfs: 9},
			ok:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			peak, ok := SignalSpan{Points: tc.points}.Peak()
			if ok != tc.ok || peak != tc.peak {
				t.Errorf("expected %+v/%v, got %+v/%v", tc.peak, tc.ok, peak, ok)
			}
		})
	}
}
