package visualizer

import (
	"slices"
)

// SignalMap keeps the best level seen per absolute frequency. Values only
// ever increase and entries are never removed.
type SignalMap struct {
	levels map[int64]float64
	keys   []int64 // ascending
}

func NewSignalMap() *SignalMap {
	return &SignalMap{levels: make(map[int64]float64)}
}

// Update stores dbfs for freq if the frequency is new or dbfs beats the held
// value. It reports whether the map changed.
func (m *SignalMap) Update(freq int64, dbfs float64) bool {
	held, ok := m.levels[freq]
	if ok && dbfs <= held {
		return false
	}

	if !ok {
		i, _ := slices.BinarySearch(m.keys, freq)
		m.keys = slices.Insert(m.keys, i, freq)
	}
	m.levels[freq] = dbfs

	return true
}

// Get returns the held level for freq
func (m *SignalMap) Get(freq int64) (float64, bool) {
	v, ok := m.levels[freq]
	return v, ok
}

func (m *SignalMap) Len() int {
	return len(m.keys)
}

// Peak returns the strongest entry, the lowest frequency on ties. ok is
// false when the map is empty.
func (m *SignalMap) Peak() (freq int64, dbfs float64, ok bool) {
	for _, k := range m.keys {
		if v := m.levels[k]; !ok || v > dbfs {
			freq, dbfs, ok = k, v, true
		}
	}
	return freq, dbfs, ok
}

// Range calls fn for every entry in ascending frequency order until fn
// returns false
func (m *SignalMap) Range(fn func(freq int64, dbfs float64) bool) {
	for _, k := range m.keys {
		if !fn(k, m.levels[k]) {
			return
		}
	}
}
