package visualizer

import (
	"math/rand"
	"testing"
)

func TestSignalMap_Update(t *testing.T) {
	m := NewSignalMap()

	steps := []struct {
		freq     int64
		dbfs     float64
		changed  bool
		expected float64
	}{
		{100, -10, true, -10},
		{100, -20, false, -10},
		{100, -10, false, -10},
		{100, -5, true, -5},
		{50, -30, true, -30},
	}

	for i, step := range steps {
		if got := m.Update(step.freq, step.dbfs); got != step.changed {
			t.Errorf("step %d: expected changed=%v, got %v", i, step.changed, got)
		}
		if got, ok := m.Get(step.freq); !ok || got != step.expected {
			t.Errorf("step %d: expected held %f, got %f (%v)", i, step.expected, got, ok)
		}
	}

	if m.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Len())
	}
	if _, ok := m.Get(75); ok {
		t.Error("expected no entry for an unseen frequency")
	}
}

func TestSignalMap_MaxHold(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	m := NewSignalMap()
	best := make(map[int64]float64)

	for i := 0; i < 5000; i++ {
		freq := int64(rnd.Intn(50))
		dbfs := rnd.NormFloat64() * 20

		before, seen := m.Get(freq)
		m.Update(freq, dbfs)
		after, _ := m.Get(freq)

		if seen && after < before {
			t.Fatalf("value for %d decreased from %f to %f", freq, before, after)
		}
		if b, ok := best[freq]; !ok || dbfs > b {
			best[freq] = dbfs
		}
	}

	for freq, b := range best {
		if got, _ := m.Get(freq); got != b {
			t.Errorf("frequency %d: expected best %f, got %f", freq, b, got)
		}
	}
}

func TestSignalMap_RangeAscending(t *testing.T) {
	m := NewSignalMap()
	for _, f := range []int64{300, 100, 200, 50, 250, 100} {
		m.Update(f, float64(f))
	}

	var keys []int64
	m.Range(func(freq int64, dbfs float64) bool {
		keys = append(keys, freq)
		return true
	})

	expected := []int64{50, 100, 200, 250, 300}
	if len(keys) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, keys)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, keys)
		}
	}

	calls := 0
	m.Range(func(int64, float64) bool {
		calls++
		return calls < 2
	})
	if calls != 2 {
		t.Errorf("expected Range to stop after 2 calls, got %d", calls)
	}
}

func TestSignalMap_Peak(t *testing.T) {
	m := NewSignalMap()
	if _, _, ok := m.Peak(); ok {
		t.Fatal("expected no peak for an empty map")
	}

	m.Update(300, 5)
	m.Update(200, 9)
	m.Update(100, 9)
	m.Update(400, -1)

	freq, dbfs, ok := m.Peak()
	if !ok || freq != 100 || dbfs != 9 {
		t.Errorf("expected peak (100, 9), got (%d, %f, %v)", freq, dbfs, ok)
	}
}
