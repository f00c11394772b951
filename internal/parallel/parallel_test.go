package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForSequentialWhenDisabled(t *testing.T) {
	cfg := Config{Enabled: false}
	var visits [10]int
	For(10, func(i int) { visits[i]++ }, cfg)

	for i, v := range visits {
		if v != 1 {
			t.Errorf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestForVisitsEveryIndexInParallel(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	const n = 1000

	var count atomic.Int64
	seen := make([]atomic.Bool, n)
	For(n, func(i int) {
		count.Add(1)
		seen[i].Store(true)
	}, cfg)

	if count.Load() != n {
		t.Errorf("executed %d iterations, want %d", count.Load(), n)
	}
	for i := range seen {
		if !seen[i].Load() {
			t.Errorf("index %d never visited", i)
		}
	}
}

func TestForSmallFallsBackToSequential(t *testing.T) {
	cfg := DefaultConfig()
	var order []int
	For(4, func(i int) { order = append(order, i) }, cfg) // below MinChunkSize

	for i, v := range order {
		if v != i {
			t.Errorf("small n should run sequentially in order, got %v", order)
			break
		}
	}
}

func TestForBatchCoversGrid(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1}
	var cells [3][5]atomic.Bool
	ForBatch(3, 5, func(b, c int) { cells[b][c].Store(true) }, cfg)

	for b := 0; b < 3; b++ {
		for c := 0; c < 5; c++ {
			if !cells[b][c].Load() {
				t.Errorf("cell (%d,%d) never visited", b, c)
			}
		}
	}
}
