package source

import (
	"context"
	"testing"

	"github.com/umutdv/riddlebot/internal/riddle"
)

func TestStaticRotatesWithoutRepeats(t *testing.T) {
	pool := []riddle.Riddle{
		{ID: 1, Question: "q1", Answer: "a1"},
		{ID: 2, Question: "q2", Answer: "a2"},
		{ID: 3, Question: "q3", Answer: "a3"},
	}
	src := NewStatic(pool, 1)

	seen := make(map[int64]int)
	for i := 0; i < len(pool); i++ {
		r, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		seen[r.ID]++
	}
	for _, r := range pool {
		if seen[r.ID] != 1 {
			t.Fatalf("riddle %d served %d times in first cycle, want 1", r.ID, seen[r.ID])
		}
	}

	// The next cycle serves the full pool again.
	for i := 0; i < len(pool); i++ {
		r, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("second cycle fetch %d: %v", i, err)
		}
		seen[r.ID]++
	}
	for _, r := range pool {
		if seen[r.ID] != 2 {
			t.Fatalf("riddle %d served %d times after two cycles, want 2", r.ID, seen[r.ID])
		}
	}
}

func TestStaticDefaultsToBuiltinPool(t *testing.T) {
	src := NewStatic(nil, 7)
	r, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if r.ID == 0 || r.Question == "" || r.Answer == "" {
		t.Fatalf("builtin riddle is incomplete: %+v", r)
	}
}
