package source

import (
	"context"
	"math/rand"
	"sync"

	"github.com/umutdv/riddlebot/internal/riddle"
)

// builtinRiddles is the default pool used by the static source and for
// seeding an empty riddle database.
var builtinRiddles = []riddle.Riddle{
	{ID: 1, Question: "I shine at night but I am not a lamp. What am I?", Answer: "moon"},
	{ID: 2, Question: "What has keys but opens no locks?", Answer: "piano"},
	{ID: 3, Question: "What has to be broken before you can use it?", Answer: "egg"},
	{ID: 4, Question: "The more of this there is, the less you see. What is it?", Answer: "darkness"},
	{ID: 5, Question: "What gets wetter the more it dries?", Answer: "towel"},
	{ID: 6, Question: "What runs but never walks, has a mouth but never talks?", Answer: "river"},
	{ID: 7, Question: "I am always in front of you but cannot be seen. What am I?", Answer: "future"},
	{ID: 8, Question: "What can you catch but not throw?", Answer: "cold"},
}

// Static serves riddles from an in-memory list, rotating through the pool in
// random order without repeats until every riddle has been asked, then starts
// a new cycle. Useful for dev runs and tests.
type Static struct {
	mu      sync.Mutex
	pool    []riddle.Riddle
	unasked []int
	rng     *rand.Rand
}

// NewStatic builds a static source over the given pool.
// An empty pool falls back to the built-in riddle list.
func NewStatic(pool []riddle.Riddle, seed int64) *Static {
	if len(pool) == 0 {
		pool = builtinRiddles
	}
	return &Static{
		pool: pool,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Fetch returns the next riddle of the current cycle.
func (s *Static) Fetch(_ context.Context) (riddle.Riddle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pool) == 0 {
		return riddle.Riddle{}, ErrNoRiddles
	}
	if len(s.unasked) == 0 {
		s.unasked = make([]int, len(s.pool))
		for i := range s.pool {
			s.unasked[i] = i
		}
	}

	pick := s.rng.Intn(len(s.unasked))
	idx := s.unasked[pick]
	s.unasked[pick] = s.unasked[len(s.unasked)-1]
	s.unasked = s.unasked[:len(s.unasked)-1]
	return s.pool[idx], nil
}
