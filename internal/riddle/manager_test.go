package riddle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type stubSource struct {
	riddle Riddle
	err    error
	calls  int
}

func (s *stubSource) Fetch(ctx context.Context) (Riddle, error) {
	s.calls++
	if s.err != nil {
		return Riddle{}, s.err
	}
	return s.riddle, nil
}

type stubRegistrar struct {
	mu     sync.Mutex
	err    error
	claims []Claim
}

func (r *stubRegistrar) Register(ctx context.Context, claim Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.claims = append(r.claims, claim)
	return nil
}

func newTestManager(src *stubSource, reg *stubRegistrar) *Manager {
	return NewManager(src, reg, Options{
		Authorized: map[int64]struct{}{100: {}},
	})
}

func TestGenerateRiddleUnauthorized(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
	m := newTestManager(src, &stubRegistrar{})

	if _, err := m.GenerateRiddle(context.Background(), 55, 999); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("source must not be called for unauthorized requester, got %d calls", src.calls)
	}
	if _, err := m.ShowRiddle(55); !errors.Is(err, ErrNoActiveRiddle) {
		t.Fatalf("unauthorized generate must not create a session, got %v", err)
	}
}

func TestGenerateRiddleSourceFailure(t *testing.T) {
	m := newTestManager(&stubSource{err: errors.New("connection refused")}, &stubRegistrar{})

	if _, err := m.GenerateRiddle(context.Background(), 55, 100); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if _, err := m.ShowRiddle(55); !errors.Is(err, ErrNoActiveRiddle) {
		t.Fatalf("failed generate must not create a session, got %v", err)
	}
}

func TestGenerateRiddleMalformedRecord(t *testing.T) {
	cases := []Riddle{
		{ID: 0, Question: "q", Answer: "a"},
		{ID: 1, Question: "", Answer: "a"},
		{ID: 1, Question: "q", Answer: ""},
	}
	for i, r := range cases {
		m := newTestManager(&stubSource{riddle: r}, &stubRegistrar{})
		if _, err := m.GenerateRiddle(context.Background(), 55, 100); !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("case %d: expected ErrSourceUnavailable, got %v", i, err)
		}
	}
}

func TestGenerateThenShow(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 7, Question: "what has keys but no locks", Answer: "piano"}}
	m := newTestManager(src, &stubRegistrar{})

	question, err := m.GenerateRiddle(context.Background(), 55, 100)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if question != src.riddle.Question {
		t.Fatalf("generate returned %q, want %q", question, src.riddle.Question)
	}

	shown, err := m.ShowRiddle(55)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown != src.riddle.Question {
		t.Fatalf("show returned %q, want %q", shown, src.riddle.Question)
	}

	// Other chats stay untouched.
	if _, err := m.ShowRiddle(56); !errors.Is(err, ErrNoActiveRiddle) {
		t.Fatalf("expected ErrNoActiveRiddle for chat 56, got %v", err)
	}
}

func TestSubmitAnswerNoActiveRiddle(t *testing.T) {
	m := newTestManager(&stubSource{}, &stubRegistrar{})
	if _, err := m.SubmitAnswer(context.Background(), 55, "alice", "moon"); !errors.Is(err, ErrNoActiveRiddle) {
		t.Fatalf("expected ErrNoActiveRiddle, got %v", err)
	}
}

func TestIncorrectAnswerIsIdempotent(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "moon riddle", Answer: "moon"}}
	m := newTestManager(src, &stubRegistrar{})
	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for i := 0; i < 3; i++ {
		out, err := m.SubmitAnswer(context.Background(), 55, "alice", "sun")
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if out != AnswerIncorrect {
			t.Fatalf("submit %d: got %v, want incorrect", i, out)
		}
	}

	// Wrong guesses must not burn the user's prize eligibility.
	out, err := m.SubmitAnswer(context.Background(), 55, "alice", "moon")
	if err != nil {
		t.Fatalf("correct submit: %v", err)
	}
	if out != AnswerFirstWinner {
		t.Fatalf("got %v, want first_winner", out)
	}
}

func TestAnswerNormalization(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "  Moon "}}
	m := newTestManager(src, &stubRegistrar{})
	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err := m.SubmitAnswer(context.Background(), 55, "alice", " mOoN\t")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out != AnswerFirstWinner {
		t.Fatalf("got %v, want first_winner", out)
	}
}

// Full walk through the prize tiers: first winner, repeat winner, double
// collection attempt, and the wallet claim guards.
func TestPrizeScenario(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "moon riddle", Answer: "moon"}}
	reg := &stubRegistrar{}
	m := newTestManager(src, reg)

	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := m.SubmitAnswer(context.Background(), 55, "alice", "Moon")
	if err != nil || out != AnswerFirstWinner {
		t.Fatalf("alice: got %v, %v; want first_winner", out, err)
	}

	out, err = m.SubmitAnswer(context.Background(), 55, "bob", "moon")
	if err != nil || out != AnswerRepeatWinner {
		t.Fatalf("bob: got %v, %v; want repeat_winner", out, err)
	}

	out, err = m.SubmitAnswer(context.Background(), 55, "alice", "moon")
	if err != nil || out != AnswerAlreadyAnswered {
		t.Fatalf("alice again: got %v, %v; want already_answered", out, err)
	}

	if err := m.ClaimWallet(context.Background(), 55, "bob", "0xBOB"); !errors.Is(err, ErrNotTheWinner) {
		t.Fatalf("bob claim: expected ErrNotTheWinner, got %v", err)
	}

	if err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC"); err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	if len(reg.claims) != 1 {
		t.Fatalf("expected 1 registered claim, got %d", len(reg.claims))
	}
	want := Claim{Username: "alice", Wallet: "0xABC", RiddleID: 1}
	if reg.claims[0] != want {
		t.Fatalf("registered claim = %+v, want %+v", reg.claims[0], want)
	}
}

func TestClaimWalletBeforeAnyWinner(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
	m := newTestManager(src, &stubRegistrar{})

	// No session at all.
	if err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC"); !errors.Is(err, ErrNoWinnerYet) {
		t.Fatalf("expected ErrNoWinnerYet, got %v", err)
	}

	// Active riddle but no correct answer yet.
	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC"); !errors.Is(err, ErrNoWinnerYet) {
		t.Fatalf("expected ErrNoWinnerYet, got %v", err)
	}
}

func TestClaimWalletRegistrationFailed(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
	reg := &stubRegistrar{err: errors.New("backend returned 500")}
	m := newTestManager(src, reg)

	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.SubmitAnswer(context.Background(), 55, "alice", "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC")
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}

	// The failure must not void the win; the winner may retry.
	reg.err = nil
	if err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC"); err != nil {
		t.Fatalf("retry claim: %v", err)
	}
}

func TestRegenerateVoidsPreviousWin(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q1", Answer: "a1"}}
	m := newTestManager(src, &stubRegistrar{})

	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.SubmitAnswer(context.Background(), 55, "alice", "a1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	src.riddle = Riddle{ID: 2, Question: "q2", Answer: "a2"}
	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	// The old win is void.
	if err := m.ClaimWallet(context.Background(), 55, "alice", "0xABC"); !errors.Is(err, ErrNoWinnerYet) {
		t.Fatalf("expected ErrNoWinnerYet after regenerate, got %v", err)
	}

	// And alice is eligible for the fresh riddle again.
	out, err := m.SubmitAnswer(context.Background(), 55, "alice", "a2")
	if err != nil || out != AnswerFirstWinner {
		t.Fatalf("fresh riddle: got %v, %v; want first_winner", out, err)
	}
}

func TestConcurrentSubmitsYieldOneFirstWinner(t *testing.T) {
	for round := 0; round < 50; round++ {
		src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
		m := newTestManager(src, &stubRegistrar{})
		if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
			t.Fatalf("generate: %v", err)
		}

		users := []string{"alice", "bob"}
		outcomes := make([]AnswerOutcome, len(users))
		var wg sync.WaitGroup
		for i, user := range users {
			wg.Add(1)
			go func(i int, user string) {
				defer wg.Done()
				out, err := m.SubmitAnswer(context.Background(), 55, user, "a")
				if err != nil {
					t.Errorf("submit %s: %v", user, err)
					return
				}
				outcomes[i] = out
			}(i, user)
		}
		wg.Wait()

		first, repeat := 0, 0
		for _, out := range outcomes {
			switch out {
			case AnswerFirstWinner:
				first++
			case AnswerRepeatWinner:
				repeat++
			}
		}
		if first != 1 || repeat != 1 {
			t.Fatalf("round %d: got %d first / %d repeat winners, want exactly 1/1", round, first, repeat)
		}

		winner, ok := m.Winner(55)
		if !ok {
			t.Fatalf("round %d: winner not recorded", round)
		}
		if winner != "alice" && winner != "bob" {
			t.Fatalf("round %d: unexpected winner %q", round, winner)
		}
	}
}

func TestChatsAreIndependent(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
	m := newTestManager(src, &stubRegistrar{})

	for chat := int64(1); chat <= 3; chat++ {
		if _, err := m.GenerateRiddle(context.Background(), chat, 100); err != nil {
			t.Fatalf("generate chat %d: %v", chat, err)
		}
	}

	if _, err := m.SubmitAnswer(context.Background(), 1, "alice", "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Alice's win in chat 1 means nothing in chat 2.
	out, err := m.SubmitAnswer(context.Background(), 2, "alice", "a")
	if err != nil || out != AnswerFirstWinner {
		t.Fatalf("chat 2: got %v, %v; want first_winner", out, err)
	}
	if err := m.ClaimWallet(context.Background(), 3, "alice", "0xABC"); !errors.Is(err, ErrNoWinnerYet) {
		t.Fatalf("chat 3: expected ErrNoWinnerYet, got %v", err)
	}
}

func TestManyUsersSingleFirstWinner(t *testing.T) {
	src := &stubSource{riddle: Riddle{ID: 1, Question: "q", Answer: "a"}}
	m := newTestManager(src, &stubRegistrar{})
	if _, err := m.GenerateRiddle(context.Background(), 55, 100); err != nil {
		t.Fatalf("generate: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := m.SubmitAnswer(context.Background(), 55, fmt.Sprintf("user_%d", i), "a")
			if err != nil {
				t.Errorf("submit %d: %v", i, err)
				return
			}
			if out == AnswerFirstWinner {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if firsts != 1 {
		t.Fatalf("got %d first winners, want exactly 1", firsts)
	}
}
