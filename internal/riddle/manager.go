package riddle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/umutdv/riddlebot/core/logger"
)

const defaultCollaboratorTimeout = 5 * time.Second

// Options configure a Manager.
type Options struct {
	// Authorized lists user IDs allowed to generate riddles.
	Authorized map[int64]struct{}
	// CollaboratorTimeout bounds riddle fetch and wallet registration calls.
	// Zero selects the default.
	CollaboratorTimeout time.Duration
}

// Manager runs the riddle game. It owns the session store; callers interact
// only through its operations, never with sessions directly.
type Manager struct {
	store      *Store
	source     Source
	registrar  Registrar
	authorized map[int64]struct{}
	timeout    time.Duration
}

// NewManager wires the game manager with its collaborators.
func NewManager(source Source, registrar Registrar, opts Options) *Manager {
	timeout := opts.CollaboratorTimeout
	if timeout <= 0 {
		timeout = defaultCollaboratorTimeout
	}
	authorized := opts.Authorized
	if authorized == nil {
		authorized = make(map[int64]struct{})
	}
	return &Manager{
		store:      NewStore(),
		source:     source,
		registrar:  registrar,
		authorized: authorized,
		timeout:    timeout,
	}
}

// GenerateRiddle fetches a fresh riddle and installs it as the chat's active
// session, voiding any previous riddle, answers and winner for that chat.
// Only allow-listed requesters may call it. Returns the riddle question.
func (m *Manager) GenerateRiddle(ctx context.Context, chatID, requesterID int64) (string, error) {
	if _, ok := m.authorized[requesterID]; !ok {
		logger.Warn(ctx, "service.riddle", "riddle.generate",
			slog.String("status", "skip"),
			slog.Int64("target_chat_id", chatID),
			slog.Int64("user_id", requesterID),
			slog.String("err_code", "UNAUTHORIZED"),
		)
		return "", ErrUnauthorized
	}

	fetchCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	r, err := m.source.Fetch(fetchCtx)
	if err != nil {
		logger.Error(ctx, "service.riddle", "riddle.generate",
			slog.String("status", "fail"),
			slog.Int64("target_chat_id", chatID),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if !r.valid() {
		logger.Error(ctx, "service.riddle", "riddle.generate",
			slog.String("status", "fail"),
			slog.Int64("target_chat_id", chatID),
			slog.String("err", "malformed riddle record"),
		)
		return "", fmt.Errorf("%w: malformed riddle record", ErrSourceUnavailable)
	}

	s := m.store.acquire(chatID)
	s.mu.Lock()
	s.reset(r)
	s.mu.Unlock()

	logger.Info(ctx, "service.riddle", "riddle.generate",
		slog.String("status", "ok"),
		slog.Int64("target_chat_id", chatID),
		slog.Int64("riddle_id", r.ID),
		slog.Duration("duration", logger.Took(start)),
	)
	return r.Question, nil
}

// ShowRiddle returns the active riddle's question for a chat.
// It never mutates state.
func (m *Manager) ShowRiddle(chatID int64) (string, error) {
	s, ok := m.store.lookup(chatID)
	if !ok {
		return "", ErrNoActiveRiddle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return "", ErrNoActiveRiddle
	}
	return s.riddle.Question, nil
}

// SubmitAnswer checks a user's answer against the active riddle. The first
// correct answer wins the big prize; later correct answers from other users
// get the small prize; a user never collects twice for the same riddle.
// "First" is decided strictly by arrival order under the session lock.
func (m *Manager) SubmitAnswer(ctx context.Context, chatID int64, user, answer string) (AnswerOutcome, error) {
	s, ok := m.store.lookup(chatID)
	if !ok {
		return 0, ErrNoActiveRiddle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0, ErrNoActiveRiddle
	}

	if normalizeAnswer(answer) != normalizeAnswer(s.riddle.Answer) {
		return AnswerIncorrect, nil
	}
	if _, done := s.answered[user]; done {
		return AnswerAlreadyAnswered, nil
	}

	s.answered[user] = struct{}{}
	outcome := AnswerRepeatWinner
	if s.winner == "" {
		s.winner = user
		outcome = AnswerFirstWinner
	}

	logger.Info(ctx, "service.riddle", "riddle.answer",
		slog.String("status", "ok"),
		slog.String("outcome", outcome.String()),
		slog.Int64("riddle_id", s.riddle.ID),
		slog.String("username", user),
		slog.Int("answered", len(s.answered)),
	)
	return outcome, nil
}

// ClaimWallet registers the first winner's wallet address with the prize
// backend. Only the first winner of the chat's current riddle may claim.
// The backend call runs outside the session lock so a slow backend never
// blocks answer submissions; session state is unchanged either way.
func (m *Manager) ClaimWallet(ctx context.Context, chatID int64, user, wallet string) error {
	s, ok := m.store.lookup(chatID)
	if !ok {
		return ErrNoWinnerYet
	}

	s.mu.Lock()
	if !s.active || s.winner == "" {
		s.mu.Unlock()
		return ErrNoWinnerYet
	}
	if s.winner != user {
		s.mu.Unlock()
		return ErrNotTheWinner
	}
	riddleID := s.riddle.ID
	s.mu.Unlock()

	regCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.registrar.Register(regCtx, Claim{
		Username: user,
		Wallet:   wallet,
		RiddleID: riddleID,
	})
	if err != nil {
		logger.Error(ctx, "service.riddle", "riddle.claim",
			slog.String("status", "fail"),
			slog.Int64("riddle_id", riddleID),
			slog.String("username", user),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	logger.Info(ctx, "service.riddle", "riddle.claim",
		slog.String("status", "ok"),
		slog.String("outcome", "registered"),
		slog.Int64("riddle_id", riddleID),
		slog.String("username", user),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// Winner reports the first winner of the chat's current riddle, if any.
func (m *Manager) Winner(chatID int64) (string, bool) {
	s, ok := m.store.lookup(chatID)
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.winner == "" {
		return "", false
	}
	return s.winner, true
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
