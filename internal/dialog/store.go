package dialog

import (
	"errors"
	"sync"
	"time"

	"github.com/neshkola/leadbot/core/logger"
	"log/slog"
)

// Stage identifies a step of the lead-capture conversation.
type Stage int

const (
	// StageAwaitingAge means the welcome message was sent and the bot waits
	// for a bracket selection.
	StageAwaitingAge Stage = iota + 1
	// StageAwaitingPhone means a bracket was chosen and the next inbound
	// message is treated as a phone submission.
	StageAwaitingPhone
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingAge:
		return "awaiting_age"
	case StageAwaitingPhone:
		return "awaiting_phone"
	}
	return "unknown"
}

// Conversation is the per-chat dialogue state. It exists only between /start
// and a terminal outcome; completed conversations are removed from the store.
type Conversation struct {
	ChatID      int64
	Stage       Stage
	SelectedAge string
	UpdatedAt   time.Time
}

var (
	// ErrNoConversation is returned for chats without an active dialogue.
	ErrNoConversation = errors.New("no active conversation")
	// ErrWrongStage is returned when a transition does not apply to the
	// conversation's current stage.
	ErrWrongStage = errors.New("conversation is in a different stage")
)

// DefaultIdleTTL bounds how long an abandoned conversation is kept.
const DefaultIdleTTL = 30 * time.Minute

const janitorInterval = time.Minute

// Store owns all active conversations, keyed by chat ID. It is safe for
// concurrent use; per-chat event processing is still expected to be
// sequential, which the Telegram dispatch model guarantees.
type Store struct {
	mu    sync.Mutex
	conns map[int64]*Conversation

	ttl time.Duration
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a conversation store. A zero ttl selects DefaultIdleTTL;
// a negative ttl disables idle eviction entirely.
func NewStore(ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultIdleTTL
	}
	s := &Store{
		conns: make(map[int64]*Conversation),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Begin creates a fresh conversation at StageAwaitingAge, replacing any
// previous dialogue state for the chat.
func (s *Store) Begin(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[chatID] = &Conversation{
		ChatID:    chatID,
		Stage:     StageAwaitingAge,
		UpdatedAt: s.now(),
	}
}

// Get returns a snapshot of the chat's conversation, if one is active.
func (s *Store) Get(chatID int64) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conns[chatID]
	if !ok {
		return Conversation{}, false
	}
	return *conv, true
}

// SetAge stores the selected bracket and advances the conversation to
// StageAwaitingPhone. The selection is immutable once made.
func (s *Store) SetAge(chatID int64, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conns[chatID]
	if !ok {
		return ErrNoConversation
	}
	if conv.Stage != StageAwaitingAge {
		return ErrWrongStage
	}
	conv.SelectedAge = code
	conv.Stage = StageAwaitingPhone
	conv.UpdatedAt = s.now()
	return nil
}

// Touch refreshes the conversation's idle timer, keeping a re-prompted chat
// alive.
func (s *Store) Touch(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conns[chatID]; ok {
		conv.UpdatedAt = s.now()
	}
}

// End discards the chat's conversation state.
func (s *Store) End(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, chatID)
}

// Len reports the number of active conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close stops the idle-eviction janitor. The store remains usable.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if evicted := s.sweep(s.now().Add(-s.ttl)); evicted > 0 {
				logger.Info(logger.Background(), "dialog", "conversations.evicted",
					slog.Int("count", evicted),
					slog.Duration("idle_ttl", s.ttl),
				)
			}
		}
	}
}

// sweep removes conversations not touched since the cutoff and returns the
// number evicted.
func (s *Store) sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for chatID, conv := range s.conns {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.conns, chatID)
			evicted++
		}
	}
	return evicted
}
