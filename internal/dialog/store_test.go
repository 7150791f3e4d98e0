package dialog

import (
	"sync"
	"testing"
	"time"
)

func TestStoreBeginResetsConversation(t *testing.T) {
	s := NewStore(-1)
	s.Begin(1)
	if err := s.SetAge(1, "5-8"); err != nil {
		t.Fatal(err)
	}

	// /start mid-dialog starts over.
	s.Begin(1)
	conv, ok := s.Get(1)
	if !ok || conv.Stage != StageAwaitingAge || conv.SelectedAge != "" {
		t.Fatalf("conversation after restart = %+v (ok=%v)", conv, ok)
	}
}

func TestStoreSetAgeRequiresAgeStage(t *testing.T) {
	s := NewStore(-1)

	if err := s.SetAge(1, "5-8"); err != ErrNoConversation {
		t.Fatalf("err = %v, want ErrNoConversation", err)
	}

	s.Begin(1)
	if err := s.SetAge(1, "5-8"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAge(1, "9-11"); err != ErrWrongStage {
		t.Fatalf("err = %v, want ErrWrongStage", err)
	}
}

func TestStoreEnd(t *testing.T) {
	s := NewStore(-1)
	s.Begin(1)
	s.End(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("conversation should be gone after End")
	}
	// Ending an absent conversation is a no-op.
	s.End(2)
}

func TestStoreSweepExpiresIdleConversations(t *testing.T) {
	s := NewStore(-1)
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.Begin(1)
	s.Begin(2)

	// Chat 2 stays active, chat 1 goes idle past the TTL.
	s.now = func() time.Time { return base.Add(25 * time.Minute) }
	s.Touch(2)

	s.sweep(base.Add(40 * time.Minute).Add(-DefaultIdleTTL))
	if _, ok := s.Get(1); ok {
		t.Fatal("idle conversation should have been swept")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatal("recently touched conversation should survive the sweep")
	}
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	s := NewStore(-1)
	s.Begin(1)
	conv, _ := s.Get(1)
	conv.SelectedAge = "tampered"

	fresh, _ := s.Get(1)
	if fresh.SelectedAge != "" {
		t.Fatal("Get must return a copy, not the live entry")
	}
}

func TestStoreConcurrentChats(t *testing.T) {
	s := NewStore(-1)
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Begin(id)
			if err := s.SetAge(id, "9-11"); err != nil {
				t.Errorf("chat %d: %v", id, err)
			}
			s.Touch(id)
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got != 50 {
		t.Fatalf("Len = %d, want 50", got)
	}
	for i := int64(0); i < 50; i++ {
		conv, ok := s.Get(i)
		if !ok || conv.SelectedAge != "9-11" {
			t.Fatalf("chat %d: conversation = %+v (ok=%v)", i, conv, ok)
		}
	}
}

func TestStoreCloseIsIdempotent(t *testing.T) {
	s := NewStore(time.Minute)
	s.Close()
	s.Close()
}
