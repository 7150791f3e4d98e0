package dialog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neshkola/leadbot/internal/lead"
)

type stubSubmitter struct {
	records []lead.Record
	err     error
}

func (s *stubSubmitter) Submit(_ context.Context, rec lead.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func newTestFlow(t *testing.T) (*Flow, *Store, *stubSubmitter) {
	t.Helper()
	store := NewStore(-1)
	sub := &stubSubmitter{}
	return NewFlow(store, sub), store, sub
}

const chatID = int64(1001)

func TestBracketCodesDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for _, code := range Brackets() {
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate bracket code %q", code)
		}
		seen[code] = struct{}{}
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 bracket codes, got %d", len(seen))
	}
}

func TestStartCreatesConversation(t *testing.T) {
	flow, store, _ := newTestFlow(t)

	act := flow.Start(context.Background(), chatID)
	if act.Photo == "" {
		t.Fatal("expected promo photo before the welcome message")
	}
	if len(act.Messages) != 1 || !act.Messages[0].HTML || act.Messages[0].Keyboard != KeyboardAgeBrackets {
		t.Fatalf("unexpected welcome action: %+v", act)
	}

	conv, ok := store.Get(chatID)
	if !ok || conv.Stage != StageAwaitingAge {
		t.Fatalf("conversation = %+v (ok=%v), want StageAwaitingAge", conv, ok)
	}
}

func TestSelectAgeStoresCodeVerbatim(t *testing.T) {
	for _, code := range Brackets() {
		flow, store, _ := newTestFlow(t)
		flow.Start(context.Background(), chatID)

		act := flow.SelectAge(context.Background(), chatID, code)
		if act.Toast != "Вы выбрали: "+code {
			t.Fatalf("toast = %q", act.Toast)
		}
		if len(act.Messages) != 1 || act.Messages[0].Keyboard != KeyboardContactRequest {
			t.Fatalf("unexpected phone request action: %+v", act)
		}

		conv, ok := store.Get(chatID)
		if !ok || conv.Stage != StageAwaitingPhone {
			t.Fatalf("conversation = %+v (ok=%v), want StageAwaitingPhone", conv, ok)
		}
		if conv.SelectedAge != code {
			t.Fatalf("SelectedAge = %q, want %q", conv.SelectedAge, code)
		}
	}
}

func TestSelectAgeUnknownCode(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	flow.Start(context.Background(), chatID)

	act := flow.SelectAge(context.Background(), chatID, "15-18")
	if act.Toast == "" || len(act.Messages) != 0 {
		t.Fatalf("unexpected action for unknown code: %+v", act)
	}
	if conv, _ := store.Get(chatID); conv.Stage != StageAwaitingAge {
		t.Fatalf("stage = %v, expected to stay StageAwaitingAge", conv.Stage)
	}
}

func TestSelectAgeWithoutConversation(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	act := flow.SelectAge(context.Background(), chatID, "9-11")
	if act.Toast == "" || len(act.Messages) != 0 {
		t.Fatalf("unexpected action for stale tap: %+v", act)
	}
}

func TestSelectAgeIsImmutable(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "5-8")

	// Second tap arrives while awaiting the phone; selection must not change.
	flow.SelectAge(context.Background(), chatID, "12-14")
	conv, _ := store.Get(chatID)
	if conv.SelectedAge != "5-8" {
		t.Fatalf("SelectedAge = %q after double tap, want %q", conv.SelectedAge, "5-8")
	}
}

func TestSubmitPhoneRepromptLoop(t *testing.T) {
	flow, store, sub := newTestFlow(t)
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "9-11")

	// Empty input never advances the machine, however often it repeats.
	for i := 0; i < 5; i++ {
		act := flow.SubmitPhone(context.Background(), chatID, User{DisplayName: "Anna"}, "", "")
		if len(act.Messages) != 1 || act.Messages[0].Text != "Пожалуйста, укажите номер телефона." {
			t.Fatalf("iteration %d: unexpected action %+v", i, act)
		}
		if act.Messages[0].Keyboard != KeyboardRemove {
			t.Fatalf("iteration %d: re-prompt should remove the keyboard", i)
		}
		conv, ok := store.Get(chatID)
		if !ok || conv.Stage != StageAwaitingPhone {
			t.Fatalf("iteration %d: conversation = %+v (ok=%v)", i, conv, ok)
		}
	}
	if len(sub.records) != 0 {
		t.Fatalf("no lead should have been submitted, got %d", len(sub.records))
	}
}

func TestSubmitPhoneSuccess(t *testing.T) {
	flow, store, sub := newTestFlow(t)
	flow.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 0, 0, time.Local)
	}
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "9-11")

	from := User{DisplayName: "Anna", Username: "@anna_k"}
	act := flow.SubmitPhone(context.Background(), chatID, from, "+79990001122", "")
	if len(act.Messages) != 1 || act.Messages[0].Keyboard != KeyboardRemove {
		t.Fatalf("unexpected terminal action: %+v", act)
	}

	if len(sub.records) != 1 {
		t.Fatalf("expected one submitted lead, got %d", len(sub.records))
	}
	rec := sub.records[0]
	want := lead.Record{
		SubmittedAt: "2025-03-14 15:09",
		DisplayName: "Anna",
		Handle:      "anna_k",
		Phone:       "79990001122",
		AgeLabel:    "9-11 лет",
	}
	if rec != want {
		t.Fatalf("record = %+v, want %+v", rec, want)
	}

	if _, ok := store.Get(chatID); ok {
		t.Fatal("conversation should be discarded after success")
	}
}

func TestSubmitPhoneContactTakesPrecedence(t *testing.T) {
	flow, _, sub := newTestFlow(t)
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "5-8")

	flow.SubmitPhone(context.Background(), chatID, User{DisplayName: "Anna"}, "ignore me", "+79991112233")
	if len(sub.records) != 1 {
		t.Fatalf("expected one submitted lead, got %d", len(sub.records))
	}
	if got := sub.records[0].Phone; got != "79991112233" {
		t.Fatalf("phone = %q, contact payload should win over text", got)
	}
}

func TestSubmitPhoneFreeTextVerbatim(t *testing.T) {
	flow, _, sub := newTestFlow(t)
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "5-8")

	flow.SubmitPhone(context.Background(), chatID, User{DisplayName: "Anna"}, "позвоните после 18:00", "")
	if len(sub.records) != 1 {
		t.Fatalf("expected one submitted lead, got %d", len(sub.records))
	}
	if got := sub.records[0].Phone; got != "позвоните после 18:00" {
		t.Fatalf("phone = %q, free text should be accepted verbatim", got)
	}
}

func TestSubmitPhonePersistenceFailure(t *testing.T) {
	flow, store, sub := newTestFlow(t)
	sub.err = errors.New("api: backend error")
	flow.Start(context.Background(), chatID)
	flow.SelectAge(context.Background(), chatID, "12-14")

	act := flow.SubmitPhone(context.Background(), chatID, User{DisplayName: "Anna"}, "+7999", "")
	if len(act.Messages) != 1 {
		t.Fatalf("unexpected failure action: %+v", act)
	}
	if act.Messages[0].Keyboard != KeyboardRemove {
		t.Fatal("failure path must still remove the keyboard")
	}
	if act.Messages[0].Text == "" || act.Messages[0].Text == thanksText {
		t.Fatalf("failure path sent %q", act.Messages[0].Text)
	}

	if _, ok := store.Get(chatID); ok {
		t.Fatal("conversation should be discarded after failure too")
	}
}

func TestSubmitPhoneIgnoredOutsidePhoneStage(t *testing.T) {
	flow, _, sub := newTestFlow(t)

	// No conversation at all.
	if act := flow.SubmitPhone(context.Background(), chatID, User{}, "+7999", ""); len(act.Messages) != 0 {
		t.Fatalf("expected no action, got %+v", act)
	}

	// Conversation still awaiting the age selection.
	flow.Start(context.Background(), chatID)
	if act := flow.SubmitPhone(context.Background(), chatID, User{}, "+7999", ""); len(act.Messages) != 0 {
		t.Fatalf("expected no action, got %+v", act)
	}
	if len(sub.records) != 0 {
		t.Fatalf("no lead should have been submitted, got %d", len(sub.records))
	}
}
