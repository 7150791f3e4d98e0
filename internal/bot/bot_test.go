package bot

import (
	"reflect"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/neshkola/leadbot/internal/dialog"
)

func TestRoutesCoverPhoneStageInputs(t *testing.T) {
	app := New(dialog.NewFlow(dialog.NewStore(-1), nil))

	handlers := make(map[any]uintptr)
	for _, r := range app.Routes() {
		handlers[r.Endpoint] = reflect.ValueOf(r.Handler).Pointer()
	}

	phoneStage := []string{tele.OnText, tele.OnContact, tele.OnMedia, tele.OnLocation}
	for _, ep := range phoneStage {
		if _, ok := handlers[ep]; !ok {
			t.Fatalf("no handler bound for %q", ep)
		}
	}
	// A sticker or voice note during the phone stage must take the same path
	// as empty text: into the re-prompt, not into the void.
	for _, ep := range phoneStage[1:] {
		if handlers[ep] != handlers[tele.OnText] {
			t.Fatalf("%q is not handled by the message handler", ep)
		}
	}

	for _, ep := range []any{"/start", tele.OnCallback} {
		if _, ok := handlers[ep]; !ok {
			t.Fatalf("no handler bound for %v", ep)
		}
	}
}

// fakeCtx overrides only the accessors the handlers touch; calling anything
// else panics, which is what a test should do anyway.
type fakeCtx struct {
	tele.Context
	user *tele.User
}

func (f fakeCtx) Sender() *tele.User { return f.user }

func TestSenderOf(t *testing.T) {
	cases := []struct {
		name string
		user *tele.User
		want dialog.User
	}{
		{
			"full name and username",
			&tele.User{FirstName: "Anna", LastName: "K", Username: "anna_k"},
			dialog.User{DisplayName: "Anna K", Username: "anna_k"},
		},
		{
			"first name only",
			&tele.User{FirstName: "Anna"},
			dialog.User{DisplayName: "Anna"},
		},
		{"nil sender", nil, dialog.User{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := senderOf(fakeCtx{user: tc.user}); got != tc.want {
				t.Fatalf("senderOf = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestBuildKeyboardAgeBrackets(t *testing.T) {
	markup := buildKeyboard(dialog.KeyboardAgeBrackets)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want one per bracket", len(markup.InlineKeyboard))
	}
	for i, code := range dialog.Brackets() {
		row := markup.InlineKeyboard[i]
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons", i, len(row))
		}
		btn := row[0]
		if btn.Text != code+" лет" {
			t.Fatalf("button %d text = %q", i, btn.Text)
		}
		if btn.Unique != "age" || btn.Data != code {
			t.Fatalf("button %d carries %q/%q, want age/%q", i, btn.Unique, btn.Data, code)
		}
	}
}

func TestBuildKeyboardContactRequest(t *testing.T) {
	markup := buildKeyboard(dialog.KeyboardContactRequest)
	if markup == nil || len(markup.ReplyKeyboard) != 1 || len(markup.ReplyKeyboard[0]) != 1 {
		t.Fatalf("unexpected markup: %+v", markup)
	}
	btn := markup.ReplyKeyboard[0][0]
	if !btn.Contact || btn.Text != contactButtonLabel {
		t.Fatalf("unexpected button: %+v", btn)
	}
}

func TestBuildKeyboardRemove(t *testing.T) {
	if markup := buildKeyboard(dialog.KeyboardRemove); markup == nil || !markup.RemoveKeyboard {
		t.Fatal("expected remove-keyboard markup")
	}
	if markup := buildKeyboard(dialog.KeyboardNone); markup != nil {
		t.Fatalf("expected nil markup, got %+v", markup)
	}
}
