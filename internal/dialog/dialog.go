// Package dialog implements the lead-capture conversation: a per-chat state
// machine that walks a parent from the welcome message through age bracket
// selection and phone collection to a persisted lead.
package dialog

import (
	"context"
	"time"

	"github.com/neshkola/leadbot/core/logger"
	"github.com/neshkola/leadbot/internal/lead"
	"log/slog"
)

// brackets are the age categories offered on the welcome keyboard. The code
// doubles as the stored selection; the display label is the code with the
// years suffix.
var brackets = []string{"5-8", "9-11", "12-14"}

// Brackets returns the fixed age bracket codes in presentation order.
func Brackets() []string {
	out := make([]string, len(brackets))
	copy(out, brackets)
	return out
}

// ValidBracket reports whether code is one of the offered brackets.
func ValidBracket(code string) bool {
	for _, b := range brackets {
		if b == code {
			return true
		}
	}
	return false
}

// User carries the sender details needed for a lead record.
type User struct {
	DisplayName string
	Username    string
}

// Keyboard selects the reply markup attached to an outbound message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardAgeBrackets
	KeyboardContactRequest
	KeyboardRemove
)

// Message is a single outbound send.
type Message struct {
	Text     string
	HTML     bool
	Keyboard Keyboard
}

// Action describes everything the transport should do in response to one
// inbound event: an optional callback toast, an optional photo, and ordered
// messages.
type Action struct {
	Toast    string
	Photo    string
	Messages []Message
}

// Submitter persists a completed lead.
type Submitter interface {
	Submit(ctx context.Context, rec lead.Record) error
}

// Flow drives the conversation state machine. It owns no transport concerns:
// handlers feed it normalized events and render the returned actions.
type Flow struct {
	store *Store
	leads Submitter
	now   func() time.Time
}

// NewFlow builds the conversation flow on top of a conversation store and a
// lead submitter.
func NewFlow(store *Store, leads Submitter) *Flow {
	return &Flow{
		store: store,
		leads: leads,
		now:   time.Now,
	}
}

// Start begins a fresh conversation for the chat, replacing any previous one,
// and produces the promo photo plus the welcome message with the bracket
// keyboard.
func (f *Flow) Start(ctx context.Context, chatID int64) Action {
	f.store.Begin(chatID)
	logger.Debug(ctx, "dialog", "conversation.start")
	return Action{
		Photo: promoPhotoID,
		Messages: []Message{
			{Text: welcomeText, HTML: true, Keyboard: KeyboardAgeBrackets},
		},
	}
}

// SelectAge handles a bracket button tap. On success the selection is stored,
// the conversation advances to the phone stage, and the user is asked for a
// phone number with a request-contact keyboard. Taps with an unknown code, or
// arriving when the chat has no conversation awaiting an age (expired, double
// tap, stale button), only produce a toast.
func (f *Flow) SelectAge(ctx context.Context, chatID int64, code string) Action {
	if !ValidBracket(code) {
		return Action{Toast: toastUnknownChoice}
	}
	if err := f.store.SetAge(chatID, code); err != nil {
		logger.Debug(ctx, "dialog", "age.rejected",
			slog.String("age", code),
			slog.String("err", err.Error()),
		)
		return Action{Toast: toastStaleChoice}
	}
	logger.Debug(ctx, "dialog", "age.selected",
		slog.String("age", code),
	)
	return Action{
		Toast: toastSelectedPrefix + code,
		Messages: []Message{
			{Text: phoneRequestText, Keyboard: KeyboardContactRequest},
		},
	}
}

// SubmitPhone handles an inbound message while the chat awaits a phone
// number. A structured contact payload takes precedence over free text; free
// text is accepted verbatim with no format validation. Without a usable value
// the user is re-prompted and the conversation stays armed; there is no retry
// bound. With a usable value the lead is submitted and the conversation ends
// regardless of the persistence outcome.
func (f *Flow) SubmitPhone(ctx context.Context, chatID int64, from User, text, contactPhone string) Action {
	conv, ok := f.store.Get(chatID)
	if !ok || conv.Stage != StageAwaitingPhone {
		return Action{}
	}

	phone := contactPhone
	if phone == "" {
		phone = text
	}
	if phone == "" {
		f.store.Touch(chatID)
		logger.Debug(ctx, "dialog", "phone.reprompt")
		return Action{
			Messages: []Message{
				{Text: phoneRepromptText, Keyboard: KeyboardRemove},
			},
		}
	}

	rec := lead.NewRecord(f.now(), from.DisplayName, from.Username, phone, conv.SelectedAge)
	err := f.leads.Submit(ctx, rec)
	f.store.End(chatID)
	if err != nil {
		logger.Error(ctx, "dialog", "lead.submit",
			slog.String("age", conv.SelectedAge),
			slog.String("err", err.Error()),
		)
		return Action{
			Messages: []Message{
				{Text: failureText, Keyboard: KeyboardRemove},
			},
		}
	}
	logger.Info(ctx, "dialog", "lead.captured",
		slog.String("age", conv.SelectedAge),
	)
	return Action{
		Messages: []Message{
			{Text: thanksText, Keyboard: KeyboardRemove},
		},
	}
}
