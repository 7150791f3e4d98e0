// Package bot binds the conversation flow to Telegram endpoints and renders
// flow actions through the transport helpers.
package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/neshkola/leadbot/core/telegram"
	"github.com/neshkola/leadbot/core/telegram/callbacks"
	"github.com/neshkola/leadbot/core/telegram/helpers"
	"github.com/neshkola/leadbot/core/telegram/keyboard"
	"github.com/neshkola/leadbot/internal/dialog"
	"github.com/neshkola/leadbot/internal/lead"
)

const contactButtonLabel = "Отправить номер телефона"

// Bot translates Telegram updates into flow events.
type Bot struct {
	flow *dialog.Flow
}

func New(flow *dialog.Flow) *Bot {
	return &Bot{flow: flow}
}

// Routes returns the endpoint bindings for the lead-capture dialogue. Every
// message kind a user can send mid-dialogue routes to the same handler: a
// phone submission when a conversation awaits one, silence otherwise. Media
// and location bindings matter for the phone stage, where a sticker or a
// voice note carries no usable phone and must trigger the re-prompt instead
// of being dropped by the dispatcher.
func (b *Bot) Routes() []telegram.Route {
	return []telegram.Route{
		{Endpoint: "/start", Handler: b.onStart},
		{Endpoint: tele.OnCallback, Handler: b.onAgeSelected},
		{Endpoint: tele.OnText, Handler: b.onMessage},
		{Endpoint: tele.OnContact, Handler: b.onMessage},
		{Endpoint: tele.OnMedia, Handler: b.onMessage},
		{Endpoint: tele.OnLocation, Handler: b.onMessage},
	}
}

func (b *Bot) onStart(c tele.Context) error {
	ctx := helpers.WithHandler(c, "start")
	act := b.flow.Start(ctx, c.Chat().ID)
	return b.render(c, act)
}

func (b *Bot) onAgeSelected(c tele.Context) error {
	ctx := helpers.WithHandler(c, "age_selected")

	// Telebot-native buttons carry \fage|<code>; buttons sent by earlier
	// deployments carry the bare code in the key position.
	code := callbacks.CallbackPayload(c)
	if code == "" {
		code = callbacks.CallbackKey(c)
	}

	act := b.flow.SelectAge(ctx, c.Chat().ID, code)
	return b.render(c, act)
}

func (b *Bot) onMessage(c tele.Context) error {
	ctx := helpers.WithHandler(c, "phone")

	var contactPhone string
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		contactPhone = msg.Contact.PhoneNumber
	}
	text := strings.TrimSpace(c.Text())

	act := b.flow.SubmitPhone(ctx, c.Chat().ID, senderOf(c), text, contactPhone)
	return b.render(c, act)
}

func senderOf(c tele.Context) dialog.User {
	user := c.Sender()
	if user == nil {
		return dialog.User{}
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return dialog.User{
		DisplayName: name,
		Username:    user.Username,
	}
}

// render performs the sends an action describes. The callback is answered
// first so the client spinner clears even if a later send fails.
func (b *Bot) render(c tele.Context, act dialog.Action) error {
	if c.Callback() != nil {
		resp := &tele.CallbackResponse{}
		if act.Toast != "" {
			resp.Text = act.Toast
		}
		if err := c.Respond(resp); err != nil {
			return err
		}
	}

	if act.Photo != "" {
		if err := helpers.SendPhotoID(c, act.Photo); err != nil {
			return err
		}
	}

	for _, msg := range act.Messages {
		markup := buildKeyboard(msg.Keyboard)
		var err error
		if msg.HTML {
			err = helpers.SendHTML(c, msg.Text, markup)
		} else {
			err = helpers.SendText(c, msg.Text, markup)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func buildKeyboard(kind dialog.Keyboard) *tele.ReplyMarkup {
	switch kind {
	case dialog.KeyboardAgeBrackets:
		codes := dialog.Brackets()
		buttons := make([]keyboard.InlineBtn, len(codes))
		for i, code := range codes {
			buttons[i] = keyboard.InlineBtn{
				Text:   lead.AgeLabel(code),
				Unique: "age",
				Data:   code,
			}
		}
		return keyboard.InlineButtons(buttons)
	case dialog.KeyboardContactRequest:
		return keyboard.ContactRequest(contactButtonLabel)
	case dialog.KeyboardRemove:
		return keyboard.RemoveKeyboard()
	}
	return nil
}
