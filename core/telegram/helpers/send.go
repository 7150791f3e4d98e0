package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendText sends raw text (no parse mode) with optional reply markup.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	if len(markup) > 0 && markup[0] != nil {
		return c.Send(text, &tele.SendOptions{ReplyMarkup: markup[0]})
	}
	return c.Send(text)
}

// SendHTML sends a message with HTML parse mode and optional reply markup.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return c.Send(text, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: rm})
}

// SendPhotoID sends a photo referenced by a Telegram file ID.
func SendPhotoID(c tele.Context, fileID string) error {
	photo := &tele.Photo{File: tele.File{FileID: fileID}}
	return c.Send(photo)
}
