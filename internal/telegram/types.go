// Package telegram holds the Bot API types this service exchanges and
// the outbound sendMessage client.
package telegram

// Update is the webhook payload. Message is nil for update kinds this
// bot does not handle (edits, channel posts, etc.).
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Chat      Chat   `json:"chat"`
	From      User   `json:"from"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID int64 `json:"id"`
}

// ReplyKeyboardMarkup is the one-tap month keyboard offered after a
// listing request.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	OneTimeKeyboard bool               `json:"one_time_keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard"`
}

type KeyboardButton struct {
	Text string `json:"text"`
}

// KeyboardOf builds a one-column keyboard from the given labels.
func KeyboardOf(labels []string) *ReplyKeyboardMarkup {
	if len(labels) == 0 {
		return nil
	}
	rows := make([][]KeyboardButton, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []KeyboardButton{{Text: l}})
	}
	return &ReplyKeyboardMarkup{Keyboard: rows, OneTimeKeyboard: true, ResizeKeyboard: true}
}
