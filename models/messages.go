package models

// Message is a Slack reply made of markdown section blocks. Text is the
// notification fallback.
type Message struct {
	Text     string
	Sections []string
}

func NewMessage(text string, sections ...string) Message {
	return Message{Text: text, Sections: sections}
}
