package model

// TranscriptKey is where the chat transcript is persisted
const TranscriptKey = "chat_history"

// Speaker names who wrote a transcript entry
type Speaker string

const (
	FromUser Speaker = "user"
	FromBot  Speaker = "bot"
)

// ChatMessage is one transcript entry. Failed replies are stored as bot
// messages carrying the error text.
type ChatMessage struct {
	From    Speaker `json:"from"`
	Message string  `json:"message"`
}

// Greeting is shown when the transcript is empty
const Greeting = "Hi! How can I help you today?"
