package model

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one line of a simulated chat transcript.
type ChatMessage struct {
	Sender  Sender `json:"sender"`
	Message string `json:"message"`
}

// UserMessage builds a message written by the person testing the assistant.
func UserMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderUser, Message: text}
}

// AssistantMessage builds a reply from the assistant.
func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Sender: SenderAssistant, Message: text}
}

// LengthBucket selects which canned reply set answers a message.
type LengthBucket string

const (
	LengthShort  LengthBucket = "short"
	LengthMedium LengthBucket = "medium"
	LengthLong   LengthBucket = "long"
)
