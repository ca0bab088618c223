// Package channel carries drill commands and views between the browser and the engine.
package channel

import (
	"context"

	"github.com/Neio/wordmaster/internal/speech"
)

// Command types sent by the client.
const (
	CommandSetup  = "setup"
	CommandStart  = "start"
	CommandReview = "review"
	CommandCheck  = "check"
	CommandNext   = "next"
	CommandReset  = "reset"
	CommandSpeak  = "speak"
	CommandTheme  = "theme"
)

// Event types sent to the client.
const (
	EventView         = "view"
	EventPronounce    = "pronounce"
	EventCancelSpeech = "cancel-speech"
	EventError        = "error"
)

// Command is one inbound request from a client.
type Command struct {
	Type     string `json:"type"`
	Book     string `json:"book,omitempty"`
	Chapter  string `json:"chapter,omitempty"`
	Paste    string `json:"paste,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Spelling string `json:"spelling,omitempty"`
	Meaning  string `json:"meaning,omitempty"`
}

// Event is one outbound message to a client.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ErrorPayload is the payload of an EventError.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Processor handles commands for connected clients.
type Processor interface {
	Connect(clientID string, speaker speech.Speaker)
	Disconnect(clientID string)
	Process(ctx context.Context, clientID string, cmd Command) Event
}
