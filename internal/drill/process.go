package drill

import (
	"context"
	"log/slog"

	"github.com/Neio/wordmaster/internal/channel"
	"github.com/Neio/wordmaster/internal/quiz"
)

// Process dispatches one channel command and returns the resulting event.
func (e *Engine) Process(ctx context.Context, clientID string, cmd channel.Command) channel.Event {
	slog.Debug("processing command", "client_id", clientID, "type", cmd.Type)

	var v View
	switch cmd.Type {
	case channel.CommandSetup:
		v = e.Setup(clientID)
	case channel.CommandStart:
		v = e.Start(clientID, StartRequest{
			Book:    cmd.Book,
			Chapter: cmd.Chapter,
			Paste:   cmd.Paste,
			Mode:    quiz.ParseMode(cmd.Mode),
		})
	case channel.CommandReview:
		v = e.StartReview(clientID, ReviewRequest{
			Book:    cmd.Book,
			Chapter: cmd.Chapter,
			Mode:    quiz.ParseMode(cmd.Mode),
		})
	case channel.CommandCheck:
		v = e.Check(ctx, clientID, cmd.Spelling, cmd.Meaning)
	case channel.CommandNext:
		v = e.Next(clientID)
	case channel.CommandReset:
		v = e.Reset(clientID)
	case channel.CommandSpeak:
		v = e.Pronounce(clientID)
	case channel.CommandTheme:
		if _, err := e.ToggleTheme(ctx); err != nil {
			slog.Error("failed to save theme", "error", err)
		}
		v = e.Setup(clientID)
	default:
		return channel.Event{
			Type:    channel.EventError,
			Payload: channel.ErrorPayload{Message: "unknown command: " + cmd.Type},
		}
	}
	return channel.Event{Type: channel.EventView, Payload: v}
}
