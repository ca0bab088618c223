package drill

import (
	"github.com/Neio/wordmaster/internal/quiz"
	"github.com/Neio/wordmaster/internal/speech"
)

// client is the per-connection drill state.
type client struct {
	session    quiz.Session
	pronouncer *speech.Pronouncer
}

// clients tracks drill state by client ID. Callers hold the engine lock.
type clients struct {
	byID map[string]*client
}

func newClients() *clients {
	return &clients{byID: make(map[string]*client)}
}

// get returns the client for id, creating an idle one if needed.
func (c *clients) get(id string) *client {
	cl, ok := c.byID[id]
	if !ok {
		cl = &client{session: quiz.New()}
		c.byID[id] = cl
	}
	return cl
}

func (c *clients) remove(id string) {
	if cl, ok := c.byID[id]; ok {
		if cl.pronouncer != nil {
			cl.pronouncer.Stop()
		}
		delete(c.byID, id)
	}
}

func (c *clients) len() int {
	return len(c.byID)
}

func (cl *client) schedule(word string) {
	if cl.pronouncer != nil {
		cl.pronouncer.Schedule(word)
	}
}

func (cl *client) say(word string) {
	if cl.pronouncer != nil {
		cl.pronouncer.Say(word)
	}
}

func (cl *client) stopSpeech() {
	if cl.pronouncer != nil {
		cl.pronouncer.Stop()
	}
}
