// Package speech schedules word pronunciation on a text-to-speech collaborator.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	DefaultLang  = "en-US"
	DefaultRate  = 0.9
	DefaultDelay = 500 * time.Millisecond

	speakTimeout = 5 * time.Second
)

// Utterance is one request to the speech engine.
type Utterance struct {
	Text string  `json:"text"`
	Lang string  `json:"lang"`
	Rate float64 `json:"rate"`
}

// Speaker is a text-to-speech engine. Cancel stops whatever is being spoken.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel(ctx context.Context) error
}

// Config holds pronunciation settings. Zero values take the defaults.
type Config struct {
	Lang  string
	Rate  float64
	Delay time.Duration
}

// Pronouncer speaks words through a Speaker, at most one pending request at a time.
type Pronouncer struct {
	speaker Speaker
	lang    string
	rate    float64
	delay   time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewPronouncer creates a Pronouncer for speaker.
func NewPronouncer(speaker Speaker, cfg Config) *Pronouncer {
	lang := cfg.Lang
	if lang == "" {
		lang = DefaultLang
	}
	rate := cfg.Rate
	if rate == 0 {
		rate = DefaultRate
	}
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}
	return &Pronouncer{
		speaker: speaker,
		lang:    lang,
		rate:    rate,
		delay:   delay,
	}
}

// Schedule replaces any pending request and speaks word after the delay.
func (p *Pronouncer) Schedule(word string) {
	p.after(word, p.delay)
}

// Say drops any pending request and speaks word right away. It does not wait
// for the speaker.
func (p *Pronouncer) Say(word string) {
	p.after(word, 0)
}

func (p *Pronouncer) after(word string, delay time.Duration) {
	word = strings.TrimSpace(word)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if word == "" {
		return
	}

	gen := p.gen
	p.timer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		current := p.gen == gen
		if current {
			p.timer = nil
		}
		p.mu.Unlock()
		if current {
			p.speak(word)
		}
	})
}

// Stop drops any pending request.
func (p *Pronouncer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Pronouncer) stopLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// speak cancels current speech before starting the new utterance.
func (p *Pronouncer) speak(word string) {
	ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
	defer cancel()

	if err := p.speaker.Cancel(ctx); err != nil {
		slog.Warn("failed to cancel speech", "error", err)
	}
	u := Utterance{Text: word, Lang: p.lang, Rate: p.rate}
	if err := p.speaker.Speak(ctx, u); err != nil {
		slog.Warn("failed to speak word", "word", word, "error", err)
	}
}
