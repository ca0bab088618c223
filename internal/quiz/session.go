// Package quiz implements the state machine of a single drill run.
//
// A Session is a value. Every transition returns the next Session together
// with whether it applied; a transition called from a state it is not valid
// in returns the receiver unchanged so repeated key presses are harmless.
package quiz

import (
	"errors"
	"fmt"
	"math"

	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/verify"
	"github.com/Neio/wordmaster/internal/wordlist"
)

// ErrEmptyList is returned by Start when there is nothing to quiz.
var ErrEmptyList = fmt.Errorf("no items to quiz: %w", wordlist.ErrEmptyList)

// ErrNotInSetup is returned by Start when a run is already underway.
var ErrNotInSetup = errors.New("session already started")

// State is the phase of a session.
type State int

const (
	StateSetup State = iota
	StateInProgress
	StateAwaitingNext
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateInProgress:
		return "in-progress"
	case StateAwaitingNext:
		return "awaiting-next"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Mode selects what the learner types for each word.
type Mode int

const (
	SpellingOnly Mode = iota
	SpellingAndMeaning
)

func (m Mode) String() string {
	if m == SpellingAndMeaning {
		return "spelling-meaning"
	}
	return "spelling-only"
}

// ParseMode maps a wire name to a Mode. Unknown names mean SpellingOnly.
func ParseMode(s string) Mode {
	if s == "spelling-meaning" {
		return SpellingAndMeaning
	}
	return SpellingOnly
}

// Score tallies answered items.
type Score struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Answered is the number of items scored so far.
func (s Score) Answered() int {
	return s.Correct + s.Incorrect
}

// Feedback describes the outcome of one checked answer.
// Meaning fields are only set in SpellingAndMeaning mode and never affect Success.
type Feedback struct {
	Success        bool     `json:"success"`
	Word           string   `json:"word"`
	Meaning        string   `json:"meaning"`
	Root           string   `json:"root,omitempty"`
	MeaningScore   *float64 `json:"meaning_score,omitempty"`
	MeaningCorrect *bool    `json:"meaning_correct,omitempty"`
}

// Summary is the result of a finished run.
type Summary struct {
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Percentage int `json:"percentage"`
}

// Session is one quiz run.
type Session struct {
	items    []library.WordItem
	index    int
	score    Score
	mode     Mode
	lesson   *library.LessonRef
	state    State
	feedback *Feedback
}

// New returns a session in Setup.
func New() Session {
	return Session{}
}

// Start shuffles items and begins the run. It is only valid from Setup.
func (s Session) Start(items []library.WordItem, mode Mode, lesson *library.LessonRef, r wordlist.Shuffler) (Session, error) {
	if s.state != StateSetup {
		return s, ErrNotInSetup
	}
	if len(items) == 0 {
		return s, ErrEmptyList
	}

	var ref *library.LessonRef
	if lesson != nil {
		l := *lesson
		ref = &l
	}
	return Session{
		items:  wordlist.Shuffle(items, r),
		mode:   mode,
		lesson: ref,
		state:  StateInProgress,
	}, nil
}

// CheckAnswer scores the current item. Spelling alone decides success.
// It is only valid from InProgress.
func (s Session) CheckAnswer(spelling, meaning string) (Session, Feedback, bool) {
	if s.state != StateInProgress {
		return s, Feedback{}, false
	}

	current := s.items[s.index]
	fb := Feedback{
		Success: verify.VerifySpelling(spelling, current.Word),
		Word:    current.Word,
		Meaning: current.Meaning,
		Root:    current.Root,
	}
	if s.mode == SpellingAndMeaning {
		score := verify.ScoreMeaningSimilarity(meaning, current.Meaning)
		ok := score >= verify.MeaningThreshold
		fb.MeaningScore = &score
		fb.MeaningCorrect = &ok
	}

	if fb.Success {
		s.score.Correct++
	} else {
		s.score.Incorrect++
	}
	s.state = StateAwaitingNext
	s.feedback = &fb
	return s, fb, true
}

// Advance moves past the scored item, finishing the run after the last one.
// It is only valid from AwaitingNext.
func (s Session) Advance() (Session, bool) {
	if s.state != StateAwaitingNext {
		return s, false
	}
	s.index++
	s.feedback = nil
	if s.index >= len(s.items) {
		s.state = StateFinished
	} else {
		s.state = StateInProgress
	}
	return s, true
}

// Reset discards the run from any state.
func (s Session) Reset() Session {
	return New()
}

// State returns the current phase.
func (s Session) State() State { return s.state }

// Mode returns the mode fixed at Start.
func (s Session) Mode() Mode { return s.mode }

// Lesson returns the lesson being drilled, or nil for pasted lists.
func (s Session) Lesson() *library.LessonRef { return s.lesson }

// Score returns the running tally.
func (s Session) Score() Score { return s.score }

// Index returns the position of the current item.
func (s Session) Index() int { return s.index }

// Total returns the number of items in the run.
func (s Session) Total() int { return len(s.items) }

// Current returns the item being asked, if any.
func (s Session) Current() (library.WordItem, bool) {
	if s.state != StateInProgress && s.state != StateAwaitingNext {
		return library.WordItem{}, false
	}
	return s.items[s.index], true
}

// LastFeedback returns the feedback shown while awaiting the next item.
func (s Session) LastFeedback() (Feedback, bool) {
	if s.state != StateAwaitingNext || s.feedback == nil {
		return Feedback{}, false
	}
	return *s.feedback, true
}

// Summary returns the final result once the run is finished.
func (s Session) Summary() (Summary, bool) {
	if s.state != StateFinished {
		return Summary{}, false
	}
	total := len(s.items)
	return Summary{
		Total:      total,
		Correct:    s.score.Correct,
		Incorrect:  s.score.Incorrect,
		Percentage: int(math.Round(float64(s.score.Correct) / float64(total) * 100)),
	}, true
}
