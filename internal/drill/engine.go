// Package drill runs vocabulary drills for connected clients on top of the
// word library, the quiz state machine and durable progress.
package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/progress"
	"github.com/Neio/wordmaster/internal/quiz"
	"github.com/Neio/wordmaster/internal/review"
	"github.com/Neio/wordmaster/internal/speech"
	"github.com/Neio/wordmaster/internal/storage"
	"github.com/Neio/wordmaster/internal/wordlist"
)

// KeyTheme is the storage slot holding the colour theme.
const KeyTheme = "wordmaster-theme"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Messages shown on the setup screen.
const (
	MsgNoWords          = "Please select or enter some words first!"
	MsgSelectLesson     = "Please select a library item first."
	MsgNothingToReview  = "Great job! No incorrect words for this lesson."
	MsgLessonNotFound   = "Lesson not found."
	MsgProgressNotSaved = "Your progress could not be saved."
	msgUnexpected       = "Something went wrong. Please try again."
)

// Library is the read-only word library the engine drills from.
type Library interface {
	wordlist.Source
	Lessons() []library.LessonRef
}

// EngineConfig holds dependencies for the drill engine.
type EngineConfig struct {
	Library Library
	Store   storage.Store
	Rand    wordlist.Shuffler // default: PCG seeded at random
	Speech  speech.Config
	Mute    bool // ignore speakers passed to Connect
}

// StartRequest selects the words of a new run. A library lesson wins over pasted text.
type StartRequest struct {
	Book    string
	Chapter string
	Paste   string
	Mode    quiz.Mode
}

// ReviewRequest selects the lesson whose missed words are drilled again.
type ReviewRequest struct {
	Book    string
	Chapter string
	Mode    quiz.Mode
}

// Engine owns every client's session and the shared progress.
// All operations are serialized.
type Engine struct {
	library Library
	store   storage.Store
	rand    wordlist.Shuffler
	speech  speech.Config
	mute    bool

	mu       sync.Mutex
	progress *progress.Progress
	theme    string
	clients  *clients
}

// NewEngine creates a drill engine and loads progress and theme from the store.
func NewEngine(ctx context.Context, cfg EngineConfig) *Engine {
	store := cfg.Store
	if store == nil {
		store = storage.NewMemoryStore()
	}
	lib := cfg.Library
	if lib == nil {
		lib = emptyLibrary{}
	}
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e := &Engine{
		library:  lib,
		store:    store,
		rand:     r,
		speech:   cfg.Speech,
		mute:     cfg.Mute,
		progress: progress.Read(ctx, store),
		theme:    loadTheme(ctx, store),
		clients:  newClients(),
	}
	slog.Info("drill engine ready",
		"lessons", len(lib.Lessons()),
		"mastered", e.progress.MasteredCount(),
		"incorrect", len(e.progress.Incorrect()),
	)
	return e
}

// Connect registers a client and the speaker its words are pronounced on.
func (e *Engine) Connect(clientID string, speaker speech.Speaker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	cl.stopSpeech()
	cl.pronouncer = nil
	if speaker != nil && !e.mute {
		cl.pronouncer = speech.NewPronouncer(speaker, e.speech)
	}
	slog.Info("client connected", "client_id", clientID, "clients", e.clients.len())
}

// Disconnect drops a client and its session.
func (e *Engine) Disconnect(clientID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clients.remove(clientID)
	slog.Info("client disconnected", "client_id", clientID, "clients", e.clients.len())
}

// Setup returns the client's current view: the setup screen when no run is active.
func (e *Engine) Setup(clientID string) View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked(e.clients.get(clientID), "")
}

// Start begins a run from a library lesson or pasted text.
func (e *Engine) Start(clientID string, req StartRequest) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	if cl.session.State() != quiz.StateSetup {
		return e.viewLocked(cl, "")
	}

	var (
		items  []library.WordItem
		lesson *library.LessonRef
		err    error
	)
	switch {
	case req.Book != "" && req.Chapter != "":
		ref := library.LessonRef{Book: req.Book, Chapter: req.Chapter}
		items, err = wordlist.FromLibrary(e.library, ref)
		lesson = &ref
	case strings.TrimSpace(req.Paste) != "":
		items, err = wordlist.FromPaste(req.Paste)
	default:
		err = wordlist.ErrEmptyList
	}
	if err != nil {
		return e.viewLocked(cl, userMessage(err))
	}
	return e.startLocked(cl, items, req.Mode, lesson)
}

// StartReview begins a run over the words still missed in a lesson.
func (e *Engine) StartReview(clientID string, req ReviewRequest) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	if cl.session.State() != quiz.StateSetup {
		return e.viewLocked(cl, "")
	}

	var lesson *library.LessonRef
	if req.Book != "" && req.Chapter != "" {
		lesson = &library.LessonRef{Book: req.Book, Chapter: req.Chapter}
	}
	items, err := review.SelectItems(e.library, e.progress, lesson)
	if err != nil {
		return e.viewLocked(cl, userMessage(err))
	}
	return e.startLocked(cl, items, req.Mode, lesson)
}

func (e *Engine) startLocked(cl *client, items []library.WordItem, mode quiz.Mode, lesson *library.LessonRef) View {
	next, err := cl.session.Start(items, mode, lesson, e.rand)
	if err != nil {
		return e.viewLocked(cl, userMessage(err))
	}
	cl.session = next

	if cur, ok := cl.session.Current(); ok {
		cl.schedule(cur.Word)
	}
	slog.Info("drill started",
		"words", cl.session.Total(),
		"mode", mode.String(),
		"lesson", lessonAttr(lesson),
	)
	return e.viewLocked(cl, "")
}

// Check scores an answer, records it in progress and saves progress before returning.
func (e *Engine) Check(ctx context.Context, clientID, spelling, meaning string) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	next, fb, ok := cl.session.CheckAnswer(spelling, meaning)
	if !ok {
		return e.viewLocked(cl, "")
	}
	cl.session = next
	cl.stopSpeech()

	if fb.Success {
		e.progress.RecordCorrect(fb.Word)
	} else {
		e.progress.RecordIncorrect(fb.Word, cl.session.Lesson())
	}

	var msg string
	if err := progress.Write(ctx, e.store, e.progress); err != nil {
		slog.Error("failed to save progress", "error", err)
		msg = MsgProgressNotSaved
	}
	return e.viewLocked(cl, msg)
}

// Next moves to the following word or to the summary.
func (e *Engine) Next(clientID string) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	next, ok := cl.session.Advance()
	if !ok {
		return e.viewLocked(cl, "")
	}
	cl.session = next

	if cur, ok := cl.session.Current(); ok {
		cl.schedule(cur.Word)
	} else if sum, ok := cl.session.Summary(); ok {
		slog.Info("drill finished",
			"total", sum.Total,
			"correct", sum.Correct,
			"percentage", sum.Percentage,
		)
	}
	return e.viewLocked(cl, "")
}

// Reset abandons the run and returns to setup. Progress is kept.
func (e *Engine) Reset(clientID string) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	cl.stopSpeech()
	cl.session = cl.session.Reset()
	return e.viewLocked(cl, "")
}

// Pronounce speaks the current word again right away.
func (e *Engine) Pronounce(clientID string) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	cl := e.clients.get(clientID)
	if cur, ok := cl.session.Current(); ok {
		cl.say(cur.Word)
	}
	return e.viewLocked(cl, "")
}

// Theme returns the colour theme.
func (e *Engine) Theme() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// ToggleTheme switches between dark and light and stores the choice.
func (e *Engine) ToggleTheme(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := ThemeDark
	if e.theme == ThemeDark {
		next = ThemeLight
	}
	if err := e.store.Set(ctx, KeyTheme, next); err != nil {
		return e.theme, fmt.Errorf("saving theme: %w", err)
	}
	e.theme = next
	return e.theme, nil
}

// Lessons lists library lessons with their word and outstanding miss counts.
func (e *Engine) Lessons() []LessonSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lessonsLocked()
}

// Progress returns a snapshot of mastered words and outstanding misses.
func (e *Engine) Progress() ProgressView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := ProgressView{
		Mastered:  e.progress.MasteredWords(),
		Incorrect: []IncorrectRecord{},
	}
	for _, r := range e.progress.Incorrect() {
		rec := IncorrectRecord{Word: r.Word}
		if r.Lesson != nil {
			rec.Book, rec.Chapter = r.Lesson.Book, r.Lesson.Chapter
		}
		view.Incorrect = append(view.Incorrect, rec)
	}
	return view
}

// Ping checks that the store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	_, _, err := e.store.Get(ctx, KeyTheme)
	return err
}

func (e *Engine) lessonsLocked() []LessonSummary {
	refs := e.library.Lessons()
	out := make([]LessonSummary, 0, len(refs))
	for _, ref := range refs {
		words, _ := e.library.Lesson(ref)
		out = append(out, LessonSummary{
			Book:      ref.Book,
			Chapter:   ref.Chapter,
			Words:     len(words),
			Incorrect: e.progress.IncorrectCountFor(ref),
		})
	}
	return out
}

func (e *Engine) viewLocked(cl *client, msg string) View {
	v := View{Theme: e.theme, Message: msg}
	s := cl.session

	switch s.State() {
	case quiz.StateInProgress:
		v.Screen = ScreenQuestion
		v.Question = questionView(s)
	case quiz.StateAwaitingNext:
		fb, _ := s.LastFeedback()
		v.Screen = ScreenFeedback
		v.Feedback = feedbackView(s, fb)
	case quiz.StateFinished:
		sum, _ := s.Summary()
		v.Screen = ScreenSummary
		v.Summary = &sum
	default:
		v.Screen = ScreenSetup
		v.Setup = &SetupView{
			Lessons:       e.lessonsLocked(),
			MasteredCount: e.progress.MasteredCount(),
		}
	}
	return v
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, wordlist.ErrNotFound):
		return MsgLessonNotFound
	case errors.Is(err, wordlist.ErrEmptyList):
		return MsgNoWords
	case errors.Is(err, review.ErrNoLessonSelected):
		return MsgSelectLesson
	case errors.Is(err, review.ErrNothingToReview):
		return MsgNothingToReview
	default:
		slog.Error("unexpected drill error", "error", err)
		return msgUnexpected
	}
}

func loadTheme(ctx context.Context, store storage.Store) string {
	v, ok, err := store.Get(ctx, KeyTheme)
	if err != nil {
		slog.Warn("reading theme", "error", err)
		return ThemeDark
	}
	if ok && v == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

func lessonAttr(lesson *library.LessonRef) string {
	if lesson == nil {
		return "pasted"
	}
	return lesson.String()
}

type emptyLibrary struct{}

func (emptyLibrary) Lesson(library.LessonRef) ([]library.WordItem, bool) { return nil, false }
func (emptyLibrary) Lessons() []library.LessonRef { return nil }
