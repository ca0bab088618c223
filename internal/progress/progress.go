// Package progress tracks mastered words and per-lesson missed words across sessions.
package progress

import (
	"slices"

	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/verify"
)

// Record is an outstanding miss. Lesson is nil for words missed outside a library lesson.
type Record struct {
	Word   string
	Lesson *library.LessonRef
}

// Progress holds the mastered set and the incorrect index.
// At most one Record exists per normalized word.
type Progress struct {
	mastered  map[string]struct{}
	incorrect []Record
}

// New returns empty progress.
func New() *Progress {
	return &Progress{mastered: make(map[string]struct{})}
}

// RecordCorrect marks word as mastered and clears any miss recorded for it.
func (p *Progress) RecordCorrect(word string) {
	key := verify.Normalize(word)
	if key == "" {
		return
	}
	p.mastered[key] = struct{}{}
	p.removeIncorrect(key)
}

// RecordIncorrect replaces any miss recorded for word with one tied to lesson.
// Misses without a lesson are not kept since they can never be reviewed.
// Mastery is not revoked.
func (p *Progress) RecordIncorrect(word string, lesson *library.LessonRef) {
	key := verify.Normalize(word)
	if key == "" {
		return
	}
	p.removeIncorrect(key)
	if lesson == nil {
		return
	}
	ref := *lesson
	p.incorrect = append(p.incorrect, Record{Word: word, Lesson: &ref})
}

// IncorrectCountFor counts misses recorded for exactly this lesson.
func (p *Progress) IncorrectCountFor(lesson library.LessonRef) int {
	n := 0
	for _, r := range p.incorrect {
		if r.Lesson != nil && *r.Lesson == lesson {
			n++
		}
	}
	return n
}

// IncorrectWordsFor returns the normalized words missed in lesson.
func (p *Progress) IncorrectWordsFor(lesson library.LessonRef) map[string]struct{} {
	words := make(map[string]struct{})
	for _, r := range p.incorrect {
		if r.Lesson != nil && *r.Lesson == lesson {
			words[verify.Normalize(r.Word)] = struct{}{}
		}
	}
	return words
}

// Incorrect returns a copy of the incorrect index in insertion order.
func (p *Progress) Incorrect() []Record {
	out := make([]Record, len(p.incorrect))
	for i, r := range p.incorrect {
		out[i] = r
		if r.Lesson != nil {
			ref := *r.Lesson
			out[i].Lesson = &ref
		}
	}
	return out
}

// MasteredWords returns the mastered set sorted.
func (p *Progress) MasteredWords() []string {
	words := make([]string, 0, len(p.mastered))
	for w := range p.mastered {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// MasteredCount returns the number of words ever answered correctly.
func (p *Progress) MasteredCount() int {
	return len(p.mastered)
}

// IsMastered reports whether word was ever answered correctly.
func (p *Progress) IsMastered(word string) bool {
	_, ok := p.mastered[verify.Normalize(word)]
	return ok
}

func (p *Progress) removeIncorrect(key string) {
	p.incorrect = slices.DeleteFunc(p.incorrect, func(r Record) bool {
		return verify.Normalize(r.Word) == key
	})
}
