// Package review selects the words of a lesson that are still recorded as missed.
package review

import (
	"errors"

	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/progress"
	"github.com/Neio/wordmaster/internal/verify"
	"github.com/Neio/wordmaster/internal/wordlist"
)

var (
	// ErrNoLessonSelected means review was requested without a library lesson.
	ErrNoLessonSelected = errors.New("no lesson selected")
	// ErrNothingToReview means the lesson has no outstanding misses.
	ErrNothingToReview = errors.New("nothing to review")
)

// SelectItems returns the items of lesson whose words are recorded as
// incorrect for that lesson, in library order.
func SelectItems(src wordlist.Source, p *progress.Progress, lesson *library.LessonRef) ([]library.WordItem, error) {
	if lesson == nil {
		return nil, ErrNoLessonSelected
	}
	if p.IncorrectCountFor(*lesson) == 0 {
		return nil, ErrNothingToReview
	}

	words, err := wordlist.FromLibrary(src, *lesson)
	if err != nil {
		return nil, err
	}

	missed := p.IncorrectWordsFor(*lesson)
	var items []library.WordItem
	for _, w := range words {
		if _, ok := missed[verify.Normalize(w.Word)]; ok {
			items = append(items, w)
		}
	}
	// Misses recorded against words since removed from the lesson.
	if len(items) == 0 {
		return nil, ErrNothingToReview
	}
	return items, nil
}
