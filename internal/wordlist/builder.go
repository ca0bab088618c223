// Package wordlist turns a library selection or pasted text into quiz items.
package wordlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Neio/wordmaster/internal/library"
)

var (
	// ErrNotFound means the requested lesson is not in the library.
	ErrNotFound = errors.New("lesson not found")
	// ErrEmptyList means the source produced no words.
	ErrEmptyList = errors.New("word list is empty")
)

// pasteSeparators split a pasted line into word and meaning; the first one found wins.
const pasteSeparators = ":-\t"

// Source is a read-only word library.
type Source interface {
	Lesson(ref library.LessonRef) ([]library.WordItem, bool)
}

// Shuffler permutes n elements through swap. *math/rand/v2.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// FromLibrary returns the words of a library lesson in library order.
func FromLibrary(src Source, ref library.LessonRef) ([]library.WordItem, error) {
	words, ok := src.Lesson(ref)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", ref, ErrEmptyList)
	}
	return words, nil
}

// FromPaste parses one word per line. A line may carry a meaning after the
// first ':', '-' or tab. Blank lines are dropped and input order is kept.
func FromPaste(text string) ([]library.WordItem, error) {
	var items []library.WordItem
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		item, ok := parseLine(line)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrEmptyList
	}
	return items, nil
}

func parseLine(line string) (library.WordItem, bool) {
	var item library.WordItem
	if idx := strings.IndexAny(line, pasteSeparators); idx >= 0 {
		item.Word = strings.TrimSpace(line[:idx])
		item.Meaning = strings.TrimSpace(line[idx+1:])
	} else {
		item.Word = strings.TrimSpace(line)
	}
	return item, item.Word != ""
}

// Shuffle returns a uniformly permuted copy of items.
func Shuffle(items []library.WordItem, r Shuffler) []library.WordItem {
	out := append([]library.WordItem(nil), items...)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
