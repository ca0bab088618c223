package library

import "fmt"

// WordItem is one vocabulary entry.
type WordItem struct {
	Word    string `json:"word" yaml:"word"`
	Meaning string `json:"meaning" yaml:"meaning"`
	Root    string `json:"root,omitempty" yaml:"root"`
}

// LessonRef identifies a chapter inside a book of the library.
type LessonRef struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
}

func (r LessonRef) String() string {
	return fmt.Sprintf("%s / %s", r.Book, r.Chapter)
}

// Book is a named, ordered collection of chapters.
type Book struct {
	Name     string    `yaml:"book"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter is a single lesson's word list.
type Chapter struct {
	Name  string     `yaml:"name"`
	Words []WordItem `yaml:"words"`
}
