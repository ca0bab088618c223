// Package library loads the built-in word library from YAML and XLSX files.
package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const bookSchema = `{
  "type": "object",
  "required": ["book", "chapters"],
  "properties": {
    "book": {"type": "string", "pattern": "\\S"},
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "words"],
        "properties": {
          "name": {"type": "string", "pattern": "\\S"},
          "words": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["word"],
              "properties": {
                "word": {"type": "string"},
                "meaning": {"type": "string"},
                "root": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var bookSchemaLoader = gojsonschema.NewStringLoader(bookSchema)

// Loader loads and caches the word library from the filesystem.
type Loader struct {
	rootDir string
	books   []Book
	lessons map[LessonRef][]WordItem
	mu      sync.RWMutex
}

// NewLoader creates a new library loader and loads all books under rootDir.
// A missing directory yields an empty library.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		lessons: make(map[LessonRef][]WordItem),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading library: %w", err)
	}

	slog.Info("library loaded", "books", len(l.books), "lessons", len(l.lessons))
	return l, nil
}

// Lesson returns the word list for ref.
func (l *Loader) Lesson(ref LessonRef) ([]WordItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	words, ok := l.lessons[ref]
	if !ok {
		return nil, false
	}
	return append([]WordItem(nil), words...), true
}

// Lessons returns every lesson in load order.
func (l *Loader) Lessons() []LessonRef {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var refs []LessonRef
	for _, b := range l.books {
		for _, c := range b.Chapters {
			refs = append(refs, LessonRef{Book: b.Name, Chapter: c.Name})
		}
	}
	return refs
}

// Books returns all loaded books.
func (l *Loader) Books() []Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Book(nil), l.books...)
}

func (l *Loader) loadAll() error {
	if _, err := os.Stat(l.rootDir); os.IsNotExist(err) {
		slog.Warn("library directory not found", "path", l.rootDir)
		return nil
	}

	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return l.loadYAMLBook(path)
		case ".xlsx":
			return l.loadWorkbook(path)
		}
		return nil
	})
}

func (l *Loader) loadYAMLBook(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("skipping invalid book YAML", "path", path, "error", err)
		return nil
	}
	result, err := gojsonschema.Validate(bookSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		slog.Warn("skipping unreadable book YAML", "path", path, "error", err)
		return nil
	}
	if !result.Valid() {
		slog.Warn("skipping book YAML failing schema", "path", path, "errors", schemaErrors(result))
		return nil
	}

	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		slog.Warn("skipping invalid book YAML", "path", path, "error", err)
		return nil
	}

	l.addBook(book)
	return nil
}

// loadWorkbook reads an XLSX book: one chapter per sheet, header row naming
// the word, meaning and root columns.
func (l *Loader) loadWorkbook(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		slog.Warn("skipping unreadable workbook", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	book := Book{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			slog.Warn("skipping unreadable sheet", "path", path, "sheet", sheet, "error", err)
			continue
		}
		words, ok := parseSheet(rows)
		if !ok {
			slog.Warn("skipping sheet without word column", "path", path, "sheet", sheet)
			continue
		}
		book.Chapters = append(book.Chapters, Chapter{Name: sheet, Words: words})
	}

	l.addBook(book)
	return nil
}

func parseSheet(rows [][]string) ([]WordItem, bool) {
	if len(rows) == 0 {
		return nil, false
	}

	cols := map[string]int{"word": -1, "meaning": -1, "root": -1}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[key]; ok {
			cols[key] = i
		}
	}
	if cols["word"] < 0 {
		return nil, false
	}

	cell := func(row []string, key string) string {
		i := cols[key]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var words []WordItem
	for _, row := range rows[1:] {
		words = append(words, WordItem{
			Word:    cell(row, "word"),
			Meaning: cell(row, "meaning"),
			Root:    cell(row, "root"),
		})
	}
	return words, true
}

func (l *Loader) addBook(book Book) {
	book.Name = strings.TrimSpace(book.Name)
	if book.Name == "" {
		slog.Warn("skipping book without a name")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := book.Chapters[:0]
	for _, c := range book.Chapters {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			slog.Warn("skipping chapter without a name", "book", book.Name)
			continue
		}
		ref := LessonRef{Book: book.Name, Chapter: c.Name}
		if _, dup := l.lessons[ref]; dup {
			slog.Warn("skipping duplicate lesson", "book", ref.Book, "chapter", ref.Chapter)
			continue
		}
		c.Words = cleanWords(c.Words)
		l.lessons[ref] = c.Words
		kept = append(kept, c)
	}
	book.Chapters = kept
	if len(book.Chapters) > 0 {
		l.books = append(l.books, book)
	}
}

func cleanWords(in []WordItem) []WordItem {
	out := make([]WordItem, 0, len(in))
	for _, w := range in {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			continue
		}
		w.Meaning = strings.TrimSpace(w.Meaning)
		w.Root = strings.TrimSpace(w.Root)
		out = append(out, w)
	}
	return out
}

func schemaErrors(result *gojsonschema.Result) []string {
	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs
}
