package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/verify"
)

// Storage slot keys.
const (
	KeyMastered  = "wordmaster-mastered"
	KeyIncorrect = "wordmaster-incorrect"
)

// ErrMalformedData is reported (and recovered from) when a stored blob has an unknown shape.
var ErrMalformedData = errors.New("malformed persisted data")

// Blobs are the raw persisted forms of Progress, one per storage slot.
type Blobs struct {
	Mastered  string
	Incorrect string
}

// storedRecord is the on-disk shape of an incorrect record.
type storedRecord struct {
	Word    string  `json:"word"`
	Book    *string `json:"book"`
	Chapter *string `json:"chapter"`
}

// Incorrect-blob shapes, oldest first. The legacy shape is a flat list of
// words with no lesson information.
var (
	legacyIncorrectSchema = gojsonschema.NewStringLoader(`{
  "type": "array",
  "minItems": 1,
  "items": {"type": "string"}
}`)
	currentIncorrectSchema = gojsonschema.NewStringLoader(`{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["word"],
    "properties": {
      "word": {"type": "string"},
      "book": {"type": ["string", "null"]},
      "chapter": {"type": ["string", "null"]}
    }
  }
}`)
)

// Load rebuilds Progress from persisted blobs. It never fails: a malformed
// blob is logged and treated as empty.
func Load(b Blobs) *Progress {
	p := New()

	mastered, err := decodeMastered(b.Mastered)
	if err != nil {
		slog.Warn("could not parse mastered words, resetting", "error", err)
	}
	for _, w := range mastered {
		if key := verify.Normalize(w); key != "" {
			p.mastered[key] = struct{}{}
		}
	}

	records, err := decodeIncorrect(b.Incorrect)
	if err != nil {
		slog.Warn("could not parse incorrect words, resetting", "error", err)
	}
	for _, r := range records {
		if verify.Normalize(r.Word) == "" {
			continue
		}
		// Later duplicates replace earlier ones.
		p.removeIncorrect(verify.Normalize(r.Word))
		p.incorrect = append(p.incorrect, r)
	}

	return p
}

// Serialize renders p into its persisted blobs.
func (p *Progress) Serialize() Blobs {
	mastered, _ := json.Marshal(p.MasteredWords())

	stored := make([]storedRecord, 0, len(p.incorrect))
	for _, r := range p.incorrect {
		sr := storedRecord{Word: r.Word}
		if r.Lesson != nil {
			book, chapter := r.Lesson.Book, r.Lesson.Chapter
			sr.Book, sr.Chapter = &book, &chapter
		}
		stored = append(stored, sr)
	}
	incorrect, _ := json.Marshal(stored)

	return Blobs{Mastered: string(mastered), Incorrect: string(incorrect)}
}

func decodeMastered(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var words []string
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		return nil, fmt.Errorf("mastered words: %w: %v", ErrMalformedData, err)
	}
	return words, nil
}

// decodeIncorrect tries each known shape, oldest first.
func decodeIncorrect(raw string) ([]Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	doc := gojsonschema.NewStringLoader(raw)

	if matches(legacyIncorrectSchema, doc) {
		var words []string
		if err := json.Unmarshal([]byte(raw), &words); err != nil {
			return nil, fmt.Errorf("incorrect words: %w: %v", ErrMalformedData, err)
		}
		records := make([]Record, 0, len(words))
		for _, w := range words {
			records = append(records, Record{Word: w})
		}
		slog.Info("migrated legacy incorrect words", "count", len(records))
		return records, nil
	}

	if matches(currentIncorrectSchema, doc) {
		var stored []storedRecord
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return nil, fmt.Errorf("incorrect words: %w: %v", ErrMalformedData, err)
		}
		records := make([]Record, 0, len(stored))
		for _, sr := range stored {
			r := Record{Word: sr.Word}
			if sr.Book != nil && sr.Chapter != nil && *sr.Book != "" && *sr.Chapter != "" {
				r.Lesson = &library.LessonRef{Book: *sr.Book, Chapter: *sr.Chapter}
			}
			records = append(records, r)
		}
		return records, nil
	}

	return nil, fmt.Errorf("incorrect words: %w: unrecognized shape", ErrMalformedData)
}

func matches(schema, doc gojsonschema.JSONLoader) bool {
	result, err := gojsonschema.Validate(schema, doc)
	return err == nil && result.Valid()
}

// KV is the durable slot storage Progress is read from and written to.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Read loads Progress from kv. Storage errors are logged and yield empty slots.
func Read(ctx context.Context, kv KV) *Progress {
	var b Blobs
	if v, ok, err := kv.Get(ctx, KeyMastered); err != nil {
		slog.Warn("reading mastered words", "error", err)
	} else if ok {
		b.Mastered = v
	}
	if v, ok, err := kv.Get(ctx, KeyIncorrect); err != nil {
		slog.Warn("reading incorrect words", "error", err)
	} else if ok {
		b.Incorrect = v
	}
	return Load(b)
}

// Write stores both progress slots.
func Write(ctx context.Context, kv KV, p *Progress) error {
	b := p.Serialize()
	if err := kv.Set(ctx, KeyMastered, b.Mastered); err != nil {
		return fmt.Errorf("saving mastered words: %w", err)
	}
	if err := kv.Set(ctx, KeyIncorrect, b.Incorrect); err != nil {
		return fmt.Errorf("saving incorrect words: %w", err)
	}
	return nil
}
