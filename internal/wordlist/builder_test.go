package wordlist

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Neio/wordmaster/internal/library"
)

type mapSource map[library.LessonRef][]library.WordItem

func (m mapSource) Lesson(ref library.LessonRef) ([]library.WordItem, bool) {
	w, ok := m[ref]
	return w, ok
}

func TestFromPaste(t *testing.T) {
	got, err := FromPaste("apple\nbanana: a fruit\n\ncarrot-veg")
	if err != nil {
		t.Fatalf("FromPaste() error = %v", err)
	}

	want := []library.WordItem{
		{Word: "apple", Meaning: ""},
		{Word: "banana", Meaning: "a fruit"},
		{Word: "carrot", Meaning: "veg"},
	}
	assertItems(t, got, want)
}

func TestFromPaste_Separators(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []library.WordItem
	}{
		{"tab", "dog\tanimal", []library.WordItem{{Word: "dog", Meaning: "animal"}}},
		{"first separator wins", "a-b: c", []library.WordItem{{Word: "a", Meaning: "b: c"}}},
		{"colon before dash", "well: well-known", []library.WordItem{{Word: "well", Meaning: "well-known"}}},
		{"crlf", "one\r\ntwo: 2\r\n", []library.WordItem{{Word: "one"}, {Word: "two", Meaning: "2"}}},
		{"whitespace trimmed", "  pear  :  green fruit  ", []library.WordItem{{Word: "pear", Meaning: "green fruit"}}},
		{"empty word dropped", ": orphan meaning\nkiwi", []library.WordItem{{Word: "kiwi"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromPaste(tt.text)
			if err != nil {
				t.Fatalf("FromPaste() error = %v", err)
			}
			assertItems(t, got, tt.want)
		})
	}
}

func TestFromPaste_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   \n\t\n", ":\n-"} {
		if _, err := FromPaste(text); !errors.Is(err, ErrEmptyList) {
			t.Errorf("FromPaste(%q) error = %v, want ErrEmptyList", text, err)
		}
	}
}

func TestFromLibrary(t *testing.T) {
	ref := library.LessonRef{Book: "B", Chapter: "C"}
	src := mapSource{
		ref: {{Word: "x"}, {Word: "y"}},
		{Book: "B", Chapter: "Empty"}: {},
	}

	got, err := FromLibrary(src, ref)
	if err != nil {
		t.Fatalf("FromLibrary() error = %v", err)
	}
	assertItems(t, got, []library.WordItem{{Word: "x"}, {Word: "y"}})

	if _, err := FromLibrary(src, library.LessonRef{Book: "B", Chapter: "Z"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FromLibrary(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := FromLibrary(src, library.LessonRef{Book: "B", Chapter: "Empty"}); !errors.Is(err, ErrEmptyList) {
		t.Errorf("FromLibrary(empty) error = %v, want ErrEmptyList", err)
	}
}

func TestShuffle_Permutation(t *testing.T) {
	items := []library.WordItem{{Word: "a"}, {Word: "b"}, {Word: "c"}, {Word: "d"}}
	r := rand.New(rand.NewPCG(1, 2))

	got := Shuffle(items, r)
	if len(got) != len(items) {
		t.Fatalf("len = %d, want %d", len(got), len(items))
	}
	seen := map[string]int{}
	for _, it := range got {
		seen[it.Word]++
	}
	for _, it := range items {
		if seen[it.Word] != 1 {
			t.Errorf("word %q appears %d times", it.Word, seen[it.Word])
		}
	}
	if items[0].Word != "a" || items[3].Word != "d" {
		t.Error("Shuffle() modified its input")
	}
}

func TestShuffle_Uniform(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping distribution test in short mode")
	}

	items := []library.WordItem{{Word: "a"}, {Word: "b"}, {Word: "c"}}
	r := rand.New(rand.NewPCG(7, 11))

	const runs = 60000
	counts := map[string]int{}
	for range runs {
		got := Shuffle(items, r)
		counts[got[0].Word+got[1].Word+got[2].Word]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6", len(counts))
	}
	expected := runs / 6
	for perm, n := range counts {
		if n < expected*9/10 || n > expected*11/10 {
			t.Errorf("permutation %s seen %d times, want about %d", perm, n, expected)
		}
	}
}

func assertItems(t *testing.T, got, want []library.WordItem) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d items %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
