package wordsplit

import (
	"reflect"
	"sort"
	"testing"
)

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSplitDefault(t *testing.T) {
	s := New()
	cases := []struct {
		in   string
		want []string
	}{
		{"Der Herr der Ringe", []string{"der", "herr", "ringe"}},
		{"J. R. R. Tolkien", []string{"j", "r", "tolkien"}},
		{"García Coruña", []string{"coruna", "garcia"}},
		{"", nil},
		{"!!!", nil},
	}
	for _, c := range cases {
		got := keys(s.Split(c.in))
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Split(%q) = %v; want %v", c.in, got, c.want)
		}
	}
}

func TestSplitWithoutNormalization(t *testing.T) {
	s := New(WithNormalizeUnicode(false))
	got := keys(s.Split("Cöruná"))
	// without folding, "ö" and "á" break the subword match into pieces
	want := []string{"c", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split(unfolded) = %v; want %v", got, want)
	}
}

func TestSplitCustomPattern(t *testing.T) {
	s := New(WithPattern(`[a-z]{2,}`))
	got := keys(s.Split("a bb ccc d"))
	want := []string{"bb", "ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split(custom pattern) = %v; want %v", got, want)
	}
}
