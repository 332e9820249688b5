package trie

import (
	"reflect"
	"sort"
	"testing"
)

func TestInsertAndContains(t *testing.T) {
	tr := New[int]()
	words := []string{"app", "apple", "banana", "apple"}
	for i, w := range words {
		tr.Insert(w, i)
	}

	t.Run("contains inserted words", func(t *testing.T) {
		for _, w := range []string{"app", "apple", "banana"} {
			if !tr.Contains(w) {
				t.Errorf("Contains(%q) = false; want true", w)
			}
		}
	})

	t.Run("does not contain non-inserted prefix", func(t *testing.T) {
		if tr.Contains("ap") {
			t.Errorf("Contains(\"ap\") = true; want false")
		}
	})

	t.Run("last insert wins", func(t *testing.T) {
		got, ok := tr.GetData("apple")
		if !ok || got != 3 {
			t.Errorf("GetData(\"apple\") = (%v, %v); want (3, true)", got, ok)
		}
	})
}

func TestContainsPrefix(t *testing.T) {
	tr := New[struct{}]()
	for _, w := range []string{"app", "apple", "appl", "appf", "appc", "appfe", "appce", "appced"} {
		tr.Insert(w, struct{}{})
	}

	for _, w := range []string{"a", "ap", "app", "appl", "apple", "appf", "appce", "appced"} {
		if !tr.ContainsPrefix(w) {
			t.Errorf("ContainsPrefix(%q) = false; want true", w)
		}
	}

	for _, w := range []string{"b", "appz", "appcedz", "x"} {
		if tr.ContainsPrefix(w) {
			t.Errorf("ContainsPrefix(%q) = true; want false", w)
		}
	}
}

func TestSplitEdgeShape(t *testing.T) {
	tr := New[int]()
	tr.Insert("test", 1)
	tr.Insert("team", 2)

	if !tr.Contains("test") || !tr.Contains("team") {
		t.Fatal("expected both words present after split")
	}
	if tr.Contains("te") {
		t.Error("split node itself should not be marked inserted")
	}
	if !tr.ContainsPrefix("te") {
		t.Error("common prefix should still be a valid trie path")
	}
	got1, _ := tr.GetData("test")
	got2, _ := tr.GetData("team")
	if got1 != 1 || got2 != 2 {
		t.Errorf("GetData mismatch: test=%d team=%d", got1, got2)
	}
}

func TestInsertionOrderIndependent(t *testing.T) {
	words := []string{"cat", "car", "cart", "carton", "dog", "do"}
	perm1 := []int{0, 1, 2, 3, 4, 5}
	perm2 := []int{5, 4, 3, 2, 1, 0}

	build := func(order []int) *Trie[int] {
		tr := New[int]()
		for _, i := range order {
			tr.Insert(words[i], i)
		}
		return tr
	}

	t1 := build(perm1)
	t2 := build(perm2)

	for _, w := range words {
		c1 := t1.Contains(w)
		c2 := t2.Contains(w)
		if c1 != c2 {
			t.Errorf("Contains(%q) differs by insertion order: %v vs %v", w, c1, c2)
		}
	}
}

func TestDelete(t *testing.T) {
	tr := New[string]()
	tr.Insert("apple", "a")
	tr.Insert("app", "b")

	if !tr.Delete("apple") {
		t.Fatal("Delete(\"apple\") = false; want true")
	}
	if tr.Contains("apple") {
		t.Error("apple should no longer be contained")
	}
	if !tr.Contains("app") {
		t.Error("app should still be contained")
	}
	if _, ok := tr.GetData("apple"); ok {
		t.Error("GetData(\"apple\") should report absent after delete")
	}
	if tr.Delete("missing") {
		t.Error("Delete(\"missing\") = true; want false")
	}
}

func TestUpdateOrInsert(t *testing.T) {
	tr := New[[]int]()
	tr.UpdateOrInsert("x", func(old []int, had bool) []int {
		if had {
			t.Fatal("expected no previous value")
		}
		return append(old, 1)
	})
	tr.UpdateOrInsert("x", func(old []int, had bool) []int {
		if !had {
			t.Fatal("expected previous value")
		}
		return append(old, 2)
	})
	got, ok := tr.GetData("x")
	if !ok || !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("GetData(\"x\") = (%v, %v); want ([1 2], true)", got, ok)
	}
}

func TestWalkPath(t *testing.T) {
	tr := New[int]()
	tr.Insert("test", 1)
	tr.Insert("team", 2)

	var edges []string
	ok := tr.WalkPath("test", func(step PathStep[int]) {
		edges = append(edges, step.Edge)
	}, false)
	if !ok {
		t.Fatal("WalkPath(\"test\") = false; want true")
	}
	// root, "te", "st"
	if len(edges) != 3 || edges[0] != "" {
		t.Errorf("unexpected edges: %v", edges)
	}

	ok = tr.WalkPath("te", func(step PathStep[int]) {}, false)
	if ok {
		t.Error("WalkPath(\"te\", includePrefixMatch=false) = true; want false (mid-edge)")
	}
	ok = tr.WalkPath("te", func(step PathStep[int]) {}, true)
	if !ok {
		t.Error("WalkPath(\"te\", includePrefixMatch=true) = false; want true")
	}

	ok = tr.WalkPath("zzz", func(step PathStep[int]) {}, true)
	if ok {
		t.Error("WalkPath(\"zzz\") = true; want false")
	}
}

func TestDepth(t *testing.T) {
	tr := New[struct{}]()
	if tr.Depth() != 0 {
		t.Fatalf("Depth() of empty trie = %d; want 0", tr.Depth())
	}
	tr.Insert("a", struct{}{})
	if tr.Depth() != 1 {
		t.Fatalf("Depth() = %d; want 1", tr.Depth())
	}
	tr.Insert("ab", struct{}{})
	if tr.Depth() != 2 {
		t.Fatalf("Depth() = %d; want 2", tr.Depth())
	}
	tr.Insert("abc", struct{}{})
	tr.Insert("xy", struct{}{})
	if tr.Depth() != 3 {
		t.Fatalf("Depth() = %d; want 3", tr.Depth())
	}
}

func TestInsertRangeInvalid(t *testing.T) {
	tr := New[int]()
	if err := tr.InsertRange("hello", 3, 1, 42); err != ErrInvalidRange {
		t.Fatalf("InsertRange with end<start = %v; want ErrInvalidRange", err)
	}
	if err := tr.InsertRange("hello", 1, 4, 42); err != nil {
		t.Fatalf("InsertRange valid range returned error: %v", err)
	}
	if !tr.Contains("ell") {
		t.Error("expected \"ell\" to be inserted from range [1:4]")
	}
}

func TestManyWordsAgainstNonMembers(t *testing.T) {
	words := []string{"alpha", "album", "alter", "beta", "better", "bet", "cat", "catalog"}
	tr := New[int]()
	for i, w := range words {
		tr.Insert(w, i)
	}
	sort.Strings(words)

	nonMembers := []string{"al", "z", "cata", "bett", "gamma"}
	for _, w := range nonMembers {
		if tr.Contains(w) {
			t.Errorf("Contains(%q) = true; want false", w)
		}
	}
}
