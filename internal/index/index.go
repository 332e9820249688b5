// Package index implements the prefix index engine: it owns a model
// list, a word-to-model-id inverted map, and a prefix trie behind a
// single atomically swappable snapshot, and answers conjunctive
// prefix/exact queries and highlight requests against it.
package index

import (
	"iter"
	"sort"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"
	charmlog "github.com/charmbracelet/log"

	"github.com/mg52/prefixindex/internal/highlight"
	"github.com/mg52/prefixindex/internal/trie"
	"github.com/mg52/prefixindex/internal/wordsplit"
)

// snapshot is the immutable triple (model list, inverted word map,
// prefix trie) representing one generation of the index. It is never
// mutated after publication.
type snapshot[M any] struct {
	models        []M
	invertedIndex map[string]*roaring.Bitmap
	prefixTrie    *trie.Trie[map[string]struct{}]
}

// config accumulates Option values before an index is constructed.
type config[M any] struct {
	dataSplitterOpts   []wordsplit.Option
	searchSplitterOpts []wordsplit.Option
	searchSplitter     *wordsplit.Splitter
	highlighter        *highlight.Highlighter
}

// Option configures a PrefixIndex at construction time.
type Option[M any] func(*config[M])

// WithDataSplitterOptions configures the splitter used to derive
// words from indexed models.
func WithDataSplitterOptions[M any](opts ...wordsplit.Option) Option[M] {
	return func(c *config[M]) { c.dataSplitterOpts = opts }
}

// WithSearchSplitterOptions configures the splitter used to derive
// words from query strings, when no explicit splitter is supplied via
// WithSearchSplitter.
func WithSearchSplitterOptions[M any](opts ...wordsplit.Option) Option[M] {
	return func(c *config[M]) { c.searchSplitterOpts = opts }
}

// WithSearchSplitter overrides the query word splitter entirely.
func WithSearchSplitter[M any](s *wordsplit.Splitter) Option[M] {
	return func(c *config[M]) { c.searchSplitter = s }
}

// WithHighlighter overrides the highlighter. By default the search
// splitter's pattern and normalization also drive highlighting.
func WithHighlighter[M any](h *highlight.Highlighter) Option[M] {
	return func(c *config[M]) { c.highlighter = h }
}

// Project extracts the indexable string from a model. The second
// return value is false when the model has no indexable string.
type Project[M any] func(m M) (string, bool)

// PrefixIndex owns the current snapshot through an atomically
// swappable reference. Reads are lock-free; CreateIndex builds a new
// snapshot in isolation and publishes it with a single atomic store.
type PrefixIndex[M any] struct {
	project        Project[M]
	dataSplitter   *wordsplit.Splitter
	searchSplitter *wordsplit.Splitter
	highlighter    *highlight.Highlighter
	current        atomic.Pointer[snapshot[M]]
}

// New constructs an empty PrefixIndex. Call CreateIndex to populate it.
func New[M any](project Project[M], opts ...Option[M]) *PrefixIndex[M] {
	cfg := &config[M]{}
	for _, opt := range opts {
		opt(cfg)
	}

	dataSplitter := wordsplit.New(cfg.dataSplitterOpts...)
	searchSplitter := cfg.searchSplitter
	if searchSplitter == nil {
		searchSplitter = wordsplit.New(cfg.searchSplitterOpts...)
	}
	highlighter := cfg.highlighter
	if highlighter == nil {
		highlighter = highlight.FromSplitter(searchSplitter)
	}

	idx := &PrefixIndex[M]{
		project:        project,
		dataSplitter:   dataSplitter,
		searchSplitter: searchSplitter,
		highlighter:    highlighter,
	}
	idx.current.Store(&snapshot[M]{prefixTrie: trie.New[map[string]struct{}]()})
	return idx
}

// CreateIndex rebuilds the index from models and atomically publishes
// the new snapshot. Existing readers continue to observe the prior
// snapshot until they finish their current operation.
func (idx *PrefixIndex[M]) CreateIndex(models []M) {
	modelsCopy := make([]M, len(models))
	copy(modelsCopy, models)

	invertedIndex := make(map[string]*roaring.Bitmap)
	prefixWords := make(map[string]map[string]struct{})

	for id, m := range modelsCopy {
		text, ok := idx.project(m)
		if !ok {
			continue
		}
		for word := range idx.dataSplitter.Split(text) {
			bm, exists := invertedIndex[word]
			if !exists {
				bm = roaring.New()
				invertedIndex[word] = bm
			}
			bm.Add(uint32(id))

			for i := 1; i <= len(word); i++ {
				prefix := word[:i]
				set, exists := prefixWords[prefix]
				if !exists {
					set = make(map[string]struct{})
					prefixWords[prefix] = set
				}
				set[word] = struct{}{}
			}
		}
	}

	prefixes := make([]string, 0, len(prefixWords))
	for p := range prefixWords {
		prefixes = append(prefixes, p)
	}
	// Ascending length, then lexicographic: keeps intermediate split
	// cost predictable during the build.
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) < len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	prefixTrie := trie.New[map[string]struct{}]()
	for _, p := range prefixes {
		prefixTrie.Insert(p, prefixWords[p])
	}

	idx.current.Store(&snapshot[M]{
		models:        modelsCopy,
		invertedIndex: invertedIndex,
		prefixTrie:    prefixTrie,
	})

	charmlog.Info("index rebuilt", "models", len(modelsCopy), "words", len(invertedIndex))
}

// matchIDs resolves query to a set of model ids. A nil result means
// "no filter" (the query split into no words); a non-nil, possibly
// empty result is the intersection across all query words, and a
// query word found in no indexed word makes it empty.
func (idx *PrefixIndex[M]) matchIDs(snap *snapshot[M], query string, exact bool) *roaring.Bitmap {
	words := idx.searchSplitter.Split(query)
	if len(words) == 0 {
		return nil
	}

	var result *roaring.Bitmap
	for w := range words {
		wordIDs := roaring.New()
		if exact {
			if bm, ok := snap.invertedIndex[w]; ok {
				wordIDs = bm.Clone()
			}
		} else if fullWords, found := snap.prefixTrie.GetData(w); found {
			for fw := range fullWords {
				if bm, ok := snap.invertedIndex[fw]; ok {
					wordIDs.Or(bm)
				}
			}
		}
		if result == nil {
			result = wordIDs
		} else {
			result = roaring.And(result, wordIDs)
		}
	}
	return result
}

func stream[M any](snap *snapshot[M], ids *roaring.Bitmap) iter.Seq[M] {
	return func(yield func(M) bool) {
		if ids == nil {
			for _, m := range snap.models {
				if !yield(m) {
					return
				}
			}
			return
		}
		it := ids.Iterator()
		for it.HasNext() {
			id := it.Next()
			if int(id) < len(snap.models) {
				if !yield(snap.models[id]) {
					return
				}
			}
		}
	}
}

// SearchStream returns a lazy, insertion-order stream of models whose
// words satisfy every token of query as a prefix (conjunctive AND). An
// empty or absent query matches everything.
func (idx *PrefixIndex[M]) SearchStream(query string) iter.Seq[M] {
	snap := idx.current.Load()
	return stream(snap, idx.matchIDs(snap, query, false))
}

// SearchExactStream is like SearchStream but matches whole words
// rather than prefixes.
func (idx *PrefixIndex[M]) SearchExactStream(query string) iter.Seq[M] {
	snap := idx.current.Load()
	return stream(snap, idx.matchIDs(snap, query, true))
}

func collect[M any](seq iter.Seq[M]) []M {
	var out []M
	for m := range seq {
		out = append(out, m)
	}
	return out
}

// Search eagerly collects SearchStream.
func (idx *PrefixIndex[M]) Search(query string) []M {
	return collect(idx.SearchStream(query))
}

// SearchExact eagerly collects SearchExactStream.
func (idx *PrefixIndex[M]) SearchExact(query string) []M {
	return collect(idx.SearchExactStream(query))
}

// SearchLimit collects at most maxSize results from SearchStream.
func (idx *PrefixIndex[M]) SearchLimit(query string, maxSize int) []M {
	var out []M
	if maxSize <= 0 {
		return out
	}
	for m := range idx.SearchStream(query) {
		out = append(out, m)
		if len(out) >= maxSize {
			break
		}
	}
	return out
}

// GetAll returns every model in the current snapshot's insertion order.
func (idx *PrefixIndex[M]) GetAll() []M {
	snap := idx.current.Load()
	out := make([]M, len(snap.models))
	copy(out, snap.models)
	return out
}

// Depth reports the current prefix trie's depth, a diagnostic useful
// for asserting build shape and for exposing index health.
func (idx *PrefixIndex[M]) Depth() int {
	return idx.current.Load().prefixTrie.Depth()
}

// GetHighlighted splits query with the search splitter and highlights
// value against the resulting words in text mode.
func (idx *PrefixIndex[M]) GetHighlighted(value, query string) *highlight.HighlightedString {
	words := idx.searchSplitter.Split(query)
	return idx.highlighter.Highlight(value, words)
}

// GetHighlightedHTML is like GetHighlighted but in HTML mode.
func (idx *PrefixIndex[M]) GetHighlightedHTML(value, query string) *highlight.HighlightedString {
	words := idx.searchSplitter.Split(query)
	return idx.highlighter.HighlightHTML(value, words)
}

// Filter returns a view over idx whose result streams only include
// models satisfying predicate. The view holds a reference to idx, not
// a copy of its snapshot, so it observes later rebuilds.
func (idx *PrefixIndex[M]) Filter(predicate func(M) bool) *FilteredIndex[M] {
	return &FilteredIndex[M]{base: idx, predicate: predicate}
}

// FilteredIndex is a read-only view applying a predicate to a
// PrefixIndex's result streams.
type FilteredIndex[M any] struct {
	base      *PrefixIndex[M]
	predicate func(M) bool
}

// Filter composes another predicate, yielding a conjunction.
func (f *FilteredIndex[M]) Filter(predicate func(M) bool) *FilteredIndex[M] {
	base, prior := f.base, f.predicate
	return &FilteredIndex[M]{base: base, predicate: func(m M) bool { return prior(m) && predicate(m) }}
}

// SearchStream filters the base index's SearchStream.
func (f *FilteredIndex[M]) SearchStream(query string) iter.Seq[M] {
	return func(yield func(M) bool) {
		for m := range f.base.SearchStream(query) {
			if f.predicate(m) && !yield(m) {
				return
			}
		}
	}
}

// SearchExactStream filters the base index's SearchExactStream.
func (f *FilteredIndex[M]) SearchExactStream(query string) iter.Seq[M] {
	return func(yield func(M) bool) {
		for m := range f.base.SearchExactStream(query) {
			if f.predicate(m) && !yield(m) {
				return
			}
		}
	}
}

// Search eagerly collects SearchStream.
func (f *FilteredIndex[M]) Search(query string) []M { return collect(f.SearchStream(query)) }

// SearchExact eagerly collects SearchExactStream.
func (f *FilteredIndex[M]) SearchExact(query string) []M { return collect(f.SearchExactStream(query)) }

// GetAll returns every model in the base index satisfying predicate.
func (f *FilteredIndex[M]) GetAll() []M {
	var out []M
	for _, m := range f.base.GetAll() {
		if f.predicate(m) {
			out = append(out, m)
		}
	}
	return out
}

// MappedIndex is a read-only view applying a projection to a
// PrefixIndex's result streams.
type MappedIndex[M, R any] struct {
	base    *PrefixIndex[M]
	project func(M) R
}

// Map returns a view over idx whose result streams apply project to
// each model.
func Map[M, R any](idx *PrefixIndex[M], project func(M) R) *MappedIndex[M, R] {
	return &MappedIndex[M, R]{base: idx, project: project}
}

// SearchStream maps the base index's SearchStream.
func (m *MappedIndex[M, R]) SearchStream(query string) iter.Seq[R] {
	return func(yield func(R) bool) {
		for model := range m.base.SearchStream(query) {
			if !yield(m.project(model)) {
				return
			}
		}
	}
}

// SearchExactStream maps the base index's SearchExactStream.
func (m *MappedIndex[M, R]) SearchExactStream(query string) iter.Seq[R] {
	return func(yield func(R) bool) {
		for model := range m.base.SearchExactStream(query) {
			if !yield(m.project(model)) {
				return
			}
		}
	}
}

// Search eagerly collects SearchStream.
func (m *MappedIndex[M, R]) Search(query string) []R { return collect(m.SearchStream(query)) }

// SearchExact eagerly collects SearchExactStream.
func (m *MappedIndex[M, R]) SearchExact(query string) []R { return collect(m.SearchExactStream(query)) }

// GetAll maps every model in the base index.
func (m *MappedIndex[M, R]) GetAll() []R {
	base := m.base.GetAll()
	out := make([]R, len(base))
	for i, model := range base {
		out[i] = m.project(model)
	}
	return out
}
