package frosttest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
)

// Finder locates nodes in the mounted tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root core.Node) []core.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []core.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Node {
	if len(r.nodes) == 0 {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("Finder found no nodes: %s", desc))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Widget returns the widget of the first matched node. Panics if no matches.
func (r FinderResult) Widget() core.Widget {
	return r.First().Widget()
}

// --- Concrete finders ---

type typeFinder struct {
	widgetType reflect.Type
	typeName   string
}

func (f *typeFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		return reflect.TypeOf(n.Widget()) == f.widgetType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.typeName)
}

// ByType returns a finder that matches nodes whose widget is type T.
func ByType[T core.Widget]() Finder {
	t := reflect.TypeFor[T]()
	return &typeFinder{widgetType: t, typeName: t.String()}
}

type keyFinder struct {
	key any
}

func (f *keyFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		k := n.Widget().Key()
		if k == nil || f.key == nil {
			return k == nil && f.key == nil
		}
		if !reflect.TypeOf(k).Comparable() || !reflect.TypeOf(f.key).Comparable() {
			return reflect.DeepEqual(k, f.key)
		}
		return k == f.key
	})
}

func (f *keyFinder) Description() string {
	return fmt.Sprintf("ByKey(%v)", f.key)
}

// ByKey returns a finder that matches nodes whose widget key equals key.
func ByKey(key any) Finder {
	return &keyFinder{key: key}
}

type textFinder struct {
	text string
}

func (f *textFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		t, ok := n.Widget().(elements.Text)
		return ok && t.Content == f.text
	})
}

func (f *textFinder) Description() string {
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches [elements.Text] with exact content.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

type textContainingFinder struct {
	substring string
}

func (f *textContainingFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		t, ok := n.Widget().(elements.Text)
		return ok && strings.Contains(t.Content, f.substring)
	})
}

func (f *textContainingFinder) Description() string {
	return fmt.Sprintf("ByTextContaining(%q)", f.substring)
}

// ByTextContaining returns a finder that matches [elements.Text] containing
// the given substring.
func ByTextContaining(substring string) Finder {
	return &textContainingFinder{substring: substring}
}

type predicateFinder struct {
	fn   func(core.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(core.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root core.Node, predicate func(core.Node) bool) []core.Node {
	var results []core.Node
	walkTree(root, func(n core.Node) bool {
		if predicate(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}

func walkTree(root core.Node, visitor func(core.Node) bool) {
	if !visitor(root) {
		return
	}
	root.VisitChildren(func(child core.Node) bool {
		walkTree(child, visitor)
		return true
	})
}
