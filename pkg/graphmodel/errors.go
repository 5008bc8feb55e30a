package graphmodel

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel error kinds a driver can match with errors.Is.
var (
	ErrConfigInvalid    = errors.New("graphmodel: invalid configuration")
	ErrReferenceMissing = errors.New("graphmodel: link to nonexistent node")
	ErrLinksUnordered   = errors.New("graphmodel: links not ordered")
	ErrSelfLinkDup      = errors.New("graphmodel: self-link appears twice without sum_duplicates")
	ErrOverflow         = errors.New("graphmodel: graph size exceeds addressable node count")
)

// ReferenceError wraps ErrReferenceMissing with the offending src/dst
// pair for diagnostic context.
type ReferenceError struct {
	Src, Dst uint32
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("graphmodel: link %d->%d refers to a nonexistent node", e.Src, e.Dst)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceMissing
}

// ErrorAccumulator gathers duplicate-node and duplicate-link diagnostics
// during ingestion. It never aborts ingestion on its own; the caller
// decides whether accumulated duplicates should be escalated. It lives
// only for the duration of one ingestion pass and is discarded after
// Show.
type ErrorAccumulator struct {
	duplicateNodes map[uint32]struct{}
	duplicateLinks map[[2]uint32]struct{}
}

// NewErrorAccumulator creates an empty accumulator.
func NewErrorAccumulator() *ErrorAccumulator {
	return &ErrorAccumulator{
		duplicateNodes: make(map[uint32]struct{}),
		duplicateLinks: make(map[[2]uint32]struct{}),
	}
}

// DuplicateNode records that id was submitted more than once.
func (e *ErrorAccumulator) DuplicateNode(id uint32) {
	e.duplicateNodes[id] = struct{}{}
}

// DuplicateLink records that the (src, dst) pair was submitted more than
// once where it could not be merged.
func (e *ErrorAccumulator) DuplicateLink(src, dst uint32) {
	e.duplicateLinks[[2]uint32{src, dst}] = struct{}{}
}

// HasDuplicates reports whether any duplicate was recorded.
func (e *ErrorAccumulator) HasDuplicates() bool {
	return len(e.duplicateNodes) > 0 || len(e.duplicateLinks) > 0
}

// DuplicateNodeCount returns the number of distinct duplicated node ids.
func (e *ErrorAccumulator) DuplicateNodeCount() int {
	return len(e.duplicateNodes)
}

// DuplicateLinkCount returns the number of distinct duplicated link
// pairs.
func (e *ErrorAccumulator) DuplicateLinkCount() int {
	return len(e.duplicateLinks)
}

// Show renders a single consolidated warning line listing every
// offending id, or "" if nothing was recorded.
func (e *ErrorAccumulator) Show() string {
	if !e.HasDuplicates() {
		return ""
	}
	nodes := make([]uint32, 0, len(e.duplicateNodes))
	for id := range e.duplicateNodes {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	links := make([][2]uint32, 0, len(e.duplicateLinks))
	for l := range e.duplicateLinks {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i][0] < links[j][0] || (links[i][0] == links[j][0] && links[i][1] < links[j][1])
	})
	return fmt.Sprintf("ingestion warning: %d duplicate node id(s) %v, %d duplicate link pair(s) %v",
		len(nodes), nodes, len(links), links)
}
