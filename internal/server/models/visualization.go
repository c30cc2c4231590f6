package models

import (
	"encoding/json"
	"time"
)

// Kind tags the data structure a saved visualization describes.
type Kind string

// The closed set of kinds. It mirrors the sv_kind enum type in the database;
// adding a member requires a migration.
const (
	KindArray      Kind = "array"
	KindStack      Kind = "stack"
	KindQueue      Kind = "queue"
	KindLinkedList Kind = "linkedlist"
	KindBST        Kind = "bst"
	KindBinaryHeap Kind = "binaryheap"
	KindGraph      Kind = "graph"
	KindHash       Kind = "hash"
)

var kinds = []Kind{
	KindArray, KindStack, KindQueue, KindLinkedList,
	KindBST, KindBinaryHeap, KindGraph, KindHash,
}

// Kinds returns the recognized kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is a member of the closed set.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Sequential reports whether payloads of this kind are an ordered list of
// numeric values.
func (k Kind) Sequential() bool {
	switch k {
	case KindGraph, KindHash:
		return false
	default:
		return k.Valid()
	}
}

// Tree reports whether the kind may be submitted as a {tree: …} node graph.
func (k Kind) Tree() bool {
	return k == KindBST || k == KindBinaryHeap
}

// SavedVisualization is a user-authored snapshot. UserID never changes after
// creation. Payload is stored verbatim.
type SavedVisualization struct {
	ID        int64
	UserID    int64
	Kind      Kind
	Name      string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
