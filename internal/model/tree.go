package model

import "encoding/json"

type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeader  BlockType = "header"
	BlockImage   BlockType = "image"
	BlockQuiz    BlockType = "quiz"
	BlockColumns BlockType = "columns"
)

// KnownBlockTypes lists the block types offered by the palette, in palette order.
func KnownBlockTypes() []BlockType {
	return []BlockType{BlockText, BlockHeader, BlockImage, BlockQuiz, BlockColumns}
}

func (t BlockType) Valid() bool {
	for _, k := range KnownBlockTypes() {
		if k == t {
			return true
		}
	}
	return false
}

type ResourceKind string

const (
	KindBlock       ResourceKind = "block"
	KindConstructor ResourceKind = "constructor"
)

// Tree is the whole lesson document: top-level rows in display order.
type Tree []Row

// Row is a horizontal container. Cells flow left to right.
type Row struct {
	ID    string          `json:"id"`
	Cells []Cell          `json:"cells"`
	Props json.RawMessage `json:"props,omitempty"`

	// EmptyState marks a placeholder row kept as an insertion point even when it has no content.
	EmptyState bool `json:"emptyState,omitempty"`
}

// Cell is a vertical container. Resources flow top to bottom.
type Cell struct {
	ID        string     `json:"id"`
	Resources []Resource `json:"resources"`
}

// Resource is a cell slot: either a Block or a Constructor (a nested Row).
// Exactly one of Block and Row is set, matching Kind.
type Resource struct {
	Kind  ResourceKind `json:"kind"`
	Block *Block       `json:"block,omitempty"`
	Row   *Row         `json:"row,omitempty"`
}

// Block is leaf content. Payload is opaque to the engine.
//
// Columns is only used by columns blocks: one block list per column.
type Block struct {
	ID      string          `json:"id"`
	Type    BlockType       `json:"type"`
	Title   string          `json:"title,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Columns [][]Block       `json:"columns,omitempty"`
}

func BlockResource(b Block) Resource {
	return Resource{Kind: KindBlock, Block: &b}
}

func ConstructorResource(r Row) Resource {
	return Resource{Kind: KindConstructor, Row: &r}
}

// ID returns the id of the wrapped block or constructor row ("" if the slot is malformed).
func (r Resource) ID() string {
	switch r.Kind {
	case KindBlock:
		if r.Block != nil {
			return r.Block.ID
		}
	case KindConstructor:
		if r.Row != nil {
			return r.Row.ID
		}
	}
	return ""
}

func (r Resource) IsBlock() bool       { return r.Kind == KindBlock && r.Block != nil }
func (r Resource) IsConstructor() bool { return r.Kind == KindConstructor && r.Row != nil }

func (b Block) IsColumns() bool { return b.Type == BlockColumns }

// IsEmpty reports whether no cell of the row holds any resource.
func (r Row) IsEmpty() bool {
	for _, c := range r.Cells {
		if len(c.Resources) > 0 {
			return false
		}
	}
	return true
}
