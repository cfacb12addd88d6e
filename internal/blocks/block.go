// Package blocks models the block graph returned by the document-analysis
// OCR engines and reconstructs structured page content from it: tables as
// 2D grids, key-value pairs, section headers, and raw body lines.
//
// The block graph is this system's own normalized representation. Each OCR
// engine (see internal/ocr) converts its service response into a flat list
// of blocks; everything in this package is engine-agnostic and operates on
// in-memory values only.
package blocks

// BlockType identifies the variant of a block.
type BlockType string

const (
	TypeLine        BlockType = "LINE"
	TypeWord        BlockType = "WORD"
	TypeKeyValueSet BlockType = "KEY_VALUE_SET"
	TypeTable       BlockType = "TABLE"
	TypeCell        BlockType = "CELL"
)

// RelationKind labels a typed edge between blocks.
type RelationKind string

const (
	// RelationChild links a container block to its content blocks
	// (TABLE to CELL, CELL to WORD, KEY_VALUE_SET to WORD).
	RelationChild RelationKind = "CHILD"

	// RelationValue links a KEY entity to its VALUE entity.
	RelationValue RelationKind = "VALUE"
)

// EntityKey marks the key side of a KEY_VALUE_SET block.
const EntityKey = "KEY"

// Relationship is a typed edge from one block to a set of target IDs.
type Relationship struct {
	Kind RelationKind
	IDs  []string
}

// Block is one node of the page's block graph. Only the fields relevant
// to the block's type are populated: Text on LINE and WORD, RowIndex and
// ColumnIndex (1-based) on CELL, EntityTypes on KEY_VALUE_SET.
type Block struct {
	ID            string
	Type          BlockType
	Text          string
	EntityTypes   []string
	RowIndex      int
	ColumnIndex   int
	Relationships []Relationship
}

// Index is an immutable ID lookup over one page's blocks, built once per
// page before traversal.
type Index map[string]Block

// NewIndex builds the ID lookup for a page's block list.
func NewIndex(list []Block) Index {
	idx := make(Index, len(list))
	for _, b := range list {
		idx[b.ID] = b
	}
	return idx
}

// hasEntity reports whether the block carries the given entity type.
func (b Block) hasEntity(entity string) bool {
	for _, e := range b.EntityTypes {
		if e == entity {
			return true
		}
	}
	return false
}

// relations returns the target IDs of all relationships of the given kind.
func (b Block) relations(kind RelationKind) []string {
	var ids []string
	for _, rel := range b.Relationships {
		if rel.Kind == kind {
			ids = append(ids, rel.IDs...)
		}
	}
	return ids
}
