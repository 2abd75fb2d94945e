// Package store implements the persistence layer for hikes: a closed
// vocabulary of tagged storage operations executed against either an
// embedded SQLite engine or a list-based fallback store persisted in a
// key-value medium. Callers see one contract regardless of which backend
// was bound at startup.
package store

import (
	"context"
	"fmt"

	"github.com/rlowrie/cairn/internal/models"
)

func errUnknownOp(k Kind) error {
	return fmt.Errorf("unknown storage operation: %s", k)
}

// Kind identifies one operation in the closed statement vocabulary.
type Kind int

const (
	KindCreateSchema Kind = iota
	KindDropSchema
	KindInsert
	KindSelectAll
	KindSelectByID
	KindUpdate
	KindDeleteByID
	KindDeleteAll
	KindCount
)

// String returns the operation name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindCreateSchema:
		return "create-schema"
	case KindDropSchema:
		return "drop-schema"
	case KindInsert:
		return "insert"
	case KindSelectAll:
		return "select-all"
	case KindSelectByID:
		return "select-by-id"
	case KindUpdate:
		return "update"
	case KindDeleteByID:
		return "delete-by-id"
	case KindDeleteAll:
		return "delete-all"
	case KindCount:
		return "count"
	default:
		return "unknown"
	}
}

// Op is one tagged storage operation. Hike carries the record for Insert
// and Update; ID carries the key for SelectByID and DeleteByID.
type Op struct {
	Kind Kind
	Hike models.Hike
	ID   string
}

// CreateSchema prepares the hikes collection. Idempotent.
func CreateSchema() Op { return Op{Kind: KindCreateSchema} }

// DropSchema discards the hikes collection and all records in it.
func DropSchema() Op { return Op{Kind: KindDropSchema} }

// Insert appends a complete hike record.
func Insert(h models.Hike) Op { return Op{Kind: KindInsert, Hike: h} }

// SelectAll reads every record, most recent date first.
func SelectAll() Op { return Op{Kind: KindSelectAll} }

// SelectByID reads the record with the given id, if any.
func SelectByID(id string) Op { return Op{Kind: KindSelectByID, ID: id} }

// Update replaces every field except id and createdAt of the record
// matching h.ID. No-op when the id is absent.
func Update(h models.Hike) Op { return Op{Kind: KindUpdate, Hike: h} }

// DeleteByID removes the record with the given id. No-op when absent.
func DeleteByID(id string) Op { return Op{Kind: KindDeleteByID, ID: id} }

// DeleteAll removes every record but keeps the collection.
func DeleteAll() Op { return Op{Kind: KindDeleteAll} }

// Count reports the number of stored records.
func Count() Op { return Op{Kind: KindCount} }

// Rows is the uniform result of a storage operation: matched records for
// selects, the collection size for Count, empty otherwise.
type Rows struct {
	Hikes []models.Hike
	Count int
}

// Backend executes tagged operations against one concrete storage engine.
// Implementations must hand back copies; no shared mutable state crosses
// this boundary.
type Backend interface {
	Exec(ctx context.Context, op Op) (Rows, error)
	// Ready reports whether the backend can currently execute operations.
	Ready() bool
	// Name identifies the backend in logs.
	Name() string
	Close() error
}
