package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/models"
)

// hikesKey is the single well-known slot holding the serialized hike list.
const hikesKey = "cairn/hikes"

// Fallback emulates the statement vocabulary over an ordered list of hike
// records serialized as one JSON blob in a KV medium. Reads always
// re-deserialize from the medium; every mutation writes the full list back.
type Fallback struct {
	kv KV
}

// NewFallback creates a fallback store over the given KV medium.
func NewFallback(kv KV) *Fallback {
	return &Fallback{kv: kv}
}

// Name identifies the backend in logs.
func (f *Fallback) Name() string { return "fallback" }

// Ready reports whether a KV medium is attached.
func (f *Fallback) Ready() bool { return f != nil && f.kv != nil }

// Close closes the underlying KV medium.
func (f *Fallback) Close() error { return f.kv.Close() }

// load reads and deserializes the full list. A missing slot or an
// unreadable blob yields an empty list, never an error.
func (f *Fallback) load() ([]models.Hike, error) {
	raw, ok, err := f.kv.Get(hikesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var list []models.Hike
	if err := json.Unmarshal(raw, &list); err != nil {
		// Malformed stored data is treated as an empty collection.
		return nil, nil
	}
	return list, nil
}

// save serializes the full list back to the durable slot.
func (f *Fallback) save(list []models.Hike) error {
	if list == nil {
		list = []models.Hike{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return f.kv.Put(hikesKey, raw)
}

// Exec applies one tagged operation to the stored list.
func (f *Fallback) Exec(_ context.Context, op Op) (Rows, error) {
	switch op.Kind {
	case KindCreateSchema:
		_, ok, err := f.kv.Get(hikesKey)
		if err != nil {
			return Rows{}, err
		}
		if ok {
			return Rows{}, nil // already exists
		}
		return Rows{}, f.save(nil)

	case KindDropSchema:
		return Rows{}, f.kv.Delete(hikesKey)

	case KindInsert:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		for _, h := range list {
			if h.ID == op.Hike.ID {
				return Rows{}, apperr.ErrDuplicateID
			}
		}
		return Rows{}, f.save(append(list, op.Hike))

	case KindSelectAll:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		// Most recent date first; stable, so insertion order breaks ties.
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date > list[j].Date
		})
		return Rows{Hikes: list}, nil

	case KindSelectByID:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		for _, h := range list {
			if h.ID == op.ID {
				return Rows{Hikes: []models.Hike{h}}, nil
			}
		}
		return Rows{}, nil

	case KindUpdate:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		for i, h := range list {
			if h.ID != op.Hike.ID {
				continue
			}
			next := op.Hike
			next.CreatedAt = h.CreatedAt // assigned once, never mutated
			list[i] = next
			return Rows{}, f.save(list)
		}
		return Rows{}, nil // no match is a no-op

	case KindDeleteByID:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		kept := list[:0]
		for _, h := range list {
			if h.ID != op.ID {
				kept = append(kept, h)
			}
		}
		return Rows{}, f.save(kept)

	case KindDeleteAll:
		return Rows{}, f.save(nil)

	case KindCount:
		list, err := f.load()
		if err != nil {
			return Rows{}, err
		}
		return Rows{Count: len(list)}, nil

	default:
		return Rows{}, errUnknownOp(op.Kind)
	}
}
