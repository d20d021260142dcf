package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic document operations for a domain type.
//
// Documents live under prefix+id. Unique indexes map prefix+"idx:"+name+":"+key
// to the document id and are checked inside the write transaction, so two
// concurrent creates of the same key cannot both commit. Lookup indexes are
// non-unique: prefix+"lkp:"+name+":"+key+":"+id, scanned by prefix.
type Entity[T any] struct {
	store   *Store
	prefix  string
	idOf    func(*T) string
	indexes []Index[T]
	lookups []Index[T]
}

// Index defines a secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
}

// NewEntity creates an entity stored under prefix. idOf extracts the document id.
func NewEntity[T any](s *Store, prefix string, idOf func(*T) string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
		idOf:   idOf,
	}
}

// WithIndex adds a unique secondary index.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

// WithIndexTransform adds a unique secondary index whose lookups are normalized
// by lookupTransform (e.g. case folding). keyGen must apply the same transform.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen, lookupTransform: lookupTransform})
	return e
}

// WithLookup adds a non-unique secondary index used to narrow Find scans.
func (e *Entity[T]) WithLookup(name string, keyGen func(*T) []string) *Entity[T] {
	e.lookups = append(e.lookups, Index[T]{name: name, keyGen: keyGen})
	return e
}

func (e *Entity[T]) indexKey(name, key string) []byte {
	return []byte(e.prefix + "idx:" + name + ":" + key)
}

func (e *Entity[T]) lookupPrefix(name, key string) []byte {
	return []byte(e.prefix + "lkp:" + name + ":" + key + ":")
}

func (e *Entity[T]) lookupKey(name, key, id string) []byte {
	return append(e.lookupPrefix(name, key), id...)
}

// Create stores a new document.
// Returns ErrAlreadyExists if the id or any unique index key is taken.
func (e *Entity[T]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := e.idOf(entity)
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(e.prefix + id)); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, key := range idx.keyGen(entity) {
				_, err := txn.Get(e.indexKey(idx.name, key))
				if err == nil {
					return ErrAlreadyExists.WithMessage(idx.name + " already exists")
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		if err := txn.Set([]byte(e.prefix+id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
	return translateTxnError(err)
}

// Get retrieves a document by id. Returns ErrNotFound if absent.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = e.getTxn(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (e *Entity[T]) getTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return &entity, nil
}

// GetByIndex retrieves a document through a unique index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		entity, err = e.getTxn(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Update replaces an existing document and moves its index entries.
// Returns ErrNotFound if absent, ErrAlreadyExists on a unique index clash.
func (e *Entity[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := e.idOf(entity)
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	err = e.store.updateWithRetry(func(txn *badger.Txn) error {
		old, err := e.getTxn(txn, id)
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			oldKeys := idx.keyGen(old)
			for _, key := range idx.keyGen(entity) {
				if slices.Contains(oldKeys, key) {
					continue
				}
				_, err := txn.Get(e.indexKey(idx.name, key))
				if err == nil {
					return ErrAlreadyExists.WithMessage(idx.name + " already exists")
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		if err := e.deleteIndexes(txn, id, old); err != nil {
			return err
		}
		if err := txn.Set([]byte(e.prefix+id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}
		return e.writeIndexes(txn, id, entity)
	})
	return err
}

// Delete removes a document and its index entries. Deleting a missing id is a no-op.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := e.store.updateWithRetry(func(txn *badger.Txn) error {
		old, err := e.getTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.deleteIndexes(txn, id, old); err != nil {
			return err
		}
		if err := txn.Delete([]byte(e.prefix + id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
	return err
}

func (e *Entity[T]) writeIndexes(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, key := range idx.keyGen(entity) {
			if err := txn.Set(e.indexKey(idx.name, key), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	for _, lk := range e.lookups {
		for _, key := range lk.keyGen(entity) {
			if err := txn.Set(e.lookupKey(lk.name, key, id), []byte(id)); err != nil {
				return fmt.Errorf("failed to set lookup key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexes(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, key := range idx.keyGen(entity) {
			if err := txn.Delete(e.indexKey(idx.name, key)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	for _, lk := range e.lookups {
		for _, key := range lk.keyGen(entity) {
			if err := txn.Delete(e.lookupKey(lk.name, key, id)); err != nil {
				return fmt.Errorf("failed to delete lookup key: %w", err)
			}
		}
	}
	return nil
}

// List iterates over every document of this entity.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			prefix := []byte(e.prefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}
				if e.isIndexKey(it.Item().Key()) {
					continue
				}

				var entity T
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				}); err != nil {
					yield(nil, err)
					return err
				}
				if !yield(&entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}

// listByLookup iterates over documents whose lookup index name has key.
func (e *Entity[T]) listByLookup(ctx context.Context, name, key string) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			prefix := e.lookupPrefix(name, key)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			opts.PrefetchValues = false

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}
				id := string(it.Item().Key()[len(prefix):])
				entity, err := e.getTxn(txn, id)
				if errors.Is(err, ErrNotFound) {
					continue
				}
				if err != nil {
					yield(nil, err)
					return err
				}
				if !yield(entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}

func (e *Entity[T]) isIndexKey(key []byte) bool {
	rest := string(key[len(e.prefix):])
	return len(rest) >= 4 && (rest[:4] == "idx:" || rest[:4] == "lkp:")
}

// Query describes a filtered, sorted, paged read.
type Query[T any] struct {
	// Lookup narrows the scan to a lookup index; empty scans every document.
	Lookup      string
	LookupValue string
	Filter      func(*T) bool
	Compare     func(a, b *T) int
	Page        PageParams
}

// Find runs q and returns the requested page plus the total match count.
func (e *Entity[T]) Find(ctx context.Context, q Query[T]) (*PagedResult[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seq := e.List(ctx)
	if q.Lookup != "" {
		seq = e.listByLookup(ctx, q.Lookup, q.LookupValue)
	}

	var matches []*T
	for entity, err := range seq {
		if err != nil {
			return nil, err
		}
		if q.Filter == nil || q.Filter(entity) {
			matches = append(matches, entity)
		}
	}

	if q.Compare != nil {
		slices.SortStableFunc(matches, q.Compare)
	}
	return paginate(matches, q.Page), nil
}

// translateTxnError maps Badger's transaction conflict on a create to ErrAlreadyExists:
// a concurrent writer claimed the same id or unique key first.
func translateTxnError(err error) error {
	if errors.Is(err, badger.ErrConflict) {
		return ErrAlreadyExists.WithCause(err)
	}
	return err
}
