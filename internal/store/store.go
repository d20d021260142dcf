// Package store persists domain documents in an embedded Badger database.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// SearchIndexer keeps the discovery index in sync with content writes.
// Failures are logged by the store and never fail the write.
type SearchIndexer interface {
	IndexBlog(ctx context.Context, b *domain.Blog) error
	DeleteBlog(ctx context.Context, blogID string) error
	IndexCollection(ctx context.Context, c *domain.Collection) error
	DeleteCollection(ctx context.Context, collectionID string) error
}

// NoopSearchIndexer ignores every update. Used in tests and when search is disabled.
type NoopSearchIndexer struct{}

// IndexBlog is a no-op.
func (NoopSearchIndexer) IndexBlog(context.Context, *domain.Blog) error { return nil }

// DeleteBlog is a no-op.
func (NoopSearchIndexer) DeleteBlog(context.Context, string) error { return nil }

// IndexCollection is a no-op.
func (NoopSearchIndexer) IndexCollection(context.Context, *domain.Collection) error { return nil }

// DeleteCollection is a no-op.
func (NoopSearchIndexer) DeleteCollection(context.Context, string) error { return nil }

// maxTxnRetries bounds retries of read-modify-write transactions that lose an
// optimistic conflict. Updates are last-write-wins, so retrying is safe.
const maxTxnRetries = 5

// Store wraps a Badger database and exposes one Entity per document kind.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Set via SetSearchIndexer after the search index is opened.
	searchIndexer SearchIndexer

	Users       *Entity[domain.User]
	Blogs       *Entity[domain.Blog]
	Collections *Entity[domain.Collection]
	ReadingList *Entity[domain.ReadingListItem]
	Chats       *Entity[domain.Chat]
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		db:            db,
		logger:        logger,
		searchIndexer: NoopSearchIndexer{},
	}
	s.initUsers()
	s.initBlogs()
	s.initCollections()
	s.initReadingList()
	s.initChats()

	logger.Info("Badger database opened", "path", path)
	return s, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

// Ping opens a read transaction to confirm the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		it.Close()
		return nil
	})
}

// SetSearchIndexer installs the indexer used to mirror blog and collection writes.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	s.searchIndexer = indexer
}

// updateWithRetry runs fn in a read-write transaction, retrying on Badger conflicts.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for range maxTxnRetries {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

// reindex runs an index operation and logs failures without propagating them.
func (s *Store) reindex(kind, id string, op func() error) {
	if err := op(); err != nil {
		s.logger.Warn("search index update failed", "kind", kind, "id", id, "error", err)
	}
}
