package repositories

import (
	"agent-lab/domain"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const cachePrefix = "cache:"

type ICacheRepository interface {
	SaveEntries(entries []domain.CacheEntry) error
	LoadEntries() ([]domain.CacheEntry, error)
}

// CacheRepository persists the resolver's name <-> id pairs between sessions.
type CacheRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewCacheRepository(db *badger.DB, log *slog.Logger) CacheRepository {
	return CacheRepository{db: db, log: log}
}

// SaveEntries writes every entry under "cache:{kind}:{uuid}" with the name as
// value. Existing keys are overwritten, nothing is deleted.
func (c CacheRepository) SaveEntries(entries []domain.CacheEntry) error {
	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		if err := wb.Set(cacheKey(e.Kind, e.ID), []byte(e.Name)); err != nil {
			return fmt.Errorf("cache entry %s: %w", e.ID, err)
		}
	}
	return wb.Flush()
}

// LoadEntries scans the cache prefix. Keys that do not parse are skipped.
func (c CacheRepository) LoadEntries() ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(cachePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			kind, id, ok := ParseCacheKey(string(item.Key()))
			if !ok {
				c.log.Debug("Skipping malformed cache key", "key", string(item.Key()))
				continue
			}
			err := item.Value(func(val []byte) error {
				entries = append(entries, domain.CacheEntry{Kind: kind, ID: id, Name: string(val)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func cacheKey(kind domain.CacheKind, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", cachePrefix, kind, id))
}

// ParseCacheKey splits "cache:{kind}:{uuid}".
func ParseCacheKey(key string) (domain.CacheKind, uuid.UUID, bool) {
	parts := strings.Split(strings.TrimPrefix(key, cachePrefix), ":")
	if len(parts) != 2 {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, false
	}
	kind := domain.CacheKind(parts[0])
	if kind != domain.CacheAgent && kind != domain.CacheGroup {
		return "", uuid.Nil, false
	}
	return kind, id, true
}
