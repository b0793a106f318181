package coyote

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CachedStorage puts a read-through cache in front of any TemplateStorage.
// Latest versions expire after a TTL since another writer may add a newer
// one. Specific versions never change once saved, so they stay cached until
// the name is written or deleted through this wrapper.
type CachedStorage struct {
	storageGuard
	backend TemplateStorage
	config  CacheConfig
	logger  *zap.Logger

	latest   map[string]*cacheEntry
	versions map[string]map[int]*StoredTemplate

	// epoch moves on InvalidateAll and generations on Invalidate. A fetch
	// only fills the cache if neither moved while it ran.
	epoch       uint64
	generations map[string]uint64
}

type cacheToken struct {
	epoch      uint64
	generation uint64
}

// CacheConfig configures CachedStorage.
type CacheConfig struct {
	// TTL bounds how long a latest-version lookup is served from cache.
	TTL time.Duration

	// MaxEntries caps the number of cached names. The least recently used
	// name is evicted first.
	MaxEntries int

	// NegativeTTL is how long a missing name is remembered. Zero disables it.
	NegativeTTL time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:         StorageCacheDefaultTTL,
		MaxEntries:  StorageCacheDefaultMaxEntries,
		NegativeTTL: StorageCacheDefaultNegativeTTL,
	}
}

type cacheEntry struct {
	template   *StoredTemplate
	missing    bool
	cachedAt   time.Time
	accessedAt time.Time
}

// CachedStorageStats is a snapshot of cache contents.
type CachedStorageStats struct {
	Names    int
	Missing  int
	Versions int
}

// NewCachedStorage wraps storage with a cache. A nil logger disables logging.
func NewCachedStorage(storage TemplateStorage, config CacheConfig, logger *zap.Logger) *CachedStorage {
	defaults := DefaultCacheConfig()
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = defaults.MaxEntries
	}
	if config.NegativeTTL < 0 {
		config.NegativeTTL = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cached := &CachedStorage{
		backend:     storage,
		config:      config,
		logger:      logger,
		generations: map[string]uint64{},
	}
	cached.reset()
	return cached
}

// Get serves the newest version of name from cache while it is fresh and
// reads through to the backend otherwise.
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	var (
		hit   *cacheEntry
		token cacheToken
	)
	err := s.write(ctx, func() error {
		if entry := s.latest[name]; entry != nil && s.fresh(entry) {
			entry.accessedAt = time.Now()
			hit = entry
		}
		token = s.token(name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hit != nil {
		s.logger.Debug(LogMsgCacheHit, zap.String(LogFieldName, name))
		if hit.missing {
			return nil, NewTemplateNotFoundError(name)
		}
		return copyStoredTemplate(hit.template), nil
	}

	s.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldName, name))
	tmpl, fetchErr := s.backend.Get(ctx, name)

	err = s.write(context.WithoutCancel(ctx), func() error {
		switch {
		case s.token(name) != token:
			// invalidated while fetching; the result may predate the write
		case fetchErr == nil:
			s.put(name, tmpl)
			s.putVersion(tmpl)
		case s.config.NegativeTTL > 0 && IsTemplateNotFound(fetchErr):
			s.put(name, nil)
		}
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return copyStoredTemplate(tmpl), nil
}

// GetVersion caches saved versions until their name changes through this
// wrapper.
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	var (
		cached *StoredTemplate
		token  cacheToken
	)
	err := s.read(ctx, func() error {
		cached = s.versions[name][version]
		token = s.token(name)
		return nil
	})
	switch {
	case err != nil:
		return nil, err
	case cached != nil:
		s.logger.Debug(LogMsgCacheHit, zap.String(LogFieldName, name), zap.Int(LogFieldVersion, version))
		return copyStoredTemplate(cached), nil
	}

	tmpl, err := s.backend.GetVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	_ = s.write(context.WithoutCancel(ctx), func() error {
		if s.token(name) == token {
			s.putVersion(tmpl)
		}
		return nil
	})
	return copyStoredTemplate(tmpl), nil
}

func (s *CachedStorage) GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error) {
	return s.backend.GetByID(ctx, id)
}

func (s *CachedStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	return s.invalidateAfter(tmpl.Name, s.backend.Save(ctx, tmpl))
}

func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	return s.invalidateAfter(name, s.backend.Delete(ctx, name))
}

func (s *CachedStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	return s.invalidateAfter(name, s.backend.DeleteVersion(ctx, name, version))
}

func (s *CachedStorage) invalidateAfter(name string, err error) error {
	if err == nil {
		s.Invalidate(name)
	}
	return err
}

func (s *CachedStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return s.backend.List(ctx, query)
}

// Exists trusts a fresh entry, including a remembered miss.
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	var entry *cacheEntry
	err := s.read(ctx, func() error {
		if e := s.latest[name]; e != nil && s.fresh(e) {
			entry = e
		}
		return nil
	})
	switch {
	case err != nil:
		return false, err
	case entry != nil:
		return !entry.missing, nil
	}
	return s.backend.Exists(ctx, name)
}

func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	return s.backend.ListVersions(ctx, name)
}

// Close drops the cache and closes the backend.
func (s *CachedStorage) Close() error {
	s.shutdown(func() {
		s.latest = nil
		s.versions = nil
	})
	return s.backend.Close()
}

// Invalidate forgets everything cached for a name.
func (s *CachedStorage) Invalidate(name string) {
	_ = s.write(context.Background(), func() error {
		delete(s.latest, name)
		delete(s.versions, name)
		s.generations[name]++
		return nil
	})
}

func (s *CachedStorage) InvalidateAll() {
	_ = s.write(context.Background(), func() error {
		s.reset()
		s.epoch++
		s.generations = map[string]uint64{}
		return nil
	})
}

// token snapshots the invalidation state of name. Caller holds the guard.
func (s *CachedStorage) token(name string) cacheToken {
	return cacheToken{epoch: s.epoch, generation: s.generations[name]}
}

func (s *CachedStorage) reset() {
	s.latest = map[string]*cacheEntry{}
	s.versions = map[string]map[int]*StoredTemplate{}
}

// Stats counts fresh entries.
func (s *CachedStorage) Stats() CachedStorageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats CachedStorageStats
	for _, entry := range s.latest {
		if !s.fresh(entry) {
			continue
		}
		if entry.missing {
			stats.Missing++
		} else {
			stats.Names++
		}
	}
	for _, byVersion := range s.versions {
		stats.Versions += len(byVersion)
	}
	return stats
}

func (s *CachedStorage) fresh(entry *cacheEntry) bool {
	if entry.missing {
		return time.Since(entry.cachedAt) < s.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < s.config.TTL
}

// put caches the latest version of a name; nil records a miss.
// Caller must hold the write lock.
func (s *CachedStorage) put(name string, tmpl *StoredTemplate) {
	if _, ok := s.latest[name]; !ok && len(s.latest) >= s.config.MaxEntries {
		s.evictLeastRecent()
	}

	entry := &cacheEntry{template: copyStoredTemplate(tmpl), missing: tmpl == nil, cachedAt: time.Now()}
	entry.accessedAt = entry.cachedAt
	s.latest[name] = entry
}

// Caller must hold the write lock.
func (s *CachedStorage) putVersion(tmpl *StoredTemplate) {
	if s.versions[tmpl.Name] == nil {
		s.versions[tmpl.Name] = map[int]*StoredTemplate{}
	}
	s.versions[tmpl.Name][tmpl.Version] = copyStoredTemplate(tmpl)
}

// Caller must hold the write lock.
func (s *CachedStorage) evictLeastRecent() {
	var (
		victim string
		oldest time.Time
	)
	for name, entry := range s.latest {
		if oldest.IsZero() || entry.accessedAt.Before(oldest) {
			victim, oldest = name, entry.accessedAt
		}
	}
	if oldest.IsZero() {
		return
	}

	s.logger.Debug(LogMsgCacheEvicted, zap.String(LogFieldName, victim))
	delete(s.latest, victim)
	delete(s.versions, victim)
}
