package coyote

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/base64"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TemplateID identifies one stored version, e.g. "tmpl_6ByTSYmGzT2c".
type TemplateID string

// StoredTemplate is one version of a named template. Storage assigns ID,
// Version and both timestamps on Save; callers fill in the rest.
type StoredTemplate struct {
	ID      TemplateID `json:"id"`
	Name    string     `json:"name"`
	Source  string     `json:"source"`
	Version int        `json:"version"`

	// Ruleset is html, client or xml. Empty leaves the choice to the
	// Document rendering it.
	Ruleset string `json:"ruleset,omitempty"`

	Metadata  map[string]string `json:"metadata,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	CreatedBy string            `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TemplateQuery filters List. Zero fields match everything; Tags must all
// be present. Limit 0 means unlimited.
type TemplateQuery struct {
	NamePrefix   string
	NameContains string
	Ruleset      string
	CreatedBy    string
	Tags         []string

	Limit  int
	Offset int

	// IncludeAllVersions lists every version instead of the newest per name.
	IncludeAllVersions bool
}

// TemplateStorage is a versioned template store. Every backend is safe for
// concurrent use, returns copies, and fails with a closed error after Close.
type TemplateStorage interface {
	// Get returns the newest version of name.
	Get(ctx context.Context, name string) (*StoredTemplate, error)
	GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error)
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save appends a version after the newest one of tmpl.Name and writes
	// the assigned ID, Version and timestamps back into tmpl.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	Delete(ctx context.Context, name string) error
	DeleteVersion(ctx context.Context, name string, version int) error

	// List orders by name, then newest version first, before paging.
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns version numbers newest first.
	ListVersions(ctx context.Context, name string) ([]int, error)

	Close() error
}

// StorageDriver opens a backend from a driver-specific connection string.
// Backends register a driver from init.
type StorageDriver interface {
	Open(connectionString string) (TemplateStorage, error)
}

var (
	storageDriversMu sync.RWMutex
	storageDrivers   = map[string]StorageDriver{}
)

// RegisterStorageDriver makes a driver available to OpenStorage. It panics
// on a nil driver or a name registered twice.
func RegisterStorageDriver(name string, driver StorageDriver) {
	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}

	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()
	if storageDrivers[name] != nil {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a backend through a registered driver:
//
//	s, err := coyote.OpenStorage("filesystem", "/var/lib/coyote")
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	storageDriversMu.RLock()
	driver := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if driver == nil {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ParseStorageSpec splits a "driver:connection" spec. A spec without a
// colon names a driver with an empty connection string.
func ParseStorageSpec(spec string) (driver, connection string) {
	driver, connection, _ = strings.Cut(spec, ":")
	return driver, connection
}

// ListStorageDrivers returns registered driver names in order.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()
	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "template version not found"
	ErrMsgInvalidTemplateName     = "invalid template name"
	ErrMsgPathTraversalDetected   = "invalid template name: path traversal characters detected"
)

func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{Message: ErrMsgVersionNotFound, Name: name, Version: version}
}

func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// StorageError reports a backend failure. Name and Version locate the
// template when known; Cause is the underlying driver error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Name != "" {
		b.WriteString(": " + e.Name)
		if e.Version > 0 {
			b.WriteString(" v" + strconv.Itoa(e.Version))
		}
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// storageGuard serializes access to a storage backend and rejects calls
// once it is closed. Read and write run fn under the matching lock.
type storageGuard struct {
	mu     sync.RWMutex
	closed bool
}

func (g *storageGuard) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return NewStorageClosedError()
	}
	return fn()
}

func (g *storageGuard) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return NewStorageClosedError()
	}
	return fn()
}

// shutdown marks the guard closed and runs release under the write lock.
func (g *storageGuard) shutdown(release func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if release != nil {
		release()
	}
}

func matchesQuery(tmpl *StoredTemplate, query *TemplateQuery) bool {
	switch {
	case query.NamePrefix != "" && !strings.HasPrefix(tmpl.Name, query.NamePrefix):
		return false
	case query.NameContains != "" && !strings.Contains(tmpl.Name, query.NameContains):
		return false
	case query.Ruleset != "" && tmpl.Ruleset != query.Ruleset:
		return false
	case query.CreatedBy != "" && tmpl.CreatedBy != query.CreatedBy:
		return false
	}
	for _, tag := range query.Tags {
		if !slices.Contains(tmpl.Tags, tag) {
			return false
		}
	}
	return true
}

// paginate orders by name, newest version first, then applies offset and limit.
func paginate(results []*StoredTemplate, query *TemplateQuery) []*StoredTemplate {
	slices.SortFunc(results, func(a, b *StoredTemplate) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(b.Version, a.Version)
	})

	offset := min(max(query.Offset, 0), len(results))
	results = results[offset:]
	if query.Limit > 0 {
		results = results[:min(query.Limit, len(results))]
	}
	return results
}

// generateTemplateID generates a unique template ID.
func generateTemplateID() TemplateID {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return TemplateID(TemplateIDPrefix + base64.RawURLEncoding.EncodeToString(b))
}

// newStoredVersion builds the record a storage persists for tmpl.
func newStoredVersion(tmpl *StoredTemplate, version int, now time.Time) *StoredTemplate {
	return &StoredTemplate{
		ID:        generateTemplateID(),
		Name:      tmpl.Name,
		Source:    tmpl.Source,
		Ruleset:   tmpl.Ruleset,
		Version:   version,
		Metadata:  maps.Clone(tmpl.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: tmpl.CreatedBy,
		Tags:      slices.Clone(tmpl.Tags),
	}
}

// applyStored copies the generated fields back to the caller's template.
func applyStored(tmpl, stored *StoredTemplate) {
	tmpl.ID = stored.ID
	tmpl.Version = stored.Version
	tmpl.CreatedAt = stored.CreatedAt
	tmpl.UpdatedAt = stored.UpdatedAt
}

// copyStoredTemplate deep-copies tmpl so callers never share maps or slices
// with a backend.
func copyStoredTemplate(tmpl *StoredTemplate) *StoredTemplate {
	if tmpl == nil {
		return nil
	}
	cp := *tmpl
	cp.Metadata = maps.Clone(tmpl.Metadata)
	cp.Tags = slices.Clone(tmpl.Tags)
	return &cp
}
