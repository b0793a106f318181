package coyote

import (
	"context"
	"slices"
	"time"
)

// MemoryStorage keeps templates in process memory. Useful for tests, the CLI
// and short-lived processes; nothing survives a restart.
type MemoryStorage struct {
	storageGuard
	templates map[string]versionList
	byID      map[TemplateID]*StoredTemplate
}

// versionList holds the versions of one name, oldest first.
type versionList []*StoredTemplate

func (l versionList) latest() *StoredTemplate {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1]
}

func (l versionList) index(version int) int {
	return slices.IndexFunc(l, func(t *StoredTemplate) bool { return t.Version == version })
}

// MemoryStorageDriver opens MemoryStorage instances. The connection string
// is ignored.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open returns a fresh, empty MemoryStorage.
func (d *MemoryStorageDriver) Open(string) (TemplateStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		templates: make(map[string]versionList),
		byID:      make(map[TemplateID]*StoredTemplate),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, name string) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		latest := s.templates[name].latest()
		if latest == nil {
			return NewTemplateNotFoundError(name)
		}
		tmpl = copyStoredTemplate(latest)
		return nil
	})
	return tmpl, err
}

func (s *MemoryStorage) GetByID(ctx context.Context, id TemplateID) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		found, ok := s.byID[id]
		if !ok {
			return NewTemplateNotFoundError(string(id))
		}
		tmpl = copyStoredTemplate(found)
		return nil
	})
	return tmpl, err
}

func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		versions := s.templates[name]
		i := versions.index(version)
		if i < 0 {
			return NewStorageVersionNotFoundError(name, version)
		}
		tmpl = copyStoredTemplate(versions[i])
		return nil
	})
	return tmpl, err
}

// Save appends a new version; the first save of a name is version 1.
func (s *MemoryStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	return s.write(ctx, func() error {
		if tmpl.Name == "" {
			return &StorageError{Message: ErrMsgInvalidTemplateName}
		}

		versions := s.templates[tmpl.Name]
		next := 1
		if latest := versions.latest(); latest != nil {
			next = latest.Version + 1
		}

		stored := newStoredVersion(tmpl, next, time.Now())
		s.templates[tmpl.Name] = append(versions, stored)
		s.byID[stored.ID] = stored
		applyStored(tmpl, stored)
		return nil
	})
}

func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	return s.write(ctx, func() error {
		versions, ok := s.templates[name]
		if !ok {
			return NewTemplateNotFoundError(name)
		}
		for _, tmpl := range versions {
			delete(s.byID, tmpl.ID)
		}
		delete(s.templates, name)
		return nil
	})
}

// DeleteVersion removes one version; the name goes with its last version.
func (s *MemoryStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	return s.write(ctx, func() error {
		versions := s.templates[name]
		i := versions.index(version)
		if i < 0 {
			return NewStorageVersionNotFoundError(name, version)
		}

		delete(s.byID, versions[i].ID)
		versions = slices.Delete(versions, i, i+1)
		if len(versions) == 0 {
			delete(s.templates, name)
		} else {
			s.templates[name] = versions
		}
		return nil
	})
}

func (s *MemoryStorage) List(ctx context.Context, query *TemplateQuery) (results []*StoredTemplate, err error) {
	if query == nil {
		query = &TemplateQuery{}
	}

	err = s.read(ctx, func() error {
		results = []*StoredTemplate{}
		for _, versions := range s.templates {
			candidates := versions
			if !query.IncludeAllVersions {
				candidates = versions[len(versions)-1:]
			}
			for _, tmpl := range candidates {
				if matchesQuery(tmpl, query) {
					results = append(results, copyStoredTemplate(tmpl))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paginate(results, query), nil
}

func (s *MemoryStorage) Exists(ctx context.Context, name string) (exists bool, err error) {
	err = s.read(ctx, func() error {
		exists = len(s.templates[name]) > 0
		return nil
	})
	return exists, err
}

// ListVersions returns version numbers newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) (versions []int, err error) {
	err = s.read(ctx, func() error {
		list := s.templates[name]
		versions = make([]int, 0, len(list))
		for i := len(list) - 1; i >= 0; i-- {
			versions = append(versions, list[i].Version)
		}
		return nil
	})
	return versions, err
}

// Close drops every template. Later calls fail with a closed error.
func (s *MemoryStorage) Close() error {
	s.shutdown(func() {
		s.templates = nil
		s.byID = nil
	})
	return nil
}
