package coyote

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FilesystemStorage keeps each template version in its own JSON file:
//
//	<root>/<name>/v1.json
//	<root>/<name>/v2.json
//
// Anything else found under root is ignored.
type FilesystemStorage struct {
	storageGuard
	root string
}

// FilesystemStorageDriver opens FilesystemStorage instances; the connection
// string is the root directory.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

func (d *FilesystemStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot = "invalid storage root path"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgReadStorageDir     = "failed to read storage directory"
	ErrMsgMarshalTemplate    = "failed to marshal template"
	ErrMsgUnmarshalTemplate  = "failed to unmarshal template"
	ErrMsgWriteTemplate      = "failed to write template file"
	ErrMsgReadTemplate       = "failed to read template file"
	ErrMsgDeleteTemplate     = "failed to delete template"
)

// NewFilesystemStorage opens storage rooted at root, creating the directory
// when missing.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

func (s *FilesystemStorage) Get(ctx context.Context, name string) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		versions, err := s.versions(name)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			return NewTemplateNotFoundError(name)
		}
		tmpl, err = s.load(name, versions[0])
		return err
	})
	return tmpl, err
}

// GetByID walks every version file until the ID matches.
func (s *FilesystemStorage) GetByID(ctx context.Context, id TemplateID) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		found := false
		walkErr := s.each(true, func(t *StoredTemplate) bool {
			if t.ID == id {
				tmpl, found = t, true
			}
			return !found
		})
		if walkErr != nil {
			return walkErr
		}
		if !found {
			return NewTemplateNotFoundError(string(id))
		}
		return nil
	})
	return tmpl, err
}

func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (tmpl *StoredTemplate, err error) {
	err = s.read(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		tmpl, err = s.load(name, version)
		return err
	})
	return tmpl, err
}

// Save writes the next version to a temporary file and renames it into
// place, so readers never see a partial file.
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	return s.write(ctx, func() error {
		if err := validateTemplateNameForFilesystem(tmpl.Name); err != nil {
			return err
		}

		dir := filepath.Join(s.root, tmpl.Name)
		if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
			return &StorageError{Message: ErrMsgCreateStorageDir, Name: dir, Cause: err}
		}

		versions, err := s.versions(tmpl.Name)
		if err != nil {
			return err
		}
		next := 1
		if len(versions) > 0 {
			next = versions[0] + 1
		}

		stored := newStoredVersion(tmpl, next, time.Now())
		data, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			return &StorageError{Message: ErrMsgMarshalTemplate, Name: tmpl.Name, Cause: err}
		}
		if err := writeFileAtomic(s.versionFile(tmpl.Name, next), data); err != nil {
			return &StorageError{Message: ErrMsgWriteTemplate, Name: tmpl.Name, Version: next, Cause: err}
		}

		applyStored(tmpl, stored)
		return nil
	})
}

func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	return s.write(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		dir := filepath.Join(s.root, name)
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			return NewTemplateNotFoundError(name)
		}
		if err := os.RemoveAll(dir); err != nil {
			return &StorageError{Message: ErrMsgDeleteTemplate, Name: name, Cause: err}
		}
		return nil
	})
}

// DeleteVersion removes one version file. The name's directory goes with
// its last version.
func (s *FilesystemStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	return s.write(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		err := os.Remove(s.versionFile(name, version))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return NewStorageVersionNotFoundError(name, version)
		case err != nil:
			return &StorageError{Message: ErrMsgDeleteTemplate, Name: name, Version: version, Cause: err}
		}

		if rest, err := s.versions(name); err == nil && len(rest) == 0 {
			_ = os.Remove(filepath.Join(s.root, name))
		}
		return nil
	})
}

func (s *FilesystemStorage) List(ctx context.Context, query *TemplateQuery) (results []*StoredTemplate, err error) {
	if query == nil {
		query = &TemplateQuery{}
	}

	err = s.read(ctx, func() error {
		results = []*StoredTemplate{}
		return s.each(query.IncludeAllVersions, func(t *StoredTemplate) bool {
			if matchesQuery(t, query) {
				results = append(results, t)
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return paginate(results, query), nil
}

func (s *FilesystemStorage) Exists(ctx context.Context, name string) (exists bool, err error) {
	err = s.read(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		versions, err := s.versions(name)
		exists = len(versions) > 0
		return err
	})
	return exists, err
}

// ListVersions returns version numbers newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) (versions []int, err error) {
	err = s.read(ctx, func() error {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return err
		}
		versions, err = s.versions(name)
		return err
	})
	return versions, err
}

// Close rejects further calls. Files on disk are left alone.
func (s *FilesystemStorage) Close() error {
	s.shutdown(nil)
	return nil
}

func (s *FilesystemStorage) versionFile(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// each loads templates name by name and hands them to fn until it returns
// false. Only the newest version of a name is visited unless all is set.
// Unreadable files are skipped. Callers hold the guard.
func (s *FilesystemStorage) each(all bool, fn func(*StoredTemplate) bool) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		versions, err := s.versions(name)
		if err != nil || len(versions) == 0 {
			continue
		}
		if !all {
			versions = versions[:1]
		}
		for _, version := range versions {
			tmpl, err := s.load(name, version)
			if err != nil {
				continue
			}
			if !fn(tmpl) {
				return nil
			}
		}
	}
	return nil
}

// versions parses the v<N>.json files of name, newest first.
func (s *FilesystemStorage) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []int{}, nil
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}

	versions := []int{}
	for _, entry := range entries {
		if version, ok := parseVersionFile(entry); ok {
			versions = append(versions, version)
		}
	}
	slices.Sort(versions)
	slices.Reverse(versions)
	return versions, nil
}

func parseVersionFile(entry fs.DirEntry) (int, bool) {
	if entry.IsDir() {
		return 0, false
	}
	number, ok := strings.CutPrefix(entry.Name(), FilesystemVersionPrefix)
	if !ok {
		return 0, false
	}
	number, ok = strings.CutSuffix(number, FilesystemVersionSuffix)
	if !ok {
		return 0, false
	}
	version, err := strconv.Atoi(number)
	if err != nil || version <= 0 {
		return 0, false
	}
	return version, true
}

func (s *FilesystemStorage) load(name string, version int) (*StoredTemplate, error) {
	path := s.versionFile(name, version)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewStorageVersionNotFoundError(name, version)
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadTemplate, Name: path, Cause: err}
	}

	tmpl := &StoredTemplate{}
	if err := json.Unmarshal(data, tmpl); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalTemplate, Name: path, Cause: err}
	}
	return tmpl, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".save-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(FilesystemFilePermissions); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// validateTemplateNameForFilesystem rejects names that could escape root.
func validateTemplateNameForFilesystem(name string) error {
	switch {
	case name == "":
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	case strings.Contains(name, FilesystemParentDir):
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	case strings.ContainsAny(name, FilesystemForbiddenChars):
		return &StorageError{Message: ErrMsgInvalidTemplateName, Name: name}
	}
	return nil
}
