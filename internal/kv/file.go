package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/undrift/sessionboard/internal/log"
	"gopkg.in/yaml.v3"
)

// FileStore keeps each namespace in its own YAML document under dir.
// Writes hold an exclusive lock across read-modify-write, so the dashboard
// and CLI commands can update the same store concurrently.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the document path for a namespace.
func (s *FileStore) Path(namespace string) string {
	return filepath.Join(s.dir, namespace+".yaml")
}

func (s *FileStore) Get(namespace, key string) (string, bool, error) {
	all, err := s.All(namespace)
	if err != nil {
		return "", false, err
	}
	v, ok := all[key]
	return v, ok, nil
}

// All returns a copy of the namespace. A corrupt document yields an empty
// map together with a *ParseError.
func (s *FileStore) All(namespace string) (map[string]string, error) {
	lock := NewFileLock(s.dir)
	if err := lock.RLock(); err != nil {
		log.WarningLog.Printf("failed to acquire read lock: %v", err)
	} else {
		defer lock.Unlock()
	}

	data, err := s.read(namespace)
	if err != nil {
		return map[string]string{}, err
	}
	return data, nil
}

func (s *FileStore) Set(namespace, key, value string) error {
	return s.update(namespace, func(m map[string]string) bool {
		if cur, ok := m[key]; ok && cur == value {
			return false
		}
		m[key] = value
		return true
	})
}

func (s *FileStore) Delete(namespace, key string) error {
	return s.update(namespace, func(m map[string]string) bool {
		if _, ok := m[key]; !ok {
			return false
		}
		delete(m, key)
		return true
	})
}

func (s *FileStore) Close() error {
	return nil
}

// update applies fn under the exclusive lock and writes the document back
// when fn reports a change. A corrupt document is backed up and replaced.
func (s *FileStore) update(namespace string, fn func(map[string]string) bool) error {
	lock := NewFileLock(s.dir)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := s.read(namespace)
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		log.WarningLog.Printf("%v", parseErr)
		s.backup(namespace)
		data = map[string]string{}
		// Always rewrite so the corrupt document does not linger.
		fn(data)
		return s.write(namespace, data)
	case err != nil:
		return err
	}

	if !fn(data) {
		return nil
	}
	return s.write(namespace, data)
}

func (s *FileStore) read(namespace string) (map[string]string, error) {
	path := s.Path(namespace)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data map[string]string
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Namespace: namespace, Path: path, Err: err}
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

func (s *FileStore) write(namespace string, data map[string]string) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", namespace, err)
	}

	path := s.Path(namespace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) backup(namespace string) {
	path := s.Path(namespace)
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	backupPath := path + ".corrupt." + time.Now().Format("20060102-150405")
	if err := os.WriteFile(backupPath, raw, 0644); err == nil {
		log.InfoLog.Printf("backed up corrupted %s to: %s", namespace, backupPath)
	}
}
