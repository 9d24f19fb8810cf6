package kv

import (
	"os"
	"path/filepath"
)

const lockFileName = "store.lock"

// FileLock serializes access to the store directory across processes.
// It locks a separate file rather than the documents themselves.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a FileLock for the store directory dir.
func NewFileLock(dir string) *FileLock {
	return &FileLock{path: filepath.Join(dir, lockFileName)}
}
