// Package vfs is the project's virtual file system: a concurrent map
// from canonical path to file contents, keyed by a stable FileID, plus a
// per-file LineIndex for mapping byte offsets back to line/column
// (§4.3, §5 shared resource (a), §6 diagnostic range mapping).
//
// Grounded on the teacher's internal/module.Loader (sync.RWMutex-guarded
// cache keyed by canonical module identity), generalized so the same
// structure serves both batch compilation and the language server's
// copy-on-write document store.
package vfs

import (
	"os"
	"path/filepath"
	"sync"
)

// FileID is a stable, arena-indexed identifier for one loaded file. It
// remains valid for the lifetime of a VFS instance (§8 "Id stability").
type FileID int

// File holds one loaded file's canonical path and text, plus a lazily
// built LineIndex.
type File struct {
	Path string
	Text string

	lineIdxOnce sync.Once
	lineIdx     *LineIndex
}

// LineIndex returns this file's line index, building it on first use.
func (f *File) LineIndex() *LineIndex {
	f.lineIdxOnce.Do(func() { f.lineIdx = buildLineIndex(f.Text) })
	return f.lineIdx
}

// VFS is the concurrent store of every loaded file, keyed both by
// FileID (for O(1) arena-style lookup) and by canonical path (for
// dependency discovery's dedup invariant, §4.3).
type VFS struct {
	mu      sync.RWMutex
	byPath  map[string]FileID
	byID    []*File
}

// New creates an empty VFS.
func New() *VFS {
	return &VFS{byPath: make(map[string]FileID)}
}

// Canonicalize resolves path to an absolute, symlink-free form so the
// same file reached by two distinct relative paths dedupes to one
// FileID (§4.3 invariant).
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// Lookup returns the FileID already registered for a canonical path, if
// any.
func (v *VFS) Lookup(canonicalPath string) (FileID, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	id, ok := v.byPath[canonicalPath]
	return id, ok
}

// Load reads path from disk (if not already cached under its canonical
// form) and returns its FileID.
func (v *VFS) Load(path string) (FileID, error) {
	canon, err := Canonicalize(path)
	if err != nil {
		return 0, err
	}
	if id, ok := v.Lookup(canon); ok {
		return id, nil
	}
	bytes, err := os.ReadFile(canon)
	if err != nil {
		return 0, err
	}
	return v.Put(canon, string(bytes)), nil
}

// Put registers text under canonicalPath, replacing any prior content
// for the same path (used by the language server's rebuild to apply the
// didOpen/didChange overlays, §6).
func (v *VFS) Put(canonicalPath, text string) FileID {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.byPath[canonicalPath]; ok {
		v.byID[id] = &File{Path: canonicalPath, Text: text}
		return id
	}
	id := FileID(len(v.byID))
	v.byID = append(v.byID, &File{Path: canonicalPath, Text: text})
	v.byPath[canonicalPath] = id
	return id
}

// File returns the file registered under id.
func (v *VFS) File(id FileID) *File {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.byID[id]
}

// Len reports how many files are registered.
func (v *VFS) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.byID)
}

// IDs returns every registered FileID, in registration order.
func (v *VFS) IDs() []FileID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]FileID, len(v.byID))
	for i := range v.byID {
		ids[i] = FileID(i)
	}
	return ids
}
