package app

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Kind selects the decoder for a file entry
type Kind int

const (
	KindUnknown Kind = iota
	KindSTL
	KindOBJ
)

func (k Kind) String() string {
	switch k {
	case KindSTL:
		return "stl"
	case KindOBJ:
		return "obj"
	default:
		return "unknown"
	}
}

// KindFromPath derives the kind from the extension, ignoring case. Query
// strings and fragments of URLs are not part of the extension.
func KindFromPath(location string) Kind {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	switch strings.ToLower(path.Ext(filepath.ToSlash(location))) {
	case ".stl":
		return KindSTL
	case ".obj":
		return KindOBJ
	default:
		return KindUnknown
	}
}

// FileEntry is one mesh of the ordered list the viewer browses
type FileEntry struct {
	Kind     Kind
	Location string
}

// Name returns the last path element of the location
func (e FileEntry) Name() string {
	return path.Base(filepath.ToSlash(e.Location))
}

// EntriesFromPaths builds entries in the given order. Unsupported extensions
// are kept; loading them reports ErrUnsupportedExtension.
func EntriesFromPaths(paths []string) []FileEntry {
	entries := make([]FileEntry, len(paths))
	for i, p := range paths {
		entries[i] = FileEntry{Kind: KindFromPath(p), Location: p}
	}
	return entries
}

// ScanDir collects the .stl and .obj files below root, sorted by path.
// Hidden directories are skipped; maxDepth limits the directory nesting
// (0 scans only root, negative means unlimited).
func ScanDir(root string, maxDepth int) ([]FileEntry, error) {
	var entries []FileEntry

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if maxDepth >= 0 && depth(root, p) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if kind := KindFromPath(p); kind != KindUnknown {
			entries = append(entries, FileEntry{Kind: kind, Location: p})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})
	return entries, nil
}

// depth returns how many directories p is below root
func depth(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}
