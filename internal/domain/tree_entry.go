package domain

import (
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// EntryKind is the object kind of an ls-tree entry.
type EntryKind string

const (
	EntryKindBlob EntryKind = "blob"
	EntryKindTree EntryKind = "tree"
	// EntryKindLink is a submodule gitlink, reported by git as "commit"
	EntryKindLink EntryKind = "link"
)

// SizeNotApplicable is the size git reports for entries without one, such as trees.
const SizeNotApplicable = "-"

var entryKinds = map[string]EntryKind{
	"blob":   EntryKindBlob,
	"tree":   EntryKindTree,
	"commit": EntryKindLink,
}

// <mode> SP <type> SP <object> SP+ <size> TAB <path>
var treeEntryLine = regexp.MustCompile(`^(\d+) (\w+) ([0-9a-f]+) +(\d+|-)\t(.*)$`)

// TreeEntry is one path entry of a `git ls-tree -l` listing.
type TreeEntry struct {
	Permissions string    `json:"permissions"`
	Kind        EntryKind `json:"kind"`
	Hash        string    `json:"hash"`
	Size        string    `json:"size"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
}

// ParseTreeEntry parses a single line of `git ls-tree -l` output.
func ParseTreeEntry(line string) (TreeEntry, error) {
	m := treeEntryLine.FindStringSubmatch(line)
	if m == nil {
		return TreeEntry{}, NewParseError(line, "line does not match the ls-tree format")
	}
	kind, ok := entryKinds[m[2]]
	if !ok {
		return TreeEntry{}, NewParseError(line, "unknown entry kind "+m[2])
	}
	fullPath, err := unquotePath(m[5])
	if err != nil {
		return TreeEntry{}, NewParseError(line, "malformed quoted path")
	}
	dir, name := splitEntryPath(fullPath)
	return TreeEntry{
		Permissions: m[1],
		Kind:        kind,
		Hash:        m[3],
		Size:        m[4],
		Name:        name,
		Path:        dir,
	}, nil
}

// ParseTreeEntries parses every line, stopping at the first malformed one.
func ParseTreeEntries(lines []string) ([]TreeEntry, error) {
	entries := make([]TreeEntry, 0, len(lines))
	for i, line := range lines {
		entry, err := ParseTreeEntry(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = i + 1
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// unquotePath decodes a path git wrapped in double quotes with C-style escapes.
// git quotes every path containing '"', '\\' or a control character, so a
// leading quote always means the path is quoted.
func unquotePath(p string) (string, error) {
	if !strings.HasPrefix(p, `"`) {
		return p, nil
	}
	return strconv.Unquote(p)
}

func splitEntryPath(fullPath string) (string, string) {
	idx := strings.LastIndex(fullPath, "/")
	if idx < 0 {
		return "", fullPath
	}
	return fullPath[:idx], fullPath[idx+1:]
}

// FullPath joins Path and Name back into the repository-relative path.
func (e TreeEntry) FullPath() string {
	if e.Path == "" {
		return e.Name
	}
	return e.Path + "/" + e.Name
}

// Extension returns the part of the name after the last dot, or "" when there is none.
func (e TreeEntry) Extension() string {
	idx := strings.LastIndex(e.Name, ".")
	if idx < 0 {
		return ""
	}
	return e.Name[idx+1:]
}

// MimeType guesses the content type from the file extension.
// Trees and links have none.
func (e TreeEntry) MimeType() string {
	if !e.IsBlob() {
		return ""
	}
	return mime.TypeByExtension(path.Ext(e.Name))
}

func (e TreeEntry) IsBlob() bool { return e.Kind == EntryKindBlob }
func (e TreeEntry) IsTree() bool { return e.Kind == EntryKindTree }
func (e TreeEntry) IsLink() bool { return e.Kind == EntryKindLink }

func (e TreeEntry) String() string {
	return e.Name
}
