package entity

import (
	"strings"

	"campus-chatbot-be/internal/constant"
)

// Folder is the two-level document namespace: either the implicit root
// or a single named folder. Modeled as a closed type so "no folder" and
// "folder named empty string" cannot be confused.
type Folder struct {
	name string
}

var Root = Folder{}

func NamedFolder(name string) Folder {
	return Folder{name: name}
}

// ParseFolder resolves the wire representation of a folder. The editor
// UI sends "Main Folder" (or an empty string) for the root namespace.
func ParseFolder(raw string) Folder {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == constant.RootFolderDisplayName {
		return Root
	}
	return Folder{name: trimmed}
}

func (f Folder) IsRoot() bool {
	return f.name == ""
}

// Name returns the stored folder segment; empty for root.
func (f Folder) Name() string {
	return f.name
}

// DisplayName returns the UI label for this folder.
func (f Folder) DisplayName() string {
	if f.IsRoot() {
		return constant.RootFolderDisplayName
	}
	return f.name
}

// Key resolves the store key for a filename in this folder:
// "filename" at root, "folder/filename" otherwise.
func (f Folder) Key(filename string) string {
	if f.IsRoot() {
		return filename
	}
	return f.name + "/" + filename
}

// SplitKey breaks a store key back into its folder and filename parts.
func SplitKey(key string) (Folder, string) {
	if idx := strings.IndexByte(key, '/'); idx >= 0 {
		return Folder{name: key[:idx]}, key[idx+1:]
	}
	return Root, key
}
