package entity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileClass is the editability classification of a document.
type FileClass int

const (
	FileClassEditable FileClass = iota
	FileClassBinary
)

// Classify applies the editability rule: lowercased extension in
// {txt, md} is editable through the text path, everything else is
// binary and only replaceable via upload.
func Classify(filename string) FileClass {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "txt", "md":
		return FileClassEditable
	default:
		return FileClassBinary
	}
}

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Folder    string
	Filename  string
	Content   []byte
	Size      int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Key returns the store key "folder/filename" (bare filename at root).
func (d *Document) Key() string {
	if d.Folder == "" {
		return d.Filename
	}
	return d.Folder + "/" + d.Filename
}

// Editable reports whether this document can be mutated through the
// text-editing path.
func (d *Document) Editable() bool {
	return Classify(d.Filename) == FileClassEditable
}
