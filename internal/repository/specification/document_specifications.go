package specification

import "gorm.io/gorm"

type ByFolder struct {
	Folder string
}

func (s ByFolder) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder = ?", s.Folder)
}

type ByFolderAndFilename struct {
	Folder   string
	Filename string
}

func (s ByFolderAndFilename) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder = ? AND filename = ?", s.Folder, s.Filename)
}

// OrderByKey sorts documents lexicographically by their resolved store
// key ("filename" at root, "folder/filename" otherwise) so listings are
// stable for clients.
type OrderByKey struct{}

func (s OrderByKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN folder = '' THEN filename ELSE folder || '/' || filename END ASC")
}
