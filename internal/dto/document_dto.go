package dto

import "time"

type AddDocumentRequest struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename" validate:"required"`
	Content  string `json:"content"`
}

type AddDocumentResponse struct {
	Key string `json:"key"`
}

type UpdateDocumentRequest struct {
	Folder   string
	Filename string
	Content  string `json:"content"`
}

type UpdateDocumentResponse struct {
	Key string `json:"key"`
}

type UploadDocumentRequest struct {
	Folder   string
	Filename string
	Content  []byte
}

type UploadDocumentResponse struct {
	Key      string `json:"key"`
	Replaced bool   `json:"replaced"`
}

type ShowDocumentResponse struct {
	Folder    string     `json:"folder"`
	Filename  string     `json:"filename"`
	Content   string     `json:"content"`
	Editable  bool       `json:"editable"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type DocumentListItem struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Editable bool   `json:"editable"`
	Size     int    `json:"size"`
}

type ListDocumentsResponse struct {
	Folders   []string           `json:"folders"`
	Documents []DocumentListItem `json:"documents"`
}
