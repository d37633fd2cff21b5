package dto

type QueryRequest struct {
	Question string `json:"question" validate:"required"`
	TopK     int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

type QueryChunk struct {
	DocumentKey string  `json:"document_key"`
	Content     string  `json:"content"`
	Similarity  float64 `json:"similarity"`
}

type QueryResponse struct {
	VersionId string       `json:"version_id"`
	Chunks    []QueryChunk `json:"chunks"`
	Cached    bool         `json:"cached"`
}
