package dto

// DocumentChangedMessage is the internal pub/sub payload emitted after
// every document mutation.
type DocumentChangedMessage struct {
	Action      string `json:"action"`
	DocumentKey string `json:"document_key"`
	StaffId     string `json:"staff_id"`
}
