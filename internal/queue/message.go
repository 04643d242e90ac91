package queue

import "encoding/json"

// Message is the payload sent to downstream extraction workers. Exactly
// one of DocumentID and FolderID is set, selecting the run target.
type Message struct {
	RunID      string   `json:"runId"`
	UserID     string   `json:"userId"`
	ProjectID  string   `json:"projectId"`
	DocumentID string   `json:"documentId,omitempty"`
	FolderID   string   `json:"folderId,omitempty"`
	FieldIDs   []string `json:"fieldIds"`
	RequestID  string   `json:"requestId"`
	EnqueuedAt string   `json:"enqueuedAt"`
	Version    int      `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
