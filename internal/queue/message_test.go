package queue

import "testing"

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		RunID:      "run-1",
		UserID:     "user-1",
		ProjectID:  "project-1",
		FolderID:   "folder-1",
		FieldIDs:   []string{"field-1", "field-2"},
		RequestID:  "req-1",
		EnqueuedAt: "2026-01-02T03:04:05Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	decoded, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded.RunID != msg.RunID || decoded.FolderID != msg.FolderID {
		t.Fatalf("decoded %+v, want %+v", decoded, msg)
	}
	if len(decoded.FieldIDs) != 2 || decoded.FieldIDs[0] != "field-1" {
		t.Fatalf("field ids not preserved: %v", decoded.FieldIDs)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
