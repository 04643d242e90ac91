package main

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"docvault-backend/internal/bootstrap"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/extraction"
	"docvault-backend/internal/fields"
	"docvault-backend/internal/folders"
	"docvault-backend/internal/llm"
	"docvault-backend/internal/queue"
	localstore "docvault-backend/internal/shared/storage/object/local"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	_ = ctx
	_ = params
	_ = optFns
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	_ = ctx
	_ = optFns
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func testApp(t *testing.T) *bootstrap.App {
	t.Helper()
	ctx := context.Background()

	folderRepo := folders.NewMemoryRepo()
	docRepo := documents.NewMemoryRepo()
	fieldRepo := fields.NewMemoryRepo()
	resultStore := extraction.NewMemoryStore()
	resultStore.Marker = docRepo

	if err := folderRepo.Create(ctx, folders.Folder{
		ID:        "folder-1",
		ProjectID: "project-1",
		UserID:    "user-1",
		Name:      "Invoices",
	}); err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	if err := fieldRepo.Create(ctx, fields.Field{
		ID:        "field-1",
		ProjectID: "project-1",
		UserID:    "user-1",
		Name:      "Total",
		DataType:  fields.DataTypeNumber,
		Scope:     fields.GlobalScope(),
	}); err != nil {
		t.Fatalf("seed field: %v", err)
	}
	folderID := "folder-1"
	if err := docRepo.Create(ctx, documents.Document{
		ID:        "doc-1",
		UserID:    "user-1",
		ProjectID: "project-1",
		FolderID:  &folderID,
		Name:      "invoice.txt",
		FilePath:  "missing.txt",
		FileType:  "text/plain",
	}); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	return &bootstrap.App{
		ExtractionService: &extraction.Service{
			Store:   resultStore,
			Fields:  fieldRepo,
			Docs:    docRepo,
			Folders: folderRepo,
			Objects: localstore.New(t.TempDir()),
			LLM:     llm.PlaceholderClient{},
		},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	app := testApp(t)
	msgBody, _ := queue.EncodeMessage(queue.Message{
		RunID:     "run-1",
		UserID:    "user-1",
		ProjectID: "project-1",
		FolderID:  "folder-1",
		FieldIDs:  []string{"field-1"},
		RequestID: "req-1",
		Version:   1,
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(string(msgBody)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	app := testApp(t)
	msgBody, _ := queue.EncodeMessage(queue.Message{
		RunID:     "run-2",
		UserID:    "user-1",
		ProjectID: "project-1",
		FolderID:  "no-such-folder",
		FieldIDs:  []string{"field-1"},
		RequestID: "req-2",
		Version:   1,
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	app := testApp(t)
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnMissingTarget(t *testing.T) {
	client := &fakeSQS{}
	app := testApp(t)
	msgBody, _ := queue.EncodeMessage(queue.Message{
		RunID:     "run-3",
		UserID:    "user-1",
		ProjectID: "project-1",
		FieldIDs:  []string{"field-1"},
		Version:   1,
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m4"),
		ReceiptHandle: aws.String("r4"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), app, client, "queue", msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}
