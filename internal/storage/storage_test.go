package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFSBucketUploadOverwrites(t *testing.T) {
	b, err := NewFSBucket(t.TempDir(), "", "http://localhost:8080/storage/")
	if err != nil {
		t.Fatalf("NewFSBucket: %v", err)
	}
	ctx := context.Background()
	name := NewObjectName()

	if err := b.Upload(ctx, name, []byte("first"), "image/jpeg"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := b.Upload(ctx, name, []byte("second"), "image/jpeg"); err != nil {
		t.Fatalf("Upload overwrite: %v", err)
	}

	got, err := b.Download(ctx, name)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("Expected overwritten content, got %q", got)
	}
}

func TestFSBucketRejectsTraversal(t *testing.T) {
	b, err := NewFSBucket(t.TempDir(), "invites", "http://x")
	if err != nil {
		t.Fatalf("NewFSBucket: %v", err)
	}
	if err := b.Upload(context.Background(), "../evil.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Error("Expected an error for a path outside the bucket")
	}
}

func TestFSBucketDownloadMissing(t *testing.T) {
	b, _ := NewFSBucket(t.TempDir(), "invites", "http://x")
	if _, err := b.Download(context.Background(), "none.jpg"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	b, _ := NewFSBucket(t.TempDir(), "invites", "http://localhost:8080/storage/")

	if got := PublicURL(b, "a.jpg"); got != "http://localhost:8080/storage/invites/a.jpg" {
		t.Errorf("Unexpected public URL %q", got)
	}
	if got := PublicURL(b, "https://cdn.example/a.jpg"); got != "https://cdn.example/a.jpg" {
		t.Errorf("Absolute URL should pass through, got %q", got)
	}
	if got := PublicURL(b, ""); got != "" {
		t.Errorf("Expected empty URL, got %q", got)
	}
	if !strings.HasSuffix(NewObjectName(), ".jpg") {
		t.Error("Object names should end with .jpg")
	}
}
