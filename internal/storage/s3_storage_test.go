package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Presigning is local SigV4 computation, so these run without AWS access.

func TestS3Storage_GeneratePresignedURL(t *testing.T) {
	store := NewS3Storage("us-east-1", "marketgraph-docs", "AKIDEXAMPLE", "secret", "")

	resp, err := store.GeneratePresignedURL("report.pdf", "application/pdf", "ingest")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "ingest/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".pdf"))
	assert.Contains(t, resp.UploadURL, "marketgraph-docs")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Contains(t, resp.FileURL, resp.Key)
}

func TestS3Storage_GeneratePresignedURL_UniqueKeys(t *testing.T) {
	store := NewS3Storage("us-east-1", "marketgraph-docs", "AKIDEXAMPLE", "secret", "")

	first, err := store.GeneratePresignedURL("report.pdf", "application/pdf", "ingest")
	require.NoError(t, err)
	second, err := store.GeneratePresignedURL("report.pdf", "application/pdf", "ingest")
	require.NoError(t, err)

	// Same filename never collides in the staging folder
	assert.NotEqual(t, first.Key, second.Key)
}

func TestS3Storage_GeneratePresignedURL_BaseURL(t *testing.T) {
	store := NewS3Storage("us-east-1", "marketgraph-docs", "AKIDEXAMPLE", "secret", "https://cdn.example.com")

	resp, err := store.GeneratePresignedURL("notes.txt", "text/plain", "ingest")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FileURL, "https://cdn.example.com/ingest/"))
}
