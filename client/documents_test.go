package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsList_AppliesFieldDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/documents", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   []map[string]any{{"id": "1", "file_name": "x.pdf"}},
			"total":  1,
		})
	}))

	list, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, Document{
		ID:                     "1",
		FileName:               "x.pdf",
		FileSize:               0,
		FileType:               "application/pdf",
		ReverseDistributorID:   "",
		ReverseDistributorName: "Unknown Distributor",
		Source:                 "manual_upload",
		Status:                 "completed",
		ExtractedItems:         0,
	}, list.Documents[0])
}

func TestDocumentsList_WireFieldsWinOverDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": []map[string]any{{
				"id":                       "2",
				"file_name":                "manifest.csv",
				"file_size":                2048,
				"file_type":                "text/csv",
				"reverse_distributor_id":   "rd-9",
				"reverse_distributor_name": "MedReturns Inc",
				"source":                   "email_forward",
				"status":                   "processing",
				"extracted_items":          17,
			}},
			"total": 1,
		})
	}))

	list, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.NoError(t, err)

	doc := list.Documents[0]
	assert.Equal(t, int64(2048), doc.FileSize)
	assert.Equal(t, "text/csv", doc.FileType)
	assert.Equal(t, "MedReturns Inc", doc.ReverseDistributorName)
	assert.Equal(t, "email_forward", doc.Source)
	assert.Equal(t, "processing", doc.Status)
	assert.Equal(t, 17, doc.ExtractedItems)
}

func TestDocumentsList_ErrorUsesEnvelopeMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusForbidden, map[string]any{
			"status":  "error",
			"message": "Subscription required",
		})
	}))

	_, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Subscription required", apiErr.Message)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestDocumentsList_ErrorFallsBackToOperationMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusInternalServerError, map[string]any{"status": "error"})
	}))

	_, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to load documents", apiErr.Message)
}

func TestDocumentsList_GetIsIdempotent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   []map[string]any{{"id": "1", "file_name": "x.pdf"}},
			"total":  1,
		})
	}))

	first, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.NoError(t, err)
	second, err := c.Documents().List(context.Background(), DocumentListOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDocumentsDelete(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		writeEnvelope(t, w, http.StatusOK, map[string]any{"status": "success"})
	}))

	require.NoError(t, c.Documents().Delete(context.Background(), "doc-7"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/documents/doc-7", gotPath)
}
