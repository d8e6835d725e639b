package client

import (
	"context"
	"net/url"
	"strconv"
)

// DocumentsClient wraps the /documents endpoints: manifests, invoices, and
// other paperwork attached to the pharmacy's return activity.
type DocumentsClient struct {
	client *Client
}

// Document is the client-side shape of a stored document.
type Document struct {
	ID                     string
	FileName               string
	FileSize               int64
	FileType               string
	ReverseDistributorID   string
	ReverseDistributorName string
	Source                 string
	Status                 string
	ExtractedItems         int
	UploadedAt             string
}

type wireDocument struct {
	ID                     string `json:"id"`
	FileName               string `json:"file_name"`
	FileSize               int64  `json:"file_size"`
	FileType               string `json:"file_type"`
	ReverseDistributorID   string `json:"reverse_distributor_id"`
	ReverseDistributorName string `json:"reverse_distributor_name"`
	Source                 string `json:"source"`
	Status                 string `json:"status"`
	ExtractedItems         int    `json:"extracted_items"`
	UploadedAt             string `json:"uploaded_at"`
}

// toDocument maps the wire shape to the client shape, filling the product
// defaults for omitted fields.
func (w wireDocument) toDocument() Document {
	return Document{
		ID:                     w.ID,
		FileName:               w.FileName,
		FileSize:               w.FileSize,
		FileType:               orDefault(w.FileType, "application/pdf"),
		ReverseDistributorID:   w.ReverseDistributorID,
		ReverseDistributorName: orDefault(w.ReverseDistributorName, "Unknown Distributor"),
		Source:                 orDefault(w.Source, "manual_upload"),
		Status:                 orDefault(w.Status, "completed"),
		ExtractedItems:         w.ExtractedItems,
		UploadedAt:             w.UploadedAt,
	}
}

// DocumentList is a page of documents plus the server-side total.
type DocumentList struct {
	Documents []Document
	Total     int
}

// DocumentListOptions filter the document list. Zero values are omitted.
type DocumentListOptions struct {
	Status string
	Source string
	Page   int
	Limit  int
}

func (o DocumentListOptions) values() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Source != "" {
		q.Set("source", o.Source)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// List returns the pharmacy's documents.
func (d *DocumentsClient) List(ctx context.Context, opts DocumentListOptions) (*DocumentList, error) {
	env, err := d.client.get(ctx, "/documents", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireDocument](env, "documents.list", "Failed to load documents")
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(wires))
	for _, w := range wires {
		docs = append(docs, w.toDocument())
	}
	return &DocumentList{Documents: docs, Total: env.Total}, nil
}

// Get returns a single document by id.
func (d *DocumentsClient) Get(ctx context.Context, id string) (*Document, error) {
	env, err := d.client.get(ctx, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireDocument](env, "documents.get", "Failed to load document")
	if err != nil {
		return nil, err
	}
	doc := w.toDocument()
	return &doc, nil
}

// RegisterUploadRequest registers a document the app uploaded to storage.
type RegisterUploadRequest struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size,omitempty"`
	FileType string `json:"file_type,omitempty"`
	Source   string `json:"source,omitempty"`
}

// RegisterUpload records an uploaded file server-side and returns the created
// document.
func (d *DocumentsClient) RegisterUpload(ctx context.Context, req RegisterUploadRequest) (*Document, error) {
	env, err := d.client.post(ctx, "/documents", req)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireDocument](env, "documents.registerUpload", "Failed to register document")
	if err != nil {
		return nil, err
	}
	doc := w.toDocument()
	return &doc, nil
}

// Delete removes a document by id.
func (d *DocumentsClient) Delete(ctx context.Context, id string) error {
	env, err := d.client.delete(ctx, "/documents/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return checkEnvelope(env, "documents.delete", "Failed to delete document")
}
