package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

// GetDocument fetches one document by DocType and name.
func (c *Client) GetDocument(ctx context.Context, doctype, name string) (Document, error) {
	var doc Document
	op := fmt.Sprintf("Failed to get %s %s", doctype, name)
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath(doctype, name), nil, nil, "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments lists documents of a DocType. Fields and filters are sent
// only when non-empty, and no limit is sent unless opts.Limit is positive,
// leaving the page size to the server.
func (c *Client) ListDocuments(ctx context.Context, doctype string, opts ListOptions) ([]Document, error) {
	op := fmt.Sprintf("Failed to list %s documents", doctype)
	query, err := listQuery(opts)
	if err != nil {
		return nil, newError(op, errnorm.Context{Err: err})
	}

	var docs []Document
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath(doctype), query, nil, "data", &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func listQuery(opts ListOptions) (url.Values, error) {
	query := url.Values{}
	if len(opts.Fields) > 0 {
		fields, err := encodeJSONParam(opts.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode fields: %w", err)
		}
		query.Set("fields", fields)
	}
	if len(opts.Filters) > 0 {
		filters, err := encodeJSONParam(opts.Filters)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		query.Set("filters", filters)
	}
	if opts.Limit > 0 {
		query.Set("limit_page_length", strconv.Itoa(opts.Limit))
	}
	return query, nil
}

// CreateDocument inserts a new document and returns it as stored, including
// the name the server assigned.
func (c *Client) CreateDocument(ctx context.Context, doctype string, fields Document) (Document, error) {
	var doc Document
	op := fmt.Sprintf("Failed to create %s", doctype)
	if err := c.fetch(ctx, op, http.MethodPost, resourcePath(doctype), nil, nonNil(fields), "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument applies a partial update. Fields not present in fields are
// left untouched by the server.
func (c *Client) UpdateDocument(ctx context.Context, doctype, name string, fields Document) (Document, error) {
	var doc Document
	op := fmt.Sprintf("Failed to update %s %s", doctype, name)
	if err := c.fetch(ctx, op, http.MethodPut, resourcePath(doctype, name), nil, nonNil(fields), "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument deletes a document. The server is authoritative; there is
// no soft delete.
func (c *Client) DeleteDocument(ctx context.Context, doctype, name string) (bool, error) {
	op := fmt.Sprintf("Failed to delete %s %s", doctype, name)
	if _, err := c.do(ctx, op, http.MethodDelete, resourcePath(doctype, name), nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitDocument moves a draft document to submitted. Whether the
// transition is legal is decided by the server.
func (c *Client) SubmitDocument(ctx context.Context, doctype, name string) (any, error) {
	op := fmt.Sprintf("Failed to submit %s %s", doctype, name)
	body := map[string]any{"doc": map[string]string{"doctype": doctype, "name": name}}
	return c.fetchValue(ctx, op, http.MethodPost, methodPath("frappe.client.submit"), nil, body, "message")
}

// CancelDocument cancels a submitted document.
func (c *Client) CancelDocument(ctx context.Context, doctype, name string) (any, error) {
	op := fmt.Sprintf("Failed to cancel %s %s", doctype, name)
	body := map[string]string{"doctype": doctype, "name": name}
	return c.fetchValue(ctx, op, http.MethodPost, methodPath("frappe.client.cancel"), nil, body, "message")
}

func nonNil(doc Document) Document {
	if doc == nil {
		return Document{}
	}
	return doc
}
