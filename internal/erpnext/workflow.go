package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

// ActiveWorkflow returns the active workflow of a DocType. The boolean is
// false when the DocType has none. Should the server report several active
// workflows, the first one it returned is used.
func (c *Client) ActiveWorkflow(ctx context.Context, doctype string) (Document, bool, error) {
	op := fmt.Sprintf("Failed to get workflow for %s", doctype)
	filters, err := encodeJSONParam(map[string]any{"document_type": doctype, "is_active": 1})
	if err != nil {
		return nil, false, newError(op, errnorm.Context{Err: err})
	}
	query := url.Values{}
	query.Set("filters", filters)
	query.Set("fields", `["*"]`)

	var rows []Document
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath("Workflow"), query, nil, "data", &rows); err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// CreateWorkflow creates a workflow. Whether transitions reference declared
// states is checked by the server, not here.
func (c *Client) CreateWorkflow(ctx context.Context, wf Workflow) (Document, error) {
	op := fmt.Sprintf("Failed to create workflow %s", wf.Name)
	active := true
	if wf.IsActive != nil {
		active = *wf.IsActive
	}

	states := wf.States
	if states == nil {
		states = []Document{}
	}
	body := Document{
		"doctype":       "Workflow",
		"workflow_name": wf.Name,
		"document_type": wf.DocumentType,
		"is_active":     Check(active),
		"states":        states,
		"transitions":   transitionRows(wf.Transitions),
	}

	var doc Document
	if err := c.fetch(ctx, op, http.MethodPost, resourcePath("Workflow"), nil, body, "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// transitionRows flattens transitions into Frappe's child rows, which carry
// a single allowed role each: one row per role. Every other key is kept.
func transitionRows(transitions []Document) []Document {
	rows := make([]Document, 0, len(transitions))
	for _, t := range transitions {
		roles := allowedRoles(t["allowed"])
		if len(roles) == 0 {
			rows = append(rows, t)
			continue
		}
		for _, role := range roles {
			row := make(Document, len(t))
			for k, v := range t {
				row[k] = v
			}
			row["allowed"] = role
			rows = append(rows, row)
		}
	}
	return rows
}

func allowedRoles(v any) []string {
	switch roles := v.(type) {
	case string:
		if roles != "" {
			return []string{roles}
		}
	case []string:
		return roles
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// UpdateWorkflow applies a partial update to a workflow.
func (c *Client) UpdateWorkflow(ctx context.Context, name string, fields Document) (Document, error) {
	var doc Document
	op := fmt.Sprintf("Failed to update workflow %s", name)
	if err := c.fetch(ctx, op, http.MethodPut, resourcePath("Workflow", name), nil, nonNil(fields), "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
