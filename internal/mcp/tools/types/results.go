package types

import "github.com/roivaz/erpnext-mcp/internal/erpnext"

type DocumentList struct {
	DocType   string             `json:"doctype"`
	Documents []erpnext.Document `json:"documents"`
	Total     int                `json:"total"`
}

type DocTypeList struct {
	DocTypes []string `json:"doctypes"`
	Total    int      `json:"total"`
}

type FieldList struct {
	DocType string                    `json:"doctype"`
	Fields  []erpnext.FieldDefinition `json:"fields"`
	Total   int                       `json:"total"`
}

// WorkflowLookup wraps the active workflow of a DocType. Workflow is null
// when the DocType has none.
type WorkflowLookup struct {
	DocType  string           `json:"doctype"`
	Workflow erpnext.Document `json:"workflow"`
	Message  string           `json:"message,omitempty"`
}

type Deleted struct {
	DocType string `json:"doctype"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}
