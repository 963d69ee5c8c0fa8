package erpnext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document is one ERPNext record as an open field-name to value mapping. Its
// shape is dictated by the remote DocType; nothing is validated locally.
type Document map[string]any

// Check is a Frappe "Check" value. The server sends 0/1 but some endpoints
// and callers use booleans or quoted digits.
type Check bool

func (c Check) MarshalJSON() ([]byte, error) {
	if c {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (c *Check) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "1", "true":
		*c = true
	case "0", "false", "", "null":
		*c = false
	default:
		return fmt.Errorf("invalid check value %s", data)
	}
	return nil
}

// FieldDefinition describes one field of a DocType. Idx defines display and
// processing order.
type FieldDefinition struct {
	Fieldname  string `json:"fieldname"`
	Fieldtype  string `json:"fieldtype"`
	Label      string `json:"label,omitempty"`
	Options    string `json:"options,omitempty"`
	Reqd       Check  `json:"reqd"`
	Idx        int    `json:"idx"`
	Hidden     Check  `json:"hidden"`
	ReadOnly   Check  `json:"read_only"`
	InListView Check  `json:"in_list_view"`
}

// ListOptions narrows a document listing. Zero values are left out of the
// request entirely.
type ListOptions struct {
	Fields  []string
	Filters map[string]any
	// Limit caps the number of rows; zero means no cap is sent.
	Limit int
}

// DocPerm is one permission row of a DocType definition.
type DocPerm struct {
	Role   string `json:"role"`
	Read   Check  `json:"read"`
	Write  Check  `json:"write"`
	Create Check  `json:"create"`
	Delete Check  `json:"delete"`
	Submit Check  `json:"submit,omitempty"`
	Cancel Check  `json:"cancel,omitempty"`
	Amend  Check  `json:"amend,omitempty"`
}

// DocTypeSpec is the input for creating a new DocType.
type DocTypeSpec struct {
	Name          string
	Module        string
	// Fields are DocField rows passed through as given.
	Fields        []Document
	IsSubmittable bool
	IsTable       bool
	Autoname      string
	TitleField    string
	// Permissions are DocPerm rows passed through as given. Empty means one
	// full-access System Manager row.
	Permissions []Document
}

// CustomFieldSpec adds a field to an existing DocType through the
// customization layer.
type CustomFieldSpec struct {
	DocType     string
	Fieldname   string
	Fieldtype   string
	Label       string
	Options     string
	Reqd        bool
	InsertAfter string
	Description string
	Default     string
}

// PropertySpec overrides one property of a DocType, or of one of its fields
// when Fieldname is set.
type PropertySpec struct {
	DocType   string
	Fieldname string
	Property  string
	Value     string
	// PropertyType is the Frappe fieldtype of the property, e.g. "Check" or
	// "Data". Optional.
	PropertyType string
}

// Workflow is a state machine bound to one DocType. States and Transitions
// are child rows sent as given, except that a transition's "allowed" may
// list several roles. IsActive nil means active.
type Workflow struct {
	Name         string
	DocumentType string
	IsActive     *bool
	States       []Document
	Transitions  []Document
}

func decodeInto(raw string, v any) error {
	if raw == "" {
		return fmt.Errorf("empty response payload")
	}
	return json.Unmarshal([]byte(raw), v)
}
