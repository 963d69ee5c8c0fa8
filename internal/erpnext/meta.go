package erpnext

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

const systemManagerRole = "System Manager"

// fieldDefinitionColumns are the DocField columns requested for
// DocTypeFields; they match the FieldDefinition JSON tags.
var fieldDefinitionColumns = []string{
	"fieldname", "fieldtype", "label", "options", "reqd", "idx", "hidden", "read_only", "in_list_view",
}

// DocTypes returns the names of every DocType on the site, sorted.
func (c *Client) DocTypes(ctx context.Context) ([]string, error) {
	const op = "Failed to list DocTypes"
	query := url.Values{}
	query.Set("fields", `["name"]`)
	// 0 asks Frappe for every row instead of its default page.
	query.Set("limit_page_length", "0")

	var rows []struct {
		Name string `json:"name"`
	}
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath("DocType"), query, nil, "data", &rows); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	sort.Strings(names)
	return names, nil
}

// DocTypeFields returns the field definitions of a DocType in idx order. The
// order comes from the server's sort; it is not re-sorted here.
func (c *Client) DocTypeFields(ctx context.Context, doctype string) ([]FieldDefinition, error) {
	op := fmt.Sprintf("Failed to get fields for %s", doctype)
	columns, err := encodeJSONParam(fieldDefinitionColumns)
	if err != nil {
		return nil, newError(op, errnorm.Context{Err: err})
	}
	filters, err := encodeJSONParam([][]string{{"parent", "=", doctype}})
	if err != nil {
		return nil, newError(op, errnorm.Context{Err: err})
	}
	query := url.Values{}
	query.Set("parent", "DocType")
	query.Set("fields", columns)
	query.Set("filters", filters)
	query.Set("order_by", "idx asc")
	query.Set("limit_page_length", "0")

	var fields []FieldDefinition
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath("DocField"), query, nil, "data", &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []FieldDefinition{}
	}
	return fields, nil
}

// DocTypeMeta returns the full definition of a DocType. It asks the desk
// metadata endpoint first and falls back to the DocType record itself; when
// both fail the error of the first attempt is returned.
func (c *Client) DocTypeMeta(ctx context.Context, doctype string) (Document, error) {
	op := fmt.Sprintf("Failed to get metadata for %s", doctype)
	query := url.Values{}
	query.Set("doctype", doctype)

	raw, firstErr := c.do(ctx, op, http.MethodGet, methodPath("frappe.desk.form.load.getdoctype"), query, nil)
	if firstErr == nil {
		var meta Document
		first := gjson.GetBytes(raw, "docs.0")
		err := errors.New("docs[0] is not an object")
		if first.IsObject() {
			err = decodeInto(first.Raw, &meta)
		}
		if err == nil {
			return meta, nil
		}
		firstErr = newError(op, errnorm.Context{Err: fmt.Errorf("decode response docs: %w", err)})
	}

	c.log.Debug("metadata endpoint failed, falling back to DocType record", "doctype", doctype, "error", firstErr.Error())
	var meta Document
	if err := c.fetch(ctx, op, http.MethodGet, resourcePath("DocType", doctype), nil, nil, "data", &meta); err != nil {
		return nil, firstErr
	}
	return meta, nil
}

// CreateDocType creates a custom DocType. It is not submittable and not a
// child table unless spec says so, and without explicit permissions it grants
// full access to System Manager.
func (c *Client) CreateDocType(ctx context.Context, spec DocTypeSpec) (Document, error) {
	op := fmt.Sprintf("Failed to create DocType %s", spec.Name)

	fields := spec.Fields
	if fields == nil {
		fields = []Document{}
	}
	var perms any = spec.Permissions
	if len(spec.Permissions) == 0 {
		perms = []DocPerm{defaultPermission(spec.IsSubmittable)}
	}

	body := Document{
		"doctype":        "DocType",
		"name":           spec.Name,
		"module":         spec.Module,
		"custom":         Check(true),
		"is_submittable": Check(spec.IsSubmittable),
		"istable":        Check(spec.IsTable),
		"fields":         fields,
		"permissions":    perms,
	}
	if spec.Autoname != "" {
		body["autoname"] = spec.Autoname
	}
	if spec.TitleField != "" {
		body["title_field"] = spec.TitleField
	}

	var doc Document
	if err := c.fetch(ctx, op, http.MethodPost, resourcePath("DocType"), nil, body, "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func defaultPermission(submittable bool) DocPerm {
	return DocPerm{
		Role:   systemManagerRole,
		Read:   true,
		Write:  true,
		Create: true,
		Delete: true,
		Submit: Check(submittable),
		Cancel: Check(submittable),
		Amend:  Check(submittable),
	}
}
