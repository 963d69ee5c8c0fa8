package erpnext

import (
	"context"
	"fmt"
	"net/http"
)

// CustomFieldName is the document name given to a Custom Field. Adding the
// same field name to the same DocType twice yields the same name, so the
// second attempt collides on the server instead of creating a duplicate.
func CustomFieldName(doctype, fieldname string) string {
	return doctype + "-" + fieldname
}

// PropertySetterName is the document name given to a Property Setter. DocType
// level overrides use "main" in place of the field name.
func PropertySetterName(doctype, fieldname, property string) string {
	if fieldname == "" {
		fieldname = "main"
	}
	return doctype + "-" + fieldname + "-" + property
}

// AddCustomField attaches a field to an existing DocType through the
// customization layer so it survives regeneration of the base definition.
func (c *Client) AddCustomField(ctx context.Context, spec CustomFieldSpec) (Document, error) {
	op := fmt.Sprintf("Failed to add custom field %s to %s", spec.Fieldname, spec.DocType)
	body := Document{
		"doctype":   "Custom Field",
		"name":      CustomFieldName(spec.DocType, spec.Fieldname),
		"dt":        spec.DocType,
		"fieldname": spec.Fieldname,
		"fieldtype": spec.Fieldtype,
		"label":     spec.Label,
		"reqd":      Check(spec.Reqd),
	}
	optional := map[string]string{
		"options":      spec.Options,
		"insert_after": spec.InsertAfter,
		"description":  spec.Description,
		"default":      spec.Default,
	}
	for key, value := range optional {
		if value != "" {
			body[key] = value
		}
	}

	var doc Document
	if err := c.fetch(ctx, op, http.MethodPost, resourcePath("Custom Field"), nil, body, "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetProperty creates a Property Setter overriding one property of a DocType,
// or of one of its fields when spec.Fieldname is set.
func (c *Client) SetProperty(ctx context.Context, spec PropertySpec) (Document, error) {
	op := fmt.Sprintf("Failed to set property %s on %s", spec.Property, spec.DocType)
	body := Document{
		"doctype":          "Property Setter",
		"name":             PropertySetterName(spec.DocType, spec.Fieldname, spec.Property),
		"doctype_or_field": "DocType",
		"doc_type":         spec.DocType,
		"property":         spec.Property,
		"value":            spec.Value,
	}
	if spec.Fieldname != "" {
		body["doctype_or_field"] = "DocField"
		body["field_name"] = spec.Fieldname
	}
	if spec.PropertyType != "" {
		body["property_type"] = spec.PropertyType
	}

	var doc Document
	if err := c.fetch(ctx, op, http.MethodPost, resourcePath("Property Setter"), nil, body, "data", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
