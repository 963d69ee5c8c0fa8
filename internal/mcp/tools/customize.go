package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
)

type CustomizationService interface {
	AddCustomField(ctx context.Context, spec erpnext.CustomFieldSpec) (erpnext.Document, error)
	SetProperty(ctx context.Context, spec erpnext.PropertySpec) (erpnext.Document, error)
}

type AddCustomFieldHandler struct{ Service CustomizationService }

func (h *AddCustomFieldHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	spec := erpnext.CustomFieldSpec{
		Options:     optionalString(args, "options"),
		Reqd:        optionalBool(args, "reqd"),
		InsertAfter: optionalString(args, "insert_after"),
		Description: optionalString(args, "description"),
		Default:     optionalString(args, "default"),
	}
	var err error
	required := []struct {
		key string
		dst *string
	}{
		{"doctype", &spec.DocType},
		{"fieldname", &spec.Fieldname},
		{"fieldtype", &spec.Fieldtype},
		{"label", &spec.Label},
	}
	for _, r := range required {
		if *r.dst, err = requiredString(args, r.key); err != nil {
			return argumentError(err)
		}
	}

	doc, err := h.Service.AddCustomField(ctx, spec)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}

type SetPropertyHandler struct{ Service CustomizationService }

func (h *SetPropertyHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	spec := erpnext.PropertySpec{
		Fieldname:    optionalString(args, "fieldname"),
		PropertyType: optionalString(args, "property_type"),
	}
	var err error
	if spec.DocType, err = requiredString(args, "doctype"); err != nil {
		return argumentError(err)
	}
	if spec.Property, err = requiredString(args, "property"); err != nil {
		return argumentError(err)
	}
	if spec.Value, err = scalarString(args, "value"); err != nil {
		return argumentError(err)
	}

	doc, err := h.Service.SetProperty(ctx, spec)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}
