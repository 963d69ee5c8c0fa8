package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/mcp/tools/types"
)

type MetadataService interface {
	DocTypes(ctx context.Context) ([]string, error)
	DocTypeFields(ctx context.Context, doctype string) ([]erpnext.FieldDefinition, error)
	DocTypeMeta(ctx context.Context, doctype string) (erpnext.Document, error)
	CreateDocType(ctx context.Context, spec erpnext.DocTypeSpec) (erpnext.Document, error)
}

type GetDocTypesHandler struct{ Service MetadataService }

func (h *GetDocTypesHandler) ToolAdapter(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.Service.DocTypes(ctx)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(types.DocTypeList{DocTypes: names, Total: len(names)}), nil
}

type GetDocTypeFieldsHandler struct{ Service MetadataService }

func (h *GetDocTypeFieldsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := requiredString(req.GetArguments(), "doctype")
	if err != nil {
		return argumentError(err)
	}
	fields, err := h.Service.DocTypeFields(ctx, doctype)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(types.FieldList{DocType: doctype, Fields: fields, Total: len(fields)}), nil
}

type GetDocTypeMetaHandler struct{ Service MetadataService }

func (h *GetDocTypeMetaHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := requiredString(req.GetArguments(), "doctype")
	if err != nil {
		return argumentError(err)
	}
	meta, err := h.Service.DocTypeMeta(ctx, doctype)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(meta), nil
}

type CreateDocTypeHandler struct{ Service MetadataService }

func (h *CreateDocTypeHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	spec := erpnext.DocTypeSpec{
		IsSubmittable: optionalBool(args, "is_submittable"),
		IsTable:       optionalBool(args, "istable"),
		Autoname:      optionalString(args, "autoname"),
		TitleField:    optionalString(args, "title_field"),
	}
	var err error
	if spec.Name, err = requiredString(args, "name"); err != nil {
		return argumentError(err)
	}
	if spec.Module, err = requiredString(args, "module"); err != nil {
		return argumentError(err)
	}
	if err := decodeArgument(args, "fields", &spec.Fields); err != nil {
		return argumentError(err)
	}
	if len(spec.Fields) == 0 {
		return argumentError(errors.New("fields parameter is required"))
	}
	if err := decodeArgument(args, "permissions", &spec.Permissions); err != nil {
		return argumentError(err)
	}

	doc, err := h.Service.CreateDocType(ctx, spec)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}
