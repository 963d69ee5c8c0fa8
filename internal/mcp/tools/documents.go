package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/mcp/tools/types"
)

type DocumentService interface {
	GetDocument(ctx context.Context, doctype, name string) (erpnext.Document, error)
	ListDocuments(ctx context.Context, doctype string, opts erpnext.ListOptions) ([]erpnext.Document, error)
	CreateDocument(ctx context.Context, doctype string, fields erpnext.Document) (erpnext.Document, error)
	UpdateDocument(ctx context.Context, doctype, name string, fields erpnext.Document) (erpnext.Document, error)
	DeleteDocument(ctx context.Context, doctype, name string) (bool, error)
	SubmitDocument(ctx context.Context, doctype, name string) (any, error)
	CancelDocument(ctx context.Context, doctype, name string) (any, error)
}

// documentRef extracts the doctype and name arguments shared by the single
// document tools.
func documentRef(args map[string]any) (string, string, error) {
	doctype, err := requiredString(args, "doctype")
	if err != nil {
		return "", "", err
	}
	name, err := requiredString(args, "name")
	if err != nil {
		return "", "", err
	}
	return doctype, name, nil
}

type GetDocumentHandler struct{ Service DocumentService }

func (h *GetDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, name, err := documentRef(req.GetArguments())
	if err != nil {
		return argumentError(err)
	}
	doc, err := h.Service.GetDocument(ctx, doctype, name)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}

type GetDocumentsHandler struct{ Service DocumentService }

func (h *GetDocumentsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doctype, err := requiredString(args, "doctype")
	if err != nil {
		return argumentError(err)
	}
	var opts erpnext.ListOptions
	if err := decodeArgument(args, "fields", &opts.Fields); err != nil {
		return argumentError(err)
	}
	if opts.Filters, err = objectArgument(args, "filters"); err != nil {
		return argumentError(err)
	}
	if opts.Limit, err = parseIntArgument(args, "limit"); err != nil {
		return argumentError(err)
	}

	docs, err := h.Service.ListDocuments(ctx, doctype, opts)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(types.DocumentList{DocType: doctype, Documents: docs, Total: len(docs)}), nil
}

type CreateDocumentHandler struct{ Service DocumentService }

func (h *CreateDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doctype, err := requiredString(args, "doctype")
	if err != nil {
		return argumentError(err)
	}
	data, err := requiredObject(args, "data")
	if err != nil {
		return argumentError(err)
	}
	doc, err := h.Service.CreateDocument(ctx, doctype, data)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}

type UpdateDocumentHandler struct{ Service DocumentService }

func (h *UpdateDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doctype, name, err := documentRef(args)
	if err != nil {
		return argumentError(err)
	}
	data, err := requiredObject(args, "data")
	if err != nil {
		return argumentError(err)
	}
	doc, err := h.Service.UpdateDocument(ctx, doctype, name, data)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}

type DeleteDocumentHandler struct{ Service DocumentService }

func (h *DeleteDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, name, err := documentRef(req.GetArguments())
	if err != nil {
		return argumentError(err)
	}
	ok, err := h.Service.DeleteDocument(ctx, doctype, name)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(types.Deleted{DocType: doctype, Name: name, Deleted: ok}), nil
}

type SubmitDocumentHandler struct{ Service DocumentService }

func (h *SubmitDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, name, err := documentRef(req.GetArguments())
	if err != nil {
		return argumentError(err)
	}
	res, err := h.Service.SubmitDocument(ctx, doctype, name)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(res), nil
}

type CancelDocumentHandler struct{ Service DocumentService }

func (h *CancelDocumentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, name, err := documentRef(req.GetArguments())
	if err != nil {
		return argumentError(err)
	}
	res, err := h.Service.CancelDocument(ctx, doctype, name)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(res), nil
}
