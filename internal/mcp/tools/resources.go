package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/mcp/tools/types"
)

const (
	resourceScheme      = "erpnext://"
	DocTypesResourceURI = resourceScheme + "DocTypes"
	DocumentURITemplate = resourceScheme + "{doctype}/{name}"
)

type ResourceService interface {
	DocTypes(ctx context.Context) ([]string, error)
	GetDocument(ctx context.Context, doctype, name string) (erpnext.Document, error)
}

// ResourceHandler serves read-only views of the remote site.
type ResourceHandler struct{ Service ResourceService }

func (h *ResourceHandler) DocTypesResource() mcp.Resource {
	return mcp.NewResource(
		DocTypesResourceURI,
		"ERPNext DocTypes",
		mcp.WithResourceDescription("Sorted list of every DocType on the ERPNext site"),
		mcp.WithMIMEType("application/json"),
	)
}

func (h *ResourceHandler) DocumentTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		DocumentURITemplate,
		"ERPNext document",
		mcp.WithTemplateDescription("A single ERPNext document addressed by DocType and name"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

func (h *ResourceHandler) HandleDocTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := h.Service.DocTypes(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, types.DocTypeList{DocTypes: names, Total: len(names)}), nil
}

func (h *ResourceHandler) HandleDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doctype, name, err := parseDocumentURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	doc, err := h.Service.GetDocument(ctx, doctype, name)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, doc), nil
}

// parseDocumentURI splits erpnext://<doctype>/<name>. Both segments may be
// percent-encoded; the name keeps any further slashes.
func parseDocumentURI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return "", "", fmt.Errorf("unsupported resource URI %q", uri)
	}
	rawType, rawName, ok := strings.Cut(rest, "/")
	if !ok || rawType == "" || rawName == "" {
		return "", "", fmt.Errorf("resource URI %q must have the form %s", uri, DocumentURITemplate)
	}
	doctype, err := url.PathUnescape(rawType)
	if err != nil {
		return "", "", fmt.Errorf("invalid doctype in %q: %w", uri, err)
	}
	name, err := url.PathUnescape(rawName)
	if err != nil {
		return "", "", fmt.Errorf("invalid name in %q: %w", uri, err)
	}
	return doctype, name, nil
}

func jsonContents(uri string, v any) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(mustMarshal(v)),
		},
	}
}
