package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/mcp/tools/types"
)

type WorkflowService interface {
	ActiveWorkflow(ctx context.Context, doctype string) (erpnext.Document, bool, error)
	CreateWorkflow(ctx context.Context, wf erpnext.Workflow) (erpnext.Document, error)
	UpdateWorkflow(ctx context.Context, name string, fields erpnext.Document) (erpnext.Document, error)
}

type GetWorkflowHandler struct{ Service WorkflowService }

func (h *GetWorkflowHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := requiredString(req.GetArguments(), "doctype")
	if err != nil {
		return argumentError(err)
	}
	wf, ok, err := h.Service.ActiveWorkflow(ctx, doctype)
	if err != nil {
		return adapterError(err)
	}
	result := types.WorkflowLookup{DocType: doctype, Workflow: wf}
	if !ok {
		result.Workflow = nil
		result.Message = fmt.Sprintf("No active workflow found for %s", doctype)
	}
	return jsonResult(result), nil
}

type CreateWorkflowHandler struct{ Service WorkflowService }

func (h *CreateWorkflowHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	wf := erpnext.Workflow{IsActive: optionalBoolPtr(args, "is_active")}
	var err error
	if wf.Name, err = requiredString(args, "workflow_name"); err != nil {
		return argumentError(err)
	}
	if wf.DocumentType, err = requiredString(args, "document_type"); err != nil {
		return argumentError(err)
	}
	if err := decodeArgument(args, "states", &wf.States); err != nil {
		return argumentError(err)
	}
	if len(wf.States) == 0 {
		return argumentError(errors.New("states parameter is required"))
	}
	if err := decodeArgument(args, "transitions", &wf.Transitions); err != nil {
		return argumentError(err)
	}

	doc, err := h.Service.CreateWorkflow(ctx, wf)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}

type UpdateWorkflowHandler struct{ Service WorkflowService }

func (h *UpdateWorkflowHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, err := requiredString(args, "workflow_name")
	if err != nil {
		return argumentError(err)
	}
	data, err := requiredObject(args, "data")
	if err != nil {
		return argumentError(err)
	}
	doc, err := h.Service.UpdateWorkflow(ctx, name, data)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(doc), nil
}
