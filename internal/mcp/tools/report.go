package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type ReportService interface {
	RunReport(ctx context.Context, report string, filters map[string]any) (any, error)
}

type RunReportHandler struct{ Service ReportService }

func (h *RunReportHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	report, err := requiredString(args, "report_name")
	if err != nil {
		return argumentError(err)
	}
	filters, err := objectArgument(args, "filters")
	if err != nil {
		return argumentError(err)
	}
	res, err := h.Service.RunReport(ctx, report, filters)
	if err != nil {
		return adapterError(err)
	}
	return jsonResult(res), nil
}
