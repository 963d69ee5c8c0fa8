package erpnext

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

// RunReport executes a query or script report. The result shape is defined
// by the report itself.
func (c *Client) RunReport(ctx context.Context, report string, filters map[string]any) (any, error) {
	op := fmt.Sprintf("Failed to run report %s", report)
	query := url.Values{}
	query.Set("report_name", report)
	if len(filters) > 0 {
		encoded, err := encodeJSONParam(filters)
		if err != nil {
			return nil, newError(op, errnorm.Context{Err: err})
		}
		query.Set("filters", encoded)
	}
	return c.fetchValue(ctx, op, http.MethodGet, methodPath("frappe.desk.query_report.run"), query, nil, "message")
}
