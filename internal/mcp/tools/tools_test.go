package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
)

// fakeRemote records the last call and answers with canned values.
type fakeRemote struct {
	err error

	lastDocType string
	lastName    string
	lastFields  erpnext.Document
	lastList    erpnext.ListOptions
	lastDocSpec erpnext.DocTypeSpec
	lastField   erpnext.CustomFieldSpec
	lastProp    erpnext.PropertySpec
	lastFlow    erpnext.Workflow
	lastFilters map[string]any

	loginOK  bool
	workflow erpnext.Document
	docs     map[string]erpnext.Document
}

func (f *fakeRemote) Login(_ context.Context, username, _ string) (bool, error) {
	f.lastName = username
	return f.loginOK, f.err
}

func (f *fakeRemote) GetDocument(_ context.Context, doctype, name string) (erpnext.Document, error) {
	f.lastDocType, f.lastName = doctype, name
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[doctype+"/"+name], nil
}

func (f *fakeRemote) ListDocuments(_ context.Context, doctype string, opts erpnext.ListOptions) ([]erpnext.Document, error) {
	f.lastDocType, f.lastList = doctype, opts
	if f.err != nil {
		return nil, f.err
	}
	return []erpnext.Document{{"name": "CUST-0001"}, {"name": "CUST-0002"}}, nil
}

func (f *fakeRemote) CreateDocument(_ context.Context, doctype string, fields erpnext.Document) (erpnext.Document, error) {
	f.lastDocType, f.lastFields = doctype, fields
	if f.err != nil {
		return nil, f.err
	}
	doc := erpnext.Document{"name": "CUST-0001"}
	for k, v := range fields {
		doc[k] = v
	}
	return doc, nil
}

func (f *fakeRemote) UpdateDocument(_ context.Context, doctype, name string, fields erpnext.Document) (erpnext.Document, error) {
	f.lastDocType, f.lastName, f.lastFields = doctype, name, fields
	return fields, f.err
}

func (f *fakeRemote) DeleteDocument(_ context.Context, doctype, name string) (bool, error) {
	f.lastDocType, f.lastName = doctype, name
	return f.err == nil, f.err
}

func (f *fakeRemote) SubmitDocument(_ context.Context, doctype, name string) (any, error) {
	f.lastDocType, f.lastName = doctype, name
	return map[string]any{"docstatus": 1}, f.err
}

func (f *fakeRemote) CancelDocument(_ context.Context, doctype, name string) (any, error) {
	f.lastDocType, f.lastName = doctype, name
	return map[string]any{"docstatus": 2}, f.err
}

func (f *fakeRemote) DocTypes(context.Context) ([]string, error) {
	return []string{"Customer", "Item"}, f.err
}

func (f *fakeRemote) DocTypeFields(_ context.Context, doctype string) ([]erpnext.FieldDefinition, error) {
	f.lastDocType = doctype
	return []erpnext.FieldDefinition{{Fieldname: "customer_name", Fieldtype: "Data", Idx: 1}}, f.err
}

func (f *fakeRemote) DocTypeMeta(_ context.Context, doctype string) (erpnext.Document, error) {
	f.lastDocType = doctype
	return erpnext.Document{"name": doctype}, f.err
}

func (f *fakeRemote) CreateDocType(_ context.Context, spec erpnext.DocTypeSpec) (erpnext.Document, error) {
	f.lastDocSpec = spec
	return erpnext.Document{"name": spec.Name}, f.err
}

func (f *fakeRemote) AddCustomField(_ context.Context, spec erpnext.CustomFieldSpec) (erpnext.Document, error) {
	f.lastField = spec
	return erpnext.Document{"name": erpnext.CustomFieldName(spec.DocType, spec.Fieldname)}, f.err
}

func (f *fakeRemote) SetProperty(_ context.Context, spec erpnext.PropertySpec) (erpnext.Document, error) {
	f.lastProp = spec
	return erpnext.Document{"name": erpnext.PropertySetterName(spec.DocType, spec.Fieldname, spec.Property)}, f.err
}

func (f *fakeRemote) ActiveWorkflow(_ context.Context, doctype string) (erpnext.Document, bool, error) {
	f.lastDocType = doctype
	return f.workflow, f.workflow != nil, f.err
}

func (f *fakeRemote) CreateWorkflow(_ context.Context, wf erpnext.Workflow) (erpnext.Document, error) {
	f.lastFlow = wf
	return erpnext.Document{"name": wf.Name}, f.err
}

func (f *fakeRemote) UpdateWorkflow(_ context.Context, name string, fields erpnext.Document) (erpnext.Document, error) {
	f.lastName, f.lastFields = name, fields
	return fields, f.err
}

func (f *fakeRemote) RunReport(_ context.Context, report string, filters map[string]any) (any, error) {
	f.lastName, f.lastFilters = report, filters
	return map[string]any{"result": []any{}}, f.err
}

type toolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func call(t *testing.T, h toolAdapter, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := h.ToolAdapter(context.Background(), req)
	if err != nil {
		t.Fatalf("ToolAdapter returned error: %v", err)
	}
	if result == nil {
		t.Fatal("ToolAdapter returned nil result")
	}
	return result
}

func getResultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(getResultText(result)), &out); err != nil {
		t.Fatalf("result is not a JSON object: %v", err)
	}
	return out
}

func TestMissingRequiredArguments(t *testing.T) {
	remote := &fakeRemote{}
	tests := []struct {
		name    string
		handler toolAdapter
		args    map[string]any
		want    string
	}{
		{"authenticate", &AuthenticateHandler{Service: remote}, map[string]any{"username": "admin"}, "password parameter is required"},
		{"get_document", &GetDocumentHandler{Service: remote}, map[string]any{"doctype": "Customer"}, "name parameter is required"},
		{"get_documents", &GetDocumentsHandler{Service: remote}, map[string]any{}, "doctype parameter is required"},
		{"create_document", &CreateDocumentHandler{Service: remote}, map[string]any{"doctype": "Customer"}, "data parameter is required"},
		{"create_doctype", &CreateDocTypeHandler{Service: remote}, map[string]any{"name": "Widget", "module": "Custom"}, "fields parameter is required"},
		{"add_custom_field", &AddCustomFieldHandler{Service: remote}, map[string]any{"doctype": "Customer", "fieldname": "tier"}, "fieldtype parameter is required"},
		{"set_property", &SetPropertyHandler{Service: remote}, map[string]any{"doctype": "Customer", "property": "reqd"}, "value parameter is required"},
		{"create_workflow", &CreateWorkflowHandler{Service: remote}, map[string]any{"workflow_name": "W", "document_type": "Customer"}, "states parameter is required"},
		{"run_report", &RunReportHandler{Service: remote}, map[string]any{"filters": map[string]any{}}, "report_name parameter is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tt.handler, tt.args)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if got := getResultText(result); got != tt.want {
				t.Errorf("error text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdapterErrorForwardedVerbatim(t *testing.T) {
	msg := "Failed to submit Sales Invoice SINV-0001 (HTTP 417): Cannot change docstatus from 1 to 1"
	remote := &fakeRemote{err: errors.New(msg)}
	result := call(t, &SubmitDocumentHandler{Service: remote}, map[string]any{"doctype": "Sales Invoice", "name": "SINV-0001"})
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if got := getResultText(result); got != msg {
		t.Errorf("error text = %q, want %q", got, msg)
	}
}

func TestAuthenticate(t *testing.T) {
	remote := &fakeRemote{loginOK: true}
	out := decodeResult(t, call(t, &AuthenticateHandler{Service: remote}, map[string]any{"username": "admin", "password": "pw"}))
	if out["authenticated"] != true {
		t.Errorf("unexpected result %v", out)
	}

	remote.loginOK = false
	result := call(t, &AuthenticateHandler{Service: remote}, map[string]any{"username": "admin", "password": "pw"})
	if !result.IsError {
		t.Error("unconfirmed login should be an error result")
	}
}

func TestGetDocumentsArguments(t *testing.T) {
	remote := &fakeRemote{}
	out := decodeResult(t, call(t, &GetDocumentsHandler{Service: remote}, map[string]any{
		"doctype": "Customer",
		"fields":  []any{"name", "customer_name"},
		"filters": map[string]any{"customer_group": "Commercial"},
		"limit":   float64(20),
	}))
	if remote.lastDocType != "Customer" || remote.lastList.Limit != 20 {
		t.Errorf("unexpected call %q %+v", remote.lastDocType, remote.lastList)
	}
	if strings.Join(remote.lastList.Fields, ",") != "name,customer_name" {
		t.Errorf("fields = %v", remote.lastList.Fields)
	}
	if remote.lastList.Filters["customer_group"] != "Commercial" {
		t.Errorf("filters = %v", remote.lastList.Filters)
	}
	if out["total"] != float64(2) || out["doctype"] != "Customer" {
		t.Errorf("unexpected envelope %v", out)
	}

	result := call(t, &GetDocumentsHandler{Service: remote}, map[string]any{"doctype": "Customer", "limit": float64(-1)})
	if !result.IsError {
		t.Error("negative limit should be rejected")
	}
	result = call(t, &GetDocumentsHandler{Service: remote}, map[string]any{"doctype": "Customer", "filters": "customer_group=Commercial"})
	if !result.IsError {
		t.Error("non-object filters should be rejected")
	}
}

func TestCreateDocument(t *testing.T) {
	remote := &fakeRemote{}
	out := decodeResult(t, call(t, &CreateDocumentHandler{Service: remote}, map[string]any{
		"doctype": "Customer",
		"data":    map[string]any{"customer_name": "ACME"},
	}))
	if out["name"] != "CUST-0001" || out["customer_name"] != "ACME" {
		t.Errorf("unexpected result %v", out)
	}
}

func TestDeleteDocument(t *testing.T) {
	remote := &fakeRemote{}
	out := decodeResult(t, call(t, &DeleteDocumentHandler{Service: remote}, map[string]any{"doctype": "Item", "name": "ITEM-1"}))
	if out["deleted"] != true || remote.lastName != "ITEM-1" {
		t.Errorf("unexpected result %v", out)
	}
}

func TestCreateDocTypeArguments(t *testing.T) {
	remote := &fakeRemote{}
	decodeResult(t, call(t, &CreateDocTypeHandler{Service: remote}, map[string]any{
		"name":           "Widget",
		"module":         "Custom",
		"is_submittable": true,
		"fields": []any{
			map[string]any{"fieldname": "title", "fieldtype": "Data", "label": "Title", "reqd": true},
			map[string]any{"fieldname": "qty", "fieldtype": "Int", "reqd": float64(0)},
		},
	}))
	spec := remote.lastDocSpec
	if spec.Name != "Widget" || !spec.IsSubmittable || spec.IsTable {
		t.Errorf("unexpected spec %+v", spec)
	}
	if len(spec.Fields) != 2 || spec.Fields[0]["reqd"] != true || spec.Fields[1]["fieldname"] != "qty" {
		t.Errorf("unexpected fields %+v", spec.Fields)
	}
	if spec.Permissions != nil {
		t.Errorf("permissions should be left to the adapter default, got %+v", spec.Permissions)
	}
}

func TestCreateDocTypeKeepsUndeclaredKeys(t *testing.T) {
	remote := &fakeRemote{}
	decodeResult(t, call(t, &CreateDocTypeHandler{Service: remote}, map[string]any{
		"name":   "Price List Entry",
		"module": "Custom",
		"fields": []any{
			map[string]any{"fieldname": "price", "fieldtype": "Currency", "label": "Price", "default": "10", "description": "Unit price", "unique": float64(1)},
		},
		"permissions": []any{
			map[string]any{"role": "Sales User", "read": float64(1), "report": float64(1), "export": float64(1), "print": float64(1)},
		},
	}))
	field := remote.lastDocSpec.Fields[0]
	if field["default"] != "10" || field["description"] != "Unit price" || field["unique"] != float64(1) {
		t.Errorf("field keys dropped: %v", field)
	}
	if len(remote.lastDocSpec.Permissions) != 1 {
		t.Fatalf("permissions = %v", remote.lastDocSpec.Permissions)
	}
	perm := remote.lastDocSpec.Permissions[0]
	if perm["report"] != float64(1) || perm["export"] != float64(1) || perm["print"] != float64(1) {
		t.Errorf("permission keys dropped: %v", perm)
	}
}

func TestSetPropertyValueForms(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"Customer Name", "Customer Name"},
		{true, "1"},
		{float64(0), "0"},
		{float64(12.5), "12.5"},
	}
	for _, tt := range tests {
		remote := &fakeRemote{}
		out := decodeResult(t, call(t, &SetPropertyHandler{Service: remote}, map[string]any{
			"doctype": "Customer", "fieldname": "customer_name", "property": "reqd", "value": tt.value,
		}))
		if remote.lastProp.Value != tt.want {
			t.Errorf("value %v sent as %q, want %q", tt.value, remote.lastProp.Value, tt.want)
		}
		if out["name"] != "Customer-customer_name-reqd" {
			t.Errorf("unexpected result %v", out)
		}
	}
}

func TestGetWorkflowAbsent(t *testing.T) {
	remote := &fakeRemote{}
	out := decodeResult(t, call(t, &GetWorkflowHandler{Service: remote}, map[string]any{"doctype": "Customer"}))
	wf, present := out["workflow"]
	if !present || wf != nil {
		t.Errorf("expected explicit null workflow, got %v", out)
	}
	if out["message"] == "" {
		t.Error("expected a message for the absent workflow")
	}

	remote.workflow = erpnext.Document{"name": "Customer Approval"}
	out = decodeResult(t, call(t, &GetWorkflowHandler{Service: remote}, map[string]any{"doctype": "Customer"}))
	if got := out["workflow"].(map[string]any)["name"]; got != "Customer Approval" {
		t.Errorf("workflow name = %v", got)
	}
}

func TestCreateWorkflowArguments(t *testing.T) {
	remote := &fakeRemote{}
	decodeResult(t, call(t, &CreateWorkflowHandler{Service: remote}, map[string]any{
		"workflow_name": "Leave Approval",
		"document_type": "Leave Application",
		"is_active":     false,
		"states": []any{
			map[string]any{"state": "Open", "doc_status": float64(0)},
			map[string]any{"state": "Approved", "doc_status": "1", "allow_edit": "HR Manager", "update_field": "status", "update_value": "Approved"},
		},
		"transitions": []any{
			map[string]any{"state": "Open", "action": "Approve", "next_state": "Approved", "allowed": []any{"HR Manager"}, "condition": "doc.total_leave_days < 5"},
		},
	}))
	wf := remote.lastFlow
	if wf.IsActive == nil || *wf.IsActive {
		t.Errorf("IsActive = %v, want explicit false", wf.IsActive)
	}
	if len(wf.States) != 2 || wf.States[0]["doc_status"] != float64(0) || wf.States[1]["update_field"] != "status" || wf.States[1]["update_value"] != "Approved" {
		t.Errorf("unexpected states %+v", wf.States)
	}
	if len(wf.Transitions) != 1 || wf.Transitions[0]["condition"] != "doc.total_leave_days < 5" {
		t.Errorf("unexpected transitions %+v", wf.Transitions)
	}

	decodeResult(t, call(t, &CreateWorkflowHandler{Service: remote}, map[string]any{
		"workflow_name": "W", "document_type": "Customer",
		"states": []any{map[string]any{"state": "Open", "doc_status": "0"}},
	}))
	if remote.lastFlow.IsActive != nil {
		t.Error("absent is_active should be left to the adapter default")
	}

	decodeResult(t, call(t, &CreateWorkflowHandler{Service: remote}, map[string]any{
		"workflow_name": "W", "document_type": "Customer", "is_active": nil,
		"states": []any{map[string]any{"state": "Open", "doc_status": "0"}},
	}))
	if remote.lastFlow.IsActive != nil {
		t.Errorf("null is_active should be left to the adapter default, got %v", *remote.lastFlow.IsActive)
	}
}

func TestRunReport(t *testing.T) {
	remote := &fakeRemote{}
	decodeResult(t, call(t, &RunReportHandler{Service: remote}, map[string]any{
		"report_name": "General Ledger",
		"filters":     map[string]any{"company": "ACME"},
	}))
	if remote.lastName != "General Ledger" || remote.lastFilters["company"] != "ACME" {
		t.Errorf("unexpected call %q %v", remote.lastName, remote.lastFilters)
	}
}

func TestDocumentResource(t *testing.T) {
	remote := &fakeRemote{docs: map[string]erpnext.Document{
		"Sales Invoice/SINV/0001": {"name": "SINV/0001", "grand_total": float64(100)},
	}}
	h := &ResourceHandler{Service: remote}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "erpnext://Sales%20Invoice/SINV/0001"
	contents, err := h.HandleDocument(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleDocument: %v", err)
	}
	if remote.lastDocType != "Sales Invoice" || remote.lastName != "SINV/0001" {
		t.Errorf("resolved %q/%q", remote.lastDocType, remote.lastName)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"grand_total":100`) {
		t.Errorf("unexpected contents %s", text)
	}

	req.Params.URI = "erpnext://Customer"
	if _, err := h.HandleDocument(context.Background(), req); err == nil {
		t.Error("expected error for URI without name")
	}
}

func TestDocTypesResource(t *testing.T) {
	h := &ResourceHandler{Service: &fakeRemote{}}
	req := mcp.ReadResourceRequest{}
	req.Params.URI = DocTypesResourceURI
	contents, err := h.HandleDocTypes(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleDocTypes: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"doctypes":["Customer","Item"]`) {
		t.Errorf("unexpected contents %s", text)
	}
}
