package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "erpnext-mcp"
	serverVersion = "1.0.0"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	)

	toolDefinitions := ToolDefinitions()
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := toolDefinitions[name]
		if !ok {
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	if cfg.Resources != nil {
		mcpServer.AddResource(cfg.Resources.DocTypesResource(), cfg.Resources.HandleDocTypes)
		mcpServer.AddResourceTemplate(cfg.Resources.DocumentTemplate(), cfg.Resources.HandleDocument)
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
	}
}

// ToolDefinitions returns the schema of every tool the server can expose,
// keyed by tool name.
func ToolDefinitions() map[string]mcp.Tool {
	doctypeArg := mcp.WithString("doctype",
		mcp.Required(),
		mcp.Description("DocType name (e.g., 'Customer', 'Sales Invoice')"),
	)
	nameArg := mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Document name (e.g., 'CUST-00001')"),
	)

	return map[string]mcp.Tool{
		"authenticate": mcp.NewTool("authenticate",
			mcp.WithDescription("Log in to ERPNext with a username and password. Only needed when no API key pair is configured."),
			mcp.WithString("username", mcp.Required(), mcp.Description("ERPNext user (e.g., 'administrator' or an email address)")),
			mcp.WithString("password", mcp.Required(), mcp.Description("Password of the user")),
		),
		"get_document": mcp.NewTool("get_document",
			mcp.WithDescription("Retrieve a single ERPNext document by DocType and name."),
			doctypeArg,
			nameArg,
		),
		"get_documents": mcp.NewTool("get_documents",
			mcp.WithDescription("List documents of a DocType, optionally restricted to some fields and filtered."),
			doctypeArg,
			mcp.WithArray("fields",
				mcp.Description("Optional: field names to return (e.g., ['name', 'customer_name'])"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithObject("filters",
				mcp.Description("Optional: field to value filters (e.g., {'customer_group': 'Commercial'})"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Optional: maximum number of documents to return (default: server page size)"),
			),
		),
		"create_document": mcp.NewTool("create_document",
			mcp.WithDescription("Create a new ERPNext document. Returns the stored document including its assigned name."),
			doctypeArg,
			mcp.WithObject("data", mcp.Required(), mcp.Description("Field values of the new document")),
		),
		"update_document": mcp.NewTool("update_document",
			mcp.WithDescription("Update fields of an existing document. Fields not given are left unchanged."),
			doctypeArg,
			nameArg,
			mcp.WithObject("data", mcp.Required(), mcp.Description("Field values to change")),
		),
		"delete_document": mcp.NewTool("delete_document",
			mcp.WithDescription("Delete an ERPNext document."),
			doctypeArg,
			nameArg,
		),
		"submit_document": mcp.NewTool("submit_document",
			mcp.WithDescription("Submit a draft document of a submittable DocType."),
			doctypeArg,
			nameArg,
		),
		"cancel_document": mcp.NewTool("cancel_document",
			mcp.WithDescription("Cancel a submitted document."),
			doctypeArg,
			nameArg,
		),
		"get_doctypes": mcp.NewTool("get_doctypes",
			mcp.WithDescription("List the names of every DocType on the site, sorted alphabetically."),
		),
		"get_doctype_fields": mcp.NewTool("get_doctype_fields",
			mcp.WithDescription("List the field definitions of a DocType in display order."),
			doctypeArg,
		),
		"get_doctype_meta": mcp.NewTool("get_doctype_meta",
			mcp.WithDescription("Retrieve the full metadata of a DocType, including fields and permissions."),
			doctypeArg,
		),
		"create_doctype": mcp.NewTool("create_doctype",
			mcp.WithDescription("Create a new custom DocType. Without explicit permissions System Manager gets full access."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new DocType")),
			mcp.WithString("module", mcp.Required(), mcp.Description("Module the DocType belongs to (e.g., 'Custom')")),
			mcp.WithArray("fields",
				mcp.Required(),
				mcp.Description("Field definitions: objects with fieldname, fieldtype, label and optional options, reqd, in_list_view"),
				mcp.Items(map[string]any{"type": "object"}),
			),
			mcp.WithBoolean("is_submittable", mcp.Description("Optional: documents go through draft, submitted and cancelled (default: false)")),
			mcp.WithBoolean("istable", mcp.Description("Optional: the DocType is a child table (default: false)")),
			mcp.WithString("autoname", mcp.Description("Optional: naming rule (e.g., 'hash', 'field:title', 'WID-.#####')")),
			mcp.WithString("title_field", mcp.Description("Optional: field used as the document title")),
			mcp.WithArray("permissions",
				mcp.Description("Optional: permission rows with role, read, write, create, delete, submit, cancel, amend"),
				mcp.Items(map[string]any{"type": "object"}),
			),
		),
		"add_custom_field": mcp.NewTool("add_custom_field",
			mcp.WithDescription("Add a custom field to an existing DocType without changing its base definition."),
			doctypeArg,
			mcp.WithString("fieldname", mcp.Required(), mcp.Description("Field name (e.g., 'loyalty_tier')")),
			mcp.WithString("fieldtype", mcp.Required(), mcp.Description("Field type (e.g., 'Data', 'Select', 'Link', 'Check')")),
			mcp.WithString("label", mcp.Required(), mcp.Description("Label shown in forms")),
			mcp.WithString("options", mcp.Description("Optional: options, e.g. the linked DocType or newline separated choices")),
			mcp.WithBoolean("reqd", mcp.Description("Optional: the field is mandatory (default: false)")),
			mcp.WithString("insert_after", mcp.Description("Optional: field name after which the field is placed")),
			mcp.WithString("description", mcp.Description("Optional: help text")),
			mcp.WithString("default", mcp.Description("Optional: default value")),
		),
		"set_property": mcp.NewTool("set_property",
			mcp.WithDescription("Override a property of a DocType, or of one of its fields, through a Property Setter."),
			doctypeArg,
			mcp.WithString("property", mcp.Required(), mcp.Description("Property name (e.g., 'reqd', 'hidden', 'label')")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value of the property")),
			mcp.WithString("fieldname", mcp.Description("Optional: field to override; omit to override the DocType itself")),
			mcp.WithString("property_type", mcp.Description("Optional: type of the property value (e.g., 'Check', 'Data')")),
		),
		"get_workflow": mcp.NewTool("get_workflow",
			mcp.WithDescription("Retrieve the active workflow of a DocType, or null when there is none."),
			doctypeArg,
		),
		"create_workflow": mcp.NewTool("create_workflow",
			mcp.WithDescription("Create a workflow for a DocType from its states and transitions."),
			mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Name of the workflow")),
			mcp.WithString("document_type", mcp.Required(), mcp.Description("DocType the workflow applies to")),
			mcp.WithArray("states",
				mcp.Required(),
				mcp.Description("States: objects with state, doc_status ('0', '1' or '2'), optional allow_edit role and any other Workflow Document State keys"),
				mcp.Items(map[string]any{"type": "object"}),
			),
			mcp.WithArray("transitions",
				mcp.Description("Transitions: objects with state, action, next_state, allowed roles and any other Workflow Transition keys (e.g., condition)"),
				mcp.Items(map[string]any{"type": "object"}),
			),
			mcp.WithBoolean("is_active", mcp.Description("Optional: activate the workflow (default: true)")),
		),
		"update_workflow": mcp.NewTool("update_workflow",
			mcp.WithDescription("Update fields of an existing workflow."),
			mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Name of the workflow")),
			mcp.WithObject("data", mcp.Required(), mcp.Description("Workflow fields to change")),
		),
		"run_report": mcp.NewTool("run_report",
			mcp.WithDescription("Run an ERPNext query or script report and return its result."),
			mcp.WithString("report_name", mcp.Required(), mcp.Description("Report name (e.g., 'General Ledger')")),
			mcp.WithObject("filters", mcp.Description("Optional: report filters (e.g., {'company': 'ACME'})")),
		),
	}
}
