package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/erpnext-mcp/internal/config"
	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/logging"
	"github.com/roivaz/erpnext-mcp/internal/mcp/tools"
)

// Remote is the adapter surface the tools are served from. *erpnext.Client
// implements it.
type Remote interface {
	tools.AuthService
	tools.DocumentService
	tools.MetadataService
	tools.CustomizationService
	tools.WorkflowService
	tools.ReportService
}

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Resources    *tools.ResourceHandler
	Options      []server.StreamableHTTPOption
}

// DefaultConfig serves every tool and resource from remote.
func DefaultConfig(remote Remote) Config {
	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"authenticate":       &tools.AuthenticateHandler{Service: remote},
			"get_document":       &tools.GetDocumentHandler{Service: remote},
			"get_documents":      &tools.GetDocumentsHandler{Service: remote},
			"create_document":    &tools.CreateDocumentHandler{Service: remote},
			"update_document":    &tools.UpdateDocumentHandler{Service: remote},
			"delete_document":    &tools.DeleteDocumentHandler{Service: remote},
			"submit_document":    &tools.SubmitDocumentHandler{Service: remote},
			"cancel_document":    &tools.CancelDocumentHandler{Service: remote},
			"get_doctypes":       &tools.GetDocTypesHandler{Service: remote},
			"get_doctype_fields": &tools.GetDocTypeFieldsHandler{Service: remote},
			"get_doctype_meta":   &tools.GetDocTypeMetaHandler{Service: remote},
			"create_doctype":     &tools.CreateDocTypeHandler{Service: remote},
			"add_custom_field":   &tools.AddCustomFieldHandler{Service: remote},
			"set_property":       &tools.SetPropertyHandler{Service: remote},
			"get_workflow":       &tools.GetWorkflowHandler{Service: remote},
			"create_workflow":    &tools.CreateWorkflowHandler{Service: remote},
			"update_workflow":    &tools.UpdateWorkflowHandler{Service: remote},
			"run_report":         &tools.RunReportHandler{Service: remote},
		},
		Resources: &tools.ResourceHandler{Service: remote},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(config.MCPEndpoint()),
			server.WithStateLess(true),
		},
	}
}

// Connect builds the adapter from the resolved configuration. Without an
// API key pair but with a username and password it logs in once.
func Connect(ctx context.Context, log logging.Logger) (*erpnext.Client, error) {
	remoteCfg, err := config.Remote(log)
	if err != nil {
		return nil, err
	}
	client, err := erpnext.NewClient(remoteCfg)
	if err != nil {
		return nil, err
	}
	if !config.HasLoginCredentials() {
		return client, nil
	}
	ok, err := client.Login(ctx, config.ERPNextUsername(), config.ERPNextPassword())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("login as %s was not confirmed by %s", config.ERPNextUsername(), client.BaseURL())
	}
	return client, nil
}
