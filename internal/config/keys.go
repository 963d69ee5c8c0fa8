package config

const (
	KeyERPNextURL       = "erpnext_url"
	KeyERPNextAPIKey    = "erpnext_api_key"
	KeyERPNextAPISecret = "erpnext_api_secret"
	KeyERPNextUsername  = "erpnext_username"
	KeyERPNextPassword  = "erpnext_password"
	KeyVerbose          = "verbose"
	KeyRequestTimeout   = "request_timeout"
	KeyMCPTransport     = "mcp_transport"
	KeyMCPHost          = "mcp_host"
	KeyMCPPort          = "mcp_port"
	KeyMCPEndpoint      = "mcp_endpoint"
	KeyEnvFile          = "env_file"
)
