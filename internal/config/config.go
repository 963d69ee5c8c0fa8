package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/logging"
)

const defaultRequestTimeout = 30 * time.Second

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"erpnext-url":     KeyERPNextURL,
	"api-key":         KeyERPNextAPIKey,
	"api-secret":      KeyERPNextAPISecret,
	"username":        KeyERPNextUsername,
	"password":        KeyERPNextPassword,
	"verbose":         KeyVerbose,
	"request-timeout": KeyRequestTimeout,
	"transport":       KeyMCPTransport,
	"host":            KeyMCPHost,
	"port":            KeyMCPPort,
	"endpoint":        KeyMCPEndpoint,
}

// AddRemoteFlags declares the flags shared by every command that talks to
// the ERPNext server. Call it before Init so the flags get bound.
func AddRemoteFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("erpnext-url", "", "ERPNext base URL (overrides ERPNEXT_URL)")
	flags.String("api-key", "", "ERPNext API key (overrides ERPNEXT_API_KEY)")
	flags.String("api-secret", "", "ERPNext API secret (overrides ERPNEXT_API_SECRET)")
	flags.String("username", "", "Login user when no API key pair is configured")
	flags.String("password", "", "Login password when no API key pair is configured")
	flags.Bool("verbose", false, "Log every ERPNext request and response")
	flags.String("request-timeout", "", "Timeout for each ERPNext request (default 30s)")
}

// AddServerFlags declares the MCP serving flags.
func AddServerFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("transport", "stdio", "MCP transport: stdio or http")
	flags.String("host", "0.0.0.0", "HTTP host")
	flags.Int("port", 8000, "HTTP port")
	flags.String("endpoint", "/mcp", "HTTP endpoint path of the MCP handler")
}

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	envFile := os.Getenv(strings.ToUpper(KeyEnvFile))
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	if root != nil {
		flags := root.PersistentFlags()
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = viper.BindPFlag(key, f)
			}
		}
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyVerbose, false)
	viper.SetDefault(KeyRequestTimeout, defaultRequestTimeout.String())
	viper.SetDefault(KeyMCPTransport, "stdio")
	viper.SetDefault(KeyMCPHost, "0.0.0.0")
	viper.SetDefault(KeyMCPPort, 8000)
	viper.SetDefault(KeyMCPEndpoint, "/mcp")
}

func ERPNextURL() string       { return viper.GetString(KeyERPNextURL) }
func ERPNextAPIKey() string    { return viper.GetString(KeyERPNextAPIKey) }
func ERPNextAPISecret() string { return viper.GetString(KeyERPNextAPISecret) }
func ERPNextUsername() string  { return viper.GetString(KeyERPNextUsername) }
func ERPNextPassword() string  { return viper.GetString(KeyERPNextPassword) }
func Verbose() bool            { return viper.GetBool(KeyVerbose) }
func MCPTransport() string     { return strings.ToLower(viper.GetString(KeyMCPTransport)) }
func MCPHost() string          { return viper.GetString(KeyMCPHost) }
func MCPPort() int             { return viper.GetInt(KeyMCPPort) }
func MCPEndpoint() string      { return viper.GetString(KeyMCPEndpoint) }

// RequestTimeout returns the per-request ceiling for ERPNext calls.
func RequestTimeout() (time.Duration, error) {
	d, err := parseDuration(viper.GetString(KeyRequestTimeout), defaultRequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", KeyRequestTimeout, err)
	}
	return d, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// Remote assembles the adapter configuration from the resolved settings.
func Remote(log logging.Logger) (erpnext.Config, error) {
	timeout, err := RequestTimeout()
	if err != nil {
		return erpnext.Config{}, err
	}
	return erpnext.Config{
		BaseURL:   ERPNextURL(),
		APIKey:    ERPNextAPIKey(),
		APISecret: ERPNextAPISecret(),
		Timeout:   timeout,
		Logger:    log,
	}, nil
}

// HasLoginCredentials reports whether a session login should be attempted:
// a username and password are set and no API key pair is.
func HasLoginCredentials() bool {
	if ERPNextAPIKey() != "" && ERPNextAPISecret() != "" {
		return false
	}
	return ERPNextUsername() != "" && ERPNextPassword() != ""
}
