package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"sigs.k8s.io/yaml"

	"github.com/roivaz/erpnext-mcp/internal/config"
	"github.com/roivaz/erpnext-mcp/internal/logging"
	"github.com/roivaz/erpnext-mcp/internal/mcp"
)

func main() {
	var (
		inlineArgs string
		argsFile   string
		output     string
	)

	root := &cobra.Command{
		Use:          "erpnext-call <tool>",
		Short:        "Invoke a single ERPNext tool and print its result",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := mcp.ToolDefinitions()[args[0]]; !ok {
				return fmt.Errorf("unknown tool %q, available: %s", args[0], strings.Join(toolNames(), ", "))
			}
			if output != "json" && output != "yaml" {
				return fmt.Errorf("--output must be json or yaml, got %q", output)
			}
			arguments, err := loadArguments(inlineArgs, argsFile)
			if err != nil {
				return err
			}

			logger := logging.New(logging.NewZap(config.Verbose())).WithName("erpnext-call")
			client, err := mcp.Connect(cmd.Context(), logger)
			if err != nil {
				return err
			}
			adapter := mcp.DefaultConfig(client).ToolAdapters[args[0]]

			req := mcpgo.CallToolRequest{}
			req.Params.Name = args[0]
			req.Params.Arguments = arguments
			result, err := adapter.ToolAdapter(cmd.Context(), req)
			if err != nil {
				return err
			}
			text := resultText(result)
			if result.IsError {
				return errors.New(text)
			}
			return render(os.Stdout, text, output)
		},
	}

	root.Flags().StringVar(&inlineArgs, "args", "", "Tool arguments as a JSON object")
	root.Flags().StringVar(&argsFile, "args-file", "", "File holding the tool arguments (.yaml/.yml, otherwise JSON with comments)")
	root.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")

	config.AddRemoteFlags(root)
	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("erpnext-call: %v", err)
	}
}

func toolNames() []string {
	defs := mcp.ToolDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadArguments reads the tool arguments from --args or --args-file. With
// neither the tool is called without arguments.
func loadArguments(inline, file string) (map[string]any, error) {
	if inline != "" && file != "" {
		return nil, errors.New("--args and --args-file are mutually exclusive")
	}

	var data []byte
	switch {
	case inline != "":
		data = []byte(inline)
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read arguments: %w", err)
		}
		data = raw
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			if data, err = yaml.YAMLToJSON(raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
		default:
			data = jsonc.ToJSON(raw)
		}
	default:
		return map[string]any{}, nil
	}

	arguments := map[string]any{}
	if err := json.Unmarshal(data, &arguments); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return arguments, nil
}

func resultText(result *mcpgo.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcpgo.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func render(w io.Writer, text, format string) error {
	if format == "yaml" {
		out, err := yaml.JSONToYAML([]byte(text))
		if err != nil {
			return fmt.Errorf("convert result to yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		_, err = fmt.Fprintln(w, text)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
