package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputTable, "Output format: table, json or yaml")
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(cmd *cobra.Command, v any, table func()) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("getting output flag: %w", err)
	}

	switch format {
	case outputTable, "":
		table()
		return nil
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		cmd.Print(string(data))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
