package output

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	return WriteYAML(os.Stdout, v)
}

// WriteYAML is PrintYAML for an arbitrary writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// YAMLString renders v as YAML text, as returned by MCP tools.
func YAMLString(v interface{}) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("yaml encode: %w", err)
	}
	return string(out), nil
}
