package formatters

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// YAMLFormatter formats search results as YAML.
type YAMLFormatter struct{}

// Format converts the result to YAML.
func (f *YAMLFormatter) Format(r depsearch.Result, opts FormatOptions) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
