package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/p4migrate/depsearch"
)

// JSONFormatter formats search results as JSON.
type JSONFormatter struct{}

// Format converts the result to indented JSON.
// The opts parameter is accepted for interface compatibility but not used.
func (f *JSONFormatter) Format(r depsearch.Result, opts FormatOptions) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
