package p4

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one tagged output record of a p4 command.
type Record map[string]string

// Get returns the value of key, or "" when absent.
func (r Record) Get(key string) string {
	return r[key]
}

// Has reports whether the record carries key.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Indexed returns the values of key0, key1, ... in order.
func (r Record) Indexed(key string) []string {
	var indices []int
	for k := range r {
		if !strings.HasPrefix(k, key) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(k, key))
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)

	values := make([]string, 0, len(indices))
	for _, n := range indices {
		values = append(values, r[key+strconv.Itoa(n)])
	}
	return values
}

// parseRecords decodes `p4 -ztag -Mj` output: one JSON object per line.
// Records with code "error" are returned as the error.
func parseRecords(output []byte) ([]Record, error) {
	var records []Record
	var errorMessages []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode p4 output %q: %w", string(line), err)
		}

		record := make(Record, len(raw))
		for k, v := range raw {
			record[k] = stringValue(v)
		}

		if record.Get("code") == "error" {
			errorMessages = append(errorMessages, strings.TrimSpace(record.Get("data")))
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read p4 output: %w", err)
	}

	if len(errorMessages) > 0 {
		return records, fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return records, nil
}

func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		data, _ := json.Marshal(value)
		return string(data)
	}
}
