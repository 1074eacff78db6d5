package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ClassMapping is the ordered index→label table produced at training time.
// It is loaded once at startup and read-only afterwards.
type ClassMapping []string

// LoadClassMapping reads an index_to_class.json artifact, a JSON object
// keyed by stringified indices: {"0": "freshapples", "1": "rottenapples", ...}.
// Indices must be contiguous starting at zero.
func LoadClassMapping(path string) (ClassMapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class mapping: %w", err)
	}

	var byIndex map[string]string
	if err := json.Unmarshal(raw, &byIndex); err != nil {
		return nil, fmt.Errorf("parse class mapping: %w", err)
	}
	if len(byIndex) == 0 {
		return nil, fmt.Errorf("class mapping %s is empty", path)
	}

	mapping := make(ClassMapping, len(byIndex))
	for key, label := range byIndex {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("class mapping key %q is not an index", key)
		}
		if idx < 0 || idx >= len(byIndex) {
			return nil, fmt.Errorf("class mapping indices are not contiguous: got %d for %d classes", idx, len(byIndex))
		}
		if mapping[idx] != "" {
			return nil, fmt.Errorf("class mapping has duplicate index %d", idx)
		}
		if label == "" {
			return nil, fmt.Errorf("class mapping index %d has an empty label", idx)
		}
		mapping[idx] = label
	}

	return mapping, nil
}

// Len returns the number of classes.
func (m ClassMapping) Len() int {
	return len(m)
}

// Name resolves a class index to its label.
func (m ClassMapping) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(m) {
		return "", false
	}
	return m[idx], true
}
