package config

import (
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"gopkg.in/yaml.v3"
)

// LoadDeals reads a YAML or JSON deal file. The document is either one deal
// mapping or a sequence of them.
func LoadDeals(path string) ([]map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deal file %s: %w", path, err)
	}
	return ParseDeals(raw)
}

// ParseDeals decodes deal documents already in memory.
func ParseDeals(raw []byte) ([]map[string]interface{}, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode deal: %w", err)
	}

	switch v := doc.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{normalize(v)}, nil
	case []interface{}:
		deals := make([]map[string]interface{}, 0, len(v))
		for i, item := range v {
			deal, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("deal %d is not a mapping", i)
			}
			deals = append(deals, normalize(deal))
		}
		return deals, nil
	case nil:
		return nil, fmt.Errorf("deal document is empty")
	default:
		return nil, fmt.Errorf("deal document has unsupported type %T", doc)
	}
}

// normalize turns decoded timestamps back into ISO dates so that deal values
// keep the loosely typed shape the engine accepts.
func normalize(deal map[string]interface{}) map[string]interface{} {
	for key, value := range deal {
		switch v := value.(type) {
		case time.Time:
			deal[key] = v.Format(constants.DateLayout)
		case map[string]interface{}:
			deal[key] = normalize(v)
		case []interface{}:
			for i, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					v[i] = normalize(m)
				}
			}
		}
	}
	return deal
}
