// Package fundlist serves the static fund directory the dashboard searches locally.
package fundlist

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"fundboard/internal/models"
)

//go:embed fund-list.json
var raw []byte

// Load decodes the embedded list. Every entry must carry a code and a name.
func Load() ([]models.FundListItem, error) {
	var items []models.FundListItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode fund list: %w", err)
	}
	for i, it := range items {
		if it.Code == "" || it.Name == "" {
			return nil, fmt.Errorf("fund list entry %d: missing code or name", i)
		}
	}
	return items, nil
}
