package backup

import (
	"encoding/json"
	"fmt"
	"strings"

	"lettingscope/internal/models"
	"lettingscope/internal/storage"
)

// requiredKeys are the top-level keys an imported record must carry. The
// activities and version keys are optional; absent ones are defaulted.
var requiredKeys = []string{"properties", "bills", "chasers", "notes", "settings"}

// ParseRecord parses raw bytes as a primary store record, rejecting input
// that is not a JSON object or is missing required top-level keys. The error
// wraps storage.ErrInvalidFormat and names every missing key.
func ParseRecord(raw []byte) (*models.AppData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", storage.ErrInvalidFormat, err)
	}
	var missing []string
	for _, k := range requiredKeys {
		if _, ok := top[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", storage.ErrInvalidFormat, strings.Join(missing, ", "))
	}
	var d models.AppData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidFormat, err)
	}
	return &d, nil
}
