package storage

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Rapou7/YonkiStats/internal/core"
)

// recordSchema is the field-presence contract every imported record
// must satisfy. notes is deliberately absent: the field is optional and
// unvalidated. Unknown extra fields are tolerated.
const recordSchema = `{
	"type": "object",
	"required": ["id", "date", "amountSpent", "grams", "source", "type", "category"],
	"properties": {
		"id": {"type": "string"},
		"date": {"type": "string"},
		"amountSpent": {"type": "number"},
		"grams": {"type": "number"},
		"source": {"type": "string"},
		"type": {"type": "string"},
		"category": {"enum": ["Alcohol", "Tobacco", "Weed", "Food", "Other"]}
	}
}`

var compiledRecordSchema = jsonschema.MustCompileString("record.json", recordSchema)

// validateImport applies the import rules in order: document shape
// first (ErrMalformedPayload), then every record of both sequences
// independently (ErrInvalidRecord). Only a fully valid payload is
// decoded into a Snapshot.
func validateImport(payload []byte) (Snapshot, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", core.ErrMalformedPayload, err)
	}

	entries, ok := doc["entries"].([]any)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: entries is not a sequence", core.ErrMalformedPayload)
	}
	favorites, ok := doc["favorites"].([]any)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: favorites is not a sequence", core.ErrMalformedPayload)
	}

	for i, rec := range entries {
		if err := compiledRecordSchema.Validate(rec); err != nil {
			return Snapshot{}, fmt.Errorf("entries[%d]: %w: %v", i, core.ErrInvalidRecord, err)
		}
	}
	for i, rec := range favorites {
		if err := compiledRecordSchema.Validate(rec); err != nil {
			return Snapshot{}, fmt.Errorf("favorites[%d]: %w: %v", i, core.ErrInvalidRecord, err)
		}
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// Schema-valid records can still defeat the typed decode, a
		// non-string notes field for instance.
		return Snapshot{}, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}
	if snapshot.Entries == nil {
		snapshot.Entries = []core.Entry{}
	}
	if snapshot.Favorites == nil {
		snapshot.Favorites = []core.Entry{}
	}
	return snapshot, nil
}
