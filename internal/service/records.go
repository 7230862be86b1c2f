package service

import (
	"encoding/json"
	"fmt"

	"github.com/project1356/backend/internal/models"
)

// marshalStamped serializes a record value and adds the save-time stamp the
// mobile client round-trips. The stamp lives beside the record's own fields
// so loading into a typed struct simply ignores it.
func marshalStamped(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to stamp record: %w", err)
	}

	stamp, err := json.Marshal(models.NowMillis())
	if err != nil {
		return nil, fmt.Errorf("failed to stamp record: %w", err)
	}
	fields[models.SavedAtStamp] = stamp

	return json.Marshal(fields)
}

// unmarshalRecord decodes a stored record payload into v. Unknown members,
// including the save-time stamp, are dropped.
func unmarshalRecord(payload json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode stored record: %w", err)
	}
	return nil
}
