package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/vsx"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// marshalGeometry encodes a segment sequence as JSON, or NULL when absent.
func marshalGeometry(segs []vsx.Segment) (any, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(segs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return string(data), nil
}

// unmarshalGeometry decodes a stored geometry column.
func unmarshalGeometry(raw *string) ([]vsx.Segment, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var segs []vsx.Segment
	if err := json.Unmarshal([]byte(*raw), &segs); err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}
	return segs, nil
}

// marshalProperties encodes a property map as JSON, or NULL when empty.
func marshalProperties(props vsx.Properties) (any, error) {
	if len(props) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(data), nil
}

// unmarshalProperties decodes a stored properties column.
func unmarshalProperties(raw *string) (vsx.Properties, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var props vsx.Properties
	if err := json.Unmarshal([]byte(*raw), &props); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return props, nil
}
