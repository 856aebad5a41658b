package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/badgeboard/pkg/errors"
	"github.com/matzehuels/badgeboard/pkg/fields"
)

// loadAttendees reads a JSON array of attendee objects. Values must be
// strings; numbers are accepted and formatted as written.
func loadAttendees(path string) ([]fields.Attendee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: expected a JSON array of objects", path)
	}
	out := make([]fields.Attendee, len(raw))
	for i, obj := range raw {
		a := make(fields.Attendee, len(obj))
		for k, v := range obj {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				a[k] = s
				continue
			}
			var n json.Number
			if err := json.Unmarshal(v, &n); err != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "%s: attendee %d: %s must be a string or number", path, i, k)
			}
			a[k] = n.String()
		}
		out[i] = a
	}
	return out, nil
}

// parseAssignments turns key=value flags into one attendee.
func parseAssignments(pairs []string) (fields.Attendee, error) {
	a := make(fields.Attendee, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q (expected attribute=value)", p)
		}
		a[strings.TrimSpace(k)] = v
	}
	return a, nil
}

// attendeeSlug names per-attendee output files. Identifiers unsafe for a
// file name fall back to the attendee's position.
func attendeeSlug(a fields.Attendee, index int) string {
	if id := a.ID(); id != "" && errors.ValidateTemplateID(id) == nil {
		return id
	}
	return fmt.Sprintf("%03d", index+1)
}
