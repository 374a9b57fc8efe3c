package request

import "github.com/google/uuid"

// missing reports the fields absent from a create request.
func missing(present map[string]bool) map[string]string {
	out := make(map[string]string)
	for field, ok := range present {
		if !ok {
			out[field] = "this field is required"
		}
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setUUIDIf leaves dst untouched when src is malformed; the shape check
// reports that case.
func setUUIDIf(dst *uuid.UUID, src *string) {
	if src == nil {
		return
	}
	if id, err := uuid.Parse(*src); err == nil {
		*dst = id
	}
}
