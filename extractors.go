package authclient

import "sort"

// The backend's validation envelope is not uniform across endpoints: the
// legacy PHP endpoints answer 422 with a field-keyed errors map, the newer
// Python ones with a detail issue list, and a few with a flat message field.
// Extraction is an ordered strategy list so every shape stays covered and
// independently testable.

// ValidationMessageExtractor attempts to pull a user-facing message out of a
// decoded 422 body. Extractors are pure; they return false when the body does
// not match their shape.
type ValidationMessageExtractor func(body map[string]any) (string, bool)

// DefaultValidationExtractors is the extraction order applied by Classify.
// Order matters: the field-keyed map is the most specific shape, the flat
// message field the least.
func DefaultValidationExtractors() []ValidationMessageExtractor {
	return []ValidationMessageExtractor{
		ExtractFieldErrors,
		ExtractIssueList,
		ExtractFlatMessage,
	}
}

// ExtractFieldErrors handles {"errors": {"field": ["message", ...]}}; it
// takes the first field's first message. Fields are visited in sorted key
// order so the surfaced message is stable across runs; JSON decoding into a
// map has already discarded document order.
func ExtractFieldErrors(body map[string]any) (string, bool) {
	raw, ok := body["errors"].(map[string]any)
	if !ok || len(raw) == 0 {
		return "", false
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		list, ok := raw[field].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if msg, ok := list[0].(string); ok && msg != "" {
			return msg, true
		}
	}
	return "", false
}

// ExtractIssueList handles {"detail": [{"msg": "message", ...}, ...]}; it
// takes the first issue's message.
func ExtractIssueList(body map[string]any) (string, bool) {
	list, ok := body["detail"].([]any)
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", false
	}
	if msg, ok := first["msg"].(string); ok && msg != "" {
		return msg, true
	}
	return "", false
}

// ExtractFlatMessage handles {"message": "..."}.
func ExtractFlatMessage(body map[string]any) (string, bool) {
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg, true
	}
	return "", false
}
