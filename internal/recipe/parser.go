package recipe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"herbal-infusion-ai/internal/shared"
)

// fencePattern matches output wrapped in a single markdown code fence,
// optionally tagged json, capturing the inner content. Case-insensitive and
// spanning newlines.
var fencePattern = regexp.MustCompile("(?is)^```(?:json)?\\s*\n?(.*?)\n?\\s*```$")

// requiredFields are the keys a recipe payload must carry. The last three
// must also be JSON arrays.
var requiredFields = []string{"title", "ingredients", "instructions", "safetyConsiderations"}

var sequenceFields = []string{"ingredients", "instructions", "safetyConsiderations"}

// Parse cleans raw model output, parses it as JSON, validates the recipe
// shape, and overrides the disclaimer with DefaultDisclaimer. Failures are
// classified as response_format_invalid (not JSON even after cleanup) or
// response_shape_invalid (missing or mistyped fields). There is no retry: a
// malformed response is terminal for the attempt.
func Parse(raw string) (*Recipe, error) {
	cleaned := strings.TrimSpace(raw)

	// Step 1: strip a wrapping markdown fence, if the whole payload is one.
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	// Step 2: cut to the outermost braces. Applied unconditionally as a
	// safety net against leading or trailing prose.
	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, shared.WrapFailure(
			shared.FailureResponseFormat,
			"The AI returned an invalid recipe format. Please try again.",
			err,
		)
	}

	var missing []string
	for _, name := range requiredFields {
		if !fieldPresent(fields, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewFailure(
			shared.FailureResponseShape,
			fmt.Sprintf("AI response was incomplete: missing %s.", strings.Join(missing, ", ")),
		)
	}

	for _, name := range sequenceFields {
		if !isJSONArray(fields[name]) {
			return nil, shared.NewFailure(
				shared.FailureResponseShape,
				fmt.Sprintf("AI response was malformed: field %q should be a list.", name),
			)
		}
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		// The payload was valid JSON with the right top-level shape, so a
		// decode error here means a nested field had the wrong type.
		return nil, shared.WrapFailure(
			shared.FailureResponseShape,
			"AI response was malformed: a recipe field had an unexpected type.",
			err,
		)
	}
	if rec.Title == "" {
		return nil, shared.NewFailure(
			shared.FailureResponseShape,
			"AI response was incomplete: missing title.",
		)
	}

	rec.Disclaimer = DefaultDisclaimer
	return &rec, nil
}

// fieldPresent reports whether a key exists with a non-null value.
func fieldPresent(fields map[string]json.RawMessage, name string) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	return strings.TrimSpace(string(raw)) != "null"
}

// isJSONArray reports whether a raw value is a JSON array.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
