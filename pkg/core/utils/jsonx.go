// Package utils holds small parsing helpers shared across the pipeline.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFences removes a wrapping markdown code block (``` or ```json)
// that models often add around structured output.
func StripCodeFences(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// RepairJSON attempts to fix common JSON errors in LLM output: missing
// quotes, single quotes, unclosed brackets, trailing commas, comments.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses human-friendly JSON (unquoted keys, optional commas,
// comments) into standard JSON text.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to re-marshal hjson value: %w", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries multiple strategies to coerce model output into the
// schema struct, strictest first:
//  1. standard JSON
//  2. JSON repair
//  3. Hjson (most lenient)
//
// Returns an error only when every strategy fails.
func SmartParse(input string, schema interface{}) error {
	cleaned := StripCodeFences(input)

	if err := json.Unmarshal([]byte(cleaned), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	if lenient, err := ParseHJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(lenient), schema); err == nil {
			return nil
		}
	}

	return fmt.Errorf("all parsing strategies failed")
}
