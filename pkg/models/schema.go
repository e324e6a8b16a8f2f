package models

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// workflowSchema is the JSON Schema every stored workflow definition must
// satisfy before it is accepted by a persistence layer or the repository.
var workflowSchema = map[string]any{
	"type":     "object",
	"required": []any{"name"},
	"properties": map[string]any{
		"id":      map[string]any{"type": "string"},
		"name":    map[string]any{"type": "string", "minLength": 3},
		"order":   map[string]any{"type": "integer", "minimum": 0},
		"enabled": map[string]any{"type": "boolean"},
		"triggers": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"type"},
				"properties": map[string]any{
					"id": map[string]any{"type": "string"},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"consumption", "document_added", "document_updated"},
					},
					"sources": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "string",
							"enum": []any{"consume_folder", "api_upload", "mail_fetch"},
						},
					},
					"filter_filename":  map[string]any{"type": "string"},
					"filter_path":      map[string]any{"type": "string"},
					"filter_mail_rule": map[string]any{"type": "string"},
				},
			},
		},
		"actions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"type"},
				"properties": map[string]any{
					"id":                   map[string]any{"type": "string"},
					"type":                 map[string]any{"type": "string", "enum": []any{"assignment"}},
					"assign_title":         map[string]any{"type": "string"},
					"assign_tags":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assign_document_type": map[string]any{"type": "string"},
					"assign_correspondent": map[string]any{"type": "string"},
					"assign_storage_path":  map[string]any{"type": "string"},
					"assign_owner":         map[string]any{"type": "string"},
					"assign_view_users":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assign_view_groups":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assign_change_users":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assign_change_groups": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"assign_custom_fields": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
		},
	},
}

// ValidateWorkflowJSON validates a raw workflow definition against the
// workflow schema.
func ValidateWorkflowJSON(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(workflowSchema)
	dataLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate workflow definition: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, resultError := range result.Errors() {
			errs = append(errs, resultError.String())
		}

		return fmt.Errorf("workflow definition is invalid: %s", strings.Join(errs, "; "))
	}

	return nil
}
