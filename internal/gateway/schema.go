package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"x360-agent/internal/models"
)

// briefingSchema guards the boundary: a payload that does not match is
// treated the same as a transport failure.
var briefingSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"summary", "items"},
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{"type": "string"},
		"items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "type", "title", "description", "severity", "relatedTicketIds"},
				"properties": map[string]interface{}{
					"id":          map[string]interface{}{"type": "string"},
					"type":        map[string]interface{}{"type": "string"},
					"title":       map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"severity":    map[string]interface{}{"type": "string"},
					"relatedTicketIds": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
					"suggestedAction": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

func decodeBriefing(raw []byte, out *models.BriefingResponse) error {
	schemaLoader := gojsonschema.NewGoLoader(briefingSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("briefing payload validation error: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return fmt.Errorf("briefing payload invalid: %s", strings.Join(problems, "; "))
	}

	return json.Unmarshal(raw, out)
}
