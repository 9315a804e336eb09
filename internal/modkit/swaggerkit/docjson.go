package swaggerkit

import (
	"encoding/json"
	"strings"

	docs "eventscope/internal/services/api/docs"
)

// docReader is a seam for tests
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

var errorRef = map[string]any{"$ref": "#/components/schemas/httpkit.Envelope"}

// responses every operation can produce from the shared middleware stack
var defaults = map[string]struct {
	desc    string
	example map[string]any
	secured bool
}{
	"400": {desc: "Bad Request", example: map[string]any{
		"status_code": 400, "status": "Bad Request", "code": 7,
		"error": "invalid argument", "detail": "per_page must be between 1 and 100", "field": "per_page",
	}},
	"401": {desc: "Unauthorized", secured: true, example: map[string]any{
		"status_code": 401, "status": "Unauthorized", "code": 5, "error": "unauthorized",
	}},
	"429": {desc: "Too Many Requests", example: map[string]any{
		"status_code": 429, "status": "Too Many Requests", "code": 3, "error": "rate limit exceeded",
	}},
	"500": {desc: "Internal Server Error", example: map[string]any{
		"status_code": 500, "status": "Internal Server Error", "code": 1, "error": "Internal Server Error",
	}},
}

// buildDoc parses the generated document and fills in what swag cannot
// derive from annotations
func buildDoc(raw, basePath, titleSuffix string) (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	// the bundled UI renders 3.0 only
	if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	delete(spec, "swagger")
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": basePath}}
	}

	if titleSuffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			title, _ := info["title"].(string)
			info["title"] = strings.TrimSpace(title + " " + titleSuffix)
		}
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			addDefaults(op)
		}
	}
	return spec, nil
}

func addDefaults(op map[string]any) {
	resps, ok := op["responses"].(map[string]any)
	if !ok {
		resps = map[string]any{}
		op["responses"] = resps
	}
	_, secured := op["security"]
	for code, d := range defaults {
		if _, exists := resps[code]; exists || (d.secured && !secured) {
			continue
		}
		resps[code] = map[string]any{
			"description": d.desc,
			"content": map[string]any{
				"application/json": map[string]any{"schema": errorRef, "example": d.example},
			},
		}
	}
}
