package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("swagger doc is not JSON: %v", err)
	}
	paths, _ := parsed["paths"].(map[string]any)
	if _, ok := paths["/api/v1/history/export"]; !ok {
		t.Fatalf("export path missing")
	}
}
