// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/history": {
            "get": {"tags": ["history"], "summary": "List history", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/history/export": {
            "get": {"tags": ["history"], "summary": "Export history as CSV", "produces": ["text/csv"],
                "responses": {"200": {"description": "tamper_history.csv"}, "404": {"description": "No records to export"}}}
        },
        "/api/v1/events": {
            "post": {"tags": ["events"], "summary": "Add event", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/addEventRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Event"}}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/events/{id}": {
            "delete": {"tags": ["events"], "summary": "Delete event", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/events/{id}/resolve": {
            "post": {"tags": ["events"], "summary": "Resolve event", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/simulation": {
            "get": {"tags": ["simulation"], "summary": "Simulation state", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SimulationState"}}}}
        },
        "/api/v1/simulation/start": {
            "post": {"tags": ["simulation"], "summary": "Start simulation", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/startRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/simulation/stop": {
            "post": {"tags": ["simulation"], "summary": "Stop simulation", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/simulation/once": {
            "post": {"tags": ["simulation"], "summary": "Generate one event", "produces": ["application/json"],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Event"}}}}
        },
        "/api/v1/chart": {
            "get": {"tags": ["history"], "summary": "Severity chart data", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ChartData"}}}}
        }
    },
    "definitions": {
        "models.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "ts": {"type": "string"},
                "status": {"type": "string"},
                "value": {"type": "string"},
                "note": {"type": "string"},
                "resolved": {"type": "boolean"}
            }
        },
        "addEventRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "example": "WARNING"},
                "value": {"type": "string", "example": "12.5"},
                "note": {"type": "string", "example": "door ajar"}
            }
        },
        "startRequest": {
            "type": "object",
            "properties": {"interval_ms": {"type": "integer", "example": 4000}}
        },
        "service.SimulationState": {
            "type": "object",
            "properties": {"running": {"type": "boolean"}}
        },
        "service.ChartData": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"type": "string"}},
                "datasets": {"type": "array", "items": {"$ref": "#/definitions/service.ChartDataset"}}
            }
        },
        "service.ChartDataset": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "data": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tamper Monitor API",
	Description:      "Tamper-sensor event history: simulation, manual entry, resolution, chart data and CSV export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
