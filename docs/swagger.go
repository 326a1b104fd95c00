// Package docs registers the OpenAPI description served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check endpoint",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Healthy", "schema": {"type": "string"}}}
            }
        },
        "/api/timer": {
            "get": {
                "tags": ["timer"],
                "summary": "Get timer state",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.View"}}}
            }
        },
        "/api/timer/{action}": {
            "post": {
                "tags": ["timer"],
                "summary": "Control the countdown",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["start", "pause", "reset"], "name": "action", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.View"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/mode": {
            "post": {
                "tags": ["timer"],
                "summary": "Switch mode",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["focus", "break"], "name": "mode", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.View"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}}
                }
            }
        },
        "/api/duration": {
            "post": {
                "tags": ["timer"],
                "summary": "Set a session length",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["focus", "break"], "name": "mode", "in": "formData", "required": true},
                    {"type": "integer", "name": "minutes", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.View"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "tags": ["stats"],
                "summary": "Get focus statistics",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.StatsResponse"}}}
            }
        },
        "/api/history": {
            "get": {
                "tags": ["stats"],
                "summary": "Get focus history",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/stats.DayStat"}}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}}
                }
            }
        },
        "/api/presets": {
            "get": {
                "tags": ["timer"],
                "summary": "Get duration presets",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pomodoro.PresetsResponse"}}}
            }
        },
        "/connect": {
            "get": {
                "tags": ["websocket"],
                "summary": "WebSocket connection endpoint",
                "responses": {"101": {"description": "Switching Protocols to WebSocket", "schema": {"type": "string"}}}
            }
        }
    },
    "definitions": {
        "pomodoro.View": {
            "type": "object",
            "properties": {
                "event": {"type": "string"},
                "timer": {"$ref": "#/definitions/timer.Snapshot"},
                "stats": {"$ref": "#/definitions/stats.FormattedSummary"},
                "totals": {"$ref": "#/definitions/stats.Summary"}
            }
        },
        "pomodoro.StatsResponse": {
            "type": "object",
            "properties": {
                "totals": {"$ref": "#/definitions/stats.Summary"},
                "formatted": {"$ref": "#/definitions/stats.FormattedSummary"}
            }
        },
        "pomodoro.PresetsResponse": {
            "type": "object",
            "properties": {
                "focus": {"type": "array", "items": {"type": "integer"}},
                "break": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "timer.Snapshot": {
            "type": "object",
            "properties": {
                "mode": {"type": "string", "enum": ["focus", "break"]},
                "status": {"type": "string", "enum": ["idle", "running", "paused"]},
                "remaining_seconds": {"type": "integer"},
                "minutes": {"type": "string"},
                "seconds": {"type": "string"},
                "focus_minutes": {"type": "integer"},
                "break_minutes": {"type": "integer"},
                "message": {"type": "string"},
                "version": {"type": "integer"}
            }
        },
        "stats.Summary": {
            "type": "object",
            "properties": {
                "today": {"type": "integer"},
                "month": {"type": "integer"},
                "year": {"type": "integer"}
            }
        },
        "stats.FormattedSummary": {
            "type": "object",
            "properties": {
                "today": {"type": "string"},
                "month": {"type": "string"},
                "year": {"type": "string"}
            }
        },
        "stats.DayStat": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "minutes": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pomodoro API",
	Description:      "Focus/break countdown timer with daily, monthly and yearly focus statistics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
