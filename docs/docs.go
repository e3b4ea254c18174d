// Package docs holds the OpenAPI description of the webhook receiver.
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
        "/v1/webhooks/{event}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Receive a Ghost webhook delivery",
                "parameters": [
                    {"type": "string", "description": "Ghost event name, e.g. post.published", "name": "event", "in": "path", "required": true},
                    {"type": "string", "description": "sha256=<hex>, t=<unix-ms>", "name": "X-Ghost-Signature", "in": "header", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.acceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/events": {
            "get": {
                "security": [{"GhostAdminToken": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List received webhook deliveries",
                "parameters": [
                    {"type": "string", "description": "Filter by event name", "name": "event", "in": "query"},
                    {"type": "string", "description": "Filter by resource id", "name": "resource_id", "in": "query"},
                    {"type": "integer", "description": "Maximum results (1-500, default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listEventsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.acceptedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "event": {"type": "string"},
                "resource_id": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.eventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event": {"type": "string"},
                "resource": {"type": "string"},
                "resource_id": {"type": "string"},
                "signed_at": {"type": "string"},
                "received_at": {"type": "string"},
                "payload": {"type": "object"}
            }
        },
        "handler.listEventsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/handler.eventResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "GhostAdminToken": {
            "description": "Ghost <admin token>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ghost Webhook Receiver",
	Description:      "Receives signed Ghost webhook deliveries and keeps an audit trail.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
