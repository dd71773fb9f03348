// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/summaries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Summaries"],
                "summary": "List summaries",
                "parameters": [
                    {"type": "string", "description": "Meeting reference", "name": "meetingRef", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum records (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "Summaries, newest first"}, "400": {"description": "Missing meetingRef"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Summaries"],
                "summary": "Summarize transcript",
                "parameters": [{"description": "Transcript and rendering options", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "Rendered summary"},
                    "400": {"description": "Empty transcript or unknown format"},
                    "422": {"description": "Model output rejected"},
                    "502": {"description": "Model call failed"}
                }
            }
        },
        "/summaries/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Summaries"],
                "summary": "Get summary",
                "parameters": [{"type": "string", "description": "Summary ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Stored summary"}, "404": {"description": "Summary not found"}}
            }
        },
        "/summaries/{id}/document": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Summaries"],
                "summary": "Download summary document",
                "parameters": [{"type": "string", "description": "Summary ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {"307": {"description": "Redirect to the presigned object URL"}, "404": {"description": "Summary or archive not found"}}
            }
        },
        "/transcripts/{id}/summary": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Summaries"],
                "summary": "Summarize provider transcript",
                "parameters": [
                    {"type": "string", "description": "Transcript ID", "name": "id", "in": "path", "required": true},
                    {"description": "Rendering options", "name": "request", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Rendered summary"},
                    "404": {"description": "Transcript unknown or no provider configured"},
                    "409": {"description": "Transcript still processing"}
                }
            }
        },
        "/answers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Answers"],
                "summary": "Ask a question",
                "parameters": [{"description": "Question and transcript", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "Answer with citations"}, "400": {"description": "Empty question or transcript"}, "404": {"description": "No relevant excerpts"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Meeting Digest API",
	Description:      "Summarizes meeting transcripts into a seven-section document and answers questions about them",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
