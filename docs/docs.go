// Package docs holds the OpenAPI document served under /swagger/. It follows
// the layout of swag-generated docs and must be kept in line with the
// @-annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/fetch": {
            "get": {
                "description": "Validates the URL against the outbound network policy, fetches it once and returns the reduced content",
                "produces": ["application/json"],
                "tags": ["fetch"],
                "summary": "Fetch a web page",
                "parameters": [
                    {"type": "string", "description": "Absolute http(s) URL", "name": "url", "in": "query", "required": true},
                    {"type": "boolean", "description": "Return visible text instead of cleaned HTML", "name": "textOnly", "in": "query"},
                    {"type": "boolean", "description": "Also return the main content region", "name": "extractMainContent", "in": "query"},
                    {"type": "string", "description": "html (default) or markdown", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.FetchResult"}},
                    "400": {"description": "URL rejected by validation", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "Transport or processing failure", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["fetch"],
                "summary": "Fetch a web page (JSON body)",
                "parameters": [
                    {"description": "Fetch request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/fetch.RequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.FetchResult"}},
                    "400": {"description": "Malformed body or URL rejected by validation", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "Transport or processing failure", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/api/search": {
            "get": {
                "description": "Passes the query to the configured search API and returns its JSON response and status unchanged",
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Web search",
                "parameters": [
                    {"type": "string", "description": "Search terms", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Upstream search response", "schema": {"type": "object"}},
                    "400": {"description": "Blank query", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "500": {"description": "Search is not configured or the upstream call failed", "schema": {"$ref": "#/definitions/respond.ErrorBody"}},
                    "503": {"description": "Upstream temporarily unavailable", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "entity.FetchResult": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "statusCode": {"type": "integer"},
                "contentType": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "content": {"type": "string"},
                "mainContent": {"type": "string"}
            }
        },
        "fetch.RequestDTO": {
            "type": "object",
            "properties": {
                "url": {"type": "string", "example": "https://example.com/article"},
                "textOnly": {"type": "boolean"},
                "extractMainContent": {"type": "boolean"},
                "format": {"type": "string", "example": "markdown"}
            }
        },
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
	Title:            "SafeFetch API",
	Description:      "Outbound content-fetch proxy. Validates target URLs against a network policy, fetches them once and returns reduced HTML, visible text or Markdown with page metadata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
