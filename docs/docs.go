// Package docs registers the OpenAPI document served at /api/swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "User signup",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.signupRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions": {
            "get": {
                "tags": ["questions"],
                "summary": "Newest questions",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Ask a question",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.askRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions/hot": {
            "get": {
                "tags": ["questions"],
                "summary": "Hot questions",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questions/{id}": {
            "get": {
                "tags": ["questions"],
                "summary": "Question with answers",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "1-based answer page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/questions/{id}/answers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["answers"],
                "summary": "Answer a question",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.answerRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/questions/{id}/like": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questions"],
                "summary": "Like a question",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "Question ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/answers/{id}/correct": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["answers"],
                "summary": "Mark an answer correct",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "Answer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/tags/top": {
            "get": {
                "tags": ["tags"],
                "summary": "Most used tags",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "Number of tags", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TagCount"}}}}
            }
        },
        "/tags/{name}/questions": {
            "get": {
                "tags": ["tags"],
                "summary": "Questions by tag",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Tag name", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update settings",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.updateProfileRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{id}/avatar": {
            "get": {
                "tags": ["users"],
                "summary": "User avatar",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.TagCount": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "tag_name": {"type": "string"}
            }
        },
        "server.signupRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "server.loginRequest": {
            "type": "object",
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "server.askRequest": {
            "type": "object",
            "properties": {
                "tags": {"type": "array", "items": {"type": "string"}},
                "text": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "server.answerRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "server.updateProfileRequest": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
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
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "AskMe API",
	Description:      "Questions, answers, tags and likes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
