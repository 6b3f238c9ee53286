// Package docs holds the OpenAPI document served under /swagger. It mirrors the godoc
// annotations on the handlers; regenerate it with `swag init` after changing them.
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
        "/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists the caller's job applications ordered by application date.",
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "List job applications",
                "parameters": [
                    {"type": "integer", "default": 0, "minimum": 0, "description": "Records to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 10, "minimum": 1, "maximum": 100, "description": "Records to return", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/applications.Application"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Create a job application",
                "parameters": [
                    {"description": "New application", "name": "application", "in": "body", "required": true, "schema": {"$ref": "#/definitions/applications.CreateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/applications.Application"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Get a job application",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Application id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/applications.Application"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Changes only the fields present in the body. \"url\": null clears the URL.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applications"],
                "summary": "Update a job application",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Application id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "application", "in": "body", "required": true, "schema": {"$ref": "#/definitions/applications.UpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/applications.Application"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["applications"],
                "summary": "Delete a job application",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Application id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/token": {
            "post": {
                "description": "Exchanges a username and password for a bearer access token.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.TokenResponse"}},
                    "401": {"description": "Wrong credentials", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "description": "Creates an account. Usernames are unique.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.RegisterResponse"}},
                    "400": {"description": "Username already registered or invalid input", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the username of the account the bearer token belongs to.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.MeResponse"}},
                    "401": {"description": "Could not validate credentials", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}}
                }
            }
        },
        "/health/details": {
            "get": {
                "description": "Pings the database. Responds 503 when it is unreachable.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Dependency health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.DetailsResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.DetailsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "A description of the error"}
            }
        },
        "applications.Application": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "company": {"type": "string", "example": "Acme Corp"},
                "status": {"type": "string", "enum": ["reviewing", "interviewing", "offered", "rejected"]},
                "url": {"type": "string", "x-nullable": true, "example": "https://acme.example/jobs/42"},
                "applied_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time", "x-nullable": true}
            }
        },
        "applications.CreateRequest": {
            "type": "object",
            "required": ["company", "status"],
            "properties": {
                "company": {"type": "string", "maxLength": 255, "example": "Acme Corp"},
                "status": {"type": "string", "enum": ["reviewing", "interviewing", "offered", "rejected"], "example": "reviewing"},
                "url": {"type": "string", "maxLength": 255, "example": "https://acme.example/jobs/42"}
            }
        },
        "applications.UpdateRequest": {
            "type": "object",
            "properties": {
                "company": {"type": "string", "maxLength": 255, "example": "Acme Corp"},
                "status": {"type": "string", "enum": ["reviewing", "interviewing", "offered", "rejected"], "example": "interviewing"},
                "url": {"type": "string", "x-nullable": true, "example": "https://acme.example/jobs/42"}
            }
        },
        "auth.RegisterResponse": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "alice"}
            }
        },
        "auth.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "expires_in": {"type": "integer", "example": 1800}
            }
        },
        "health.DetailsResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "database_status": {"type": "string", "example": "healthy"},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"}
            }
        },
        "users.MeResponse": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "alice"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "jobtrack API",
	Description:      "Authenticated job application tracker.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
