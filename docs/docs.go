package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/errors": {
            "get": {
                "tags": ["errors"],
                "summary": "List error codes",
                "description": "Return every error code in stored order",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.ErrorRecord"}}
                    }
                }
            },
            "post": {
                "tags": ["errors"],
                "summary": "Add an error code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {"$ref": "#/definitions/entities.ErrorRecord"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "400": {"description": "Missing field", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "No session", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Duplicate code", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/errors/{code}": {
            "put": {
                "tags": ["errors"],
                "summary": "Replace an error code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "code", "type": "string", "required": true},
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {"$ref": "#/definitions/entities.ErrorRecord"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "400": {"description": "Missing field", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "No session", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["errors"],
                "summary": "Delete an error code",
                "produces": ["application/json"],
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "code", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "401": {"description": "No session", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entities.ErrorRecord": {
            "type": "object",
            "required": ["Code", "HMI Message", "Cause", "Action", "Platforms"],
            "properties": {
                "Code": {"type": "string"},
                "HMI Message": {"type": "string"},
                "Cause": {"type": "string"},
                "Action": {"type": "string"},
                "Platforms": {"type": "string"}
            }
        },
        "http.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "type": "apiKey",
            "name": "catalog_session",
            "in": "header",
            "description": "Session cookie issued by POST /login"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Error Code Catalog API",
	Description:      "Browse and maintain the device error code catalog",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
