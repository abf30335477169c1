// Package docs registers the OpenAPI document served at /swagger/. It lists
// the routes and their auth; request and response schemas live in the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Register a new user",
                "responses": {"200": {"description": "User created successfully"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Login user",
                "responses": {"200": {"description": "Login successful"}}
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Get current user",
                "responses": {"200": {"description": "Current user"}}
            }
        },
        "/api/websites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["websites"],
                "summary": "List active website profiles of the current user",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["websites"],
                "summary": "Create a website profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/websites/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["websites"],
                "summary": "Get a website profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["websites"],
                "summary": "Update a website profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["websites"],
                "summary": "Soft delete a website profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/websites/{id}/preview": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/html"],
                "tags": ["websites"],
                "summary": "Preview the rendered storefront",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "HTML document"}}
            }
        },
        "/api/sites/{ownerEmail}/{slug}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["sites"],
                "summary": "Serve a public storefront",
                "parameters": [
                    {"type": "string", "name": "ownerEmail", "in": "path", "required": true},
                    {"type": "string", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "HTML document"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Storefront Backend API",
	Description:      "Storefront builder backend: accounts, website profiles and rendered storefronts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
