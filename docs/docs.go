// Package docs registers the console's OpenAPI description with swag.
// Regenerate with `swag init -g cmd/console/main.go`.
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
        "/api/session/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "parameters": [
                    {"type": "boolean", "description": "Reload the profile from the backend", "name": "reload", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/session/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.notice"}}
                }
            }
        },
        "/api/language": {
            "get": {
                "produces": ["application/json"],
                "tags": ["language"],
                "summary": "Active display language",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.languageResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["language"],
                "summary": "Switch display language",
                "parameters": [
                    {
                        "description": "Target language",
                        "name": "body",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.languageRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.languageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/showcase": {
            "get": {
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Public gallery of delivered work",
                "parameters": [
                    {"type": "boolean", "description": "Only items with an image", "name": "with_image", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ShowcaseItem"}}}
                }
            }
        },
        "/api/track/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Track an order",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/manager/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Manager dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.dashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/manager/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order board",
                "parameters": [
                    {"type": "string", "description": "Filter by customer phone", "name": "phone", "in": "query"},
                    {"enum": ["UNDER_WORK", "DESIGNING", "DESIGN_COMPLETED", "DELIVERED"], "type": "string", "description": "Only this stage", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.orderBoardResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order",
                "parameters": [
                    {"description": "Order details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.orderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.notice"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/manager/orders/{id}/advance": {
            "post": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Advance an order",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.notice"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/manager/shifts/open": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Open a new shift",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.notice"}}
                }
            }
        },
        "/api/manager/shifts/{id}/close": {
            "post": {
                "produces": ["application/json"],
                "tags": ["shifts"],
                "summary": "Close a shift",
                "parameters": [
                    {"type": "integer", "description": "Shift ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.notice"}}
                }
            }
        },
        "/api/worker/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Order board",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.orderBoardResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "level": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "redirect": {"type": "string"}
            }
        },
        "handler.notice": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "level": {"type": "string"},
                "data": {}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "redirect": {"type": "string"},
                "realtime": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.languageRequest": {
            "type": "object",
            "properties": {
                "language": {"type": "string", "enum": ["en", "ar"]}
            }
        },
        "handler.languageResponse": {
            "type": "object",
            "properties": {
                "language": {"type": "string"},
                "name": {"type": "string"},
                "direction": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.orderRequest": {
            "type": "object",
            "properties": {
                "customer_name": {"type": "string"},
                "customer_phone": {"type": "string"},
                "order_details": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "handler.orderBoardResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "has_active_shift": {"type": "boolean"},
                "shift": {"$ref": "#/definitions/domain.Shift"},
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "buckets": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}}
            }
        },
        "handler.dashboardResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "shift": {"$ref": "#/definitions/domain.Shift"},
                "today": {"$ref": "#/definitions/service.ShiftMetrics"},
                "total": {"type": "integer"},
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "recent_orders": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}
            }
        },
        "service.ShiftMetrics": {
            "type": "object",
            "properties": {
                "has_active_shift": {"type": "boolean"},
                "delivered_count": {"type": "integer"},
                "revenue": {"type": "number"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "role": {"type": "string", "enum": ["MANAGER", "WORKER"]},
                "phone": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customer_name": {"type": "string"},
                "customer_phone": {"type": "string"},
                "order_details": {"type": "string"},
                "image": {"type": "string"},
                "price": {"type": "number"},
                "status": {"type": "string", "enum": ["UNDER_WORK", "DESIGNING", "DESIGN_COMPLETED", "DELIVERED"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "delivered_at": {"type": "string"}
            }
        },
        "domain.Shift": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "opened_at": {"type": "string"},
                "closed_at": {"type": "string"},
                "is_active": {"type": "boolean"},
                "total_orders_delivered": {"type": "integer"},
                "total_revenue": {"type": "number"},
                "duration_hours": {"type": "number"}
            }
        },
        "domain.ShowcaseItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customer_name": {"type": "string"},
                "image": {"type": "string"},
                "order_details": {"type": "string"},
                "delivered_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Laser Workshop Console API",
	Description:      "Order, shift and employee management for the laser workshop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
