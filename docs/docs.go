// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init` after changing handler annotations.
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
        "/orders": {
            "post": {
                "description": "Guest or signed-in checkout with cash on delivery or UPI",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place an order",
                "parameters": [
                    {
                        "description": "Checkout",
                        "name": "order",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/services.CheckoutRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order by id",
                "parameters": [
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "put": {
                "description": "Status changes follow the transition table; the write is last-write-wins",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Update an order (admin)",
                "parameters": [
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "order",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.UpdateOrderRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/orders/{id}/upi": {
            "post": {
                "description": "Records the transaction id; the order status is unchanged until an admin verifies it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Attach UPI payment proof",
                "parameters": [
                    {"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "UPI proof",
                        "name": "proof",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.AttachUPIRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/admin/stats/overview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Dashboard totals, calendar-month comparison and daily series",
                "parameters": [
                    {"type": "string", "default": "30d", "description": "7d, 30d or 90d", "name": "range", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Overview"}}
                }
            }
        }
    },
    "definitions": {
        "services.CheckoutItem": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "title": {"type": "string"},
                "price": {"type": "number"},
                "qty": {"type": "integer"},
                "image": {"type": "string"},
                "variant": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "services.UPIPayload": {
            "type": "object",
            "properties": {
                "payerName": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "services.CheckoutRequest": {
            "type": "object",
            "required": ["name", "phone", "address", "paymentMethod", "items"],
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "pincode": {"type": "string"},
                "paymentMethod": {"type": "string", "enum": ["COD", "UPI"]},
                "items": {"type": "array", "items": {"$ref": "#/definitions/services.CheckoutItem"}},
                "total": {"type": "number"},
                "upi": {"$ref": "#/definitions/services.UPIPayload"},
                "payerName": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "controllers.UPIProofUpdate": {
            "type": "object",
            "properties": {
                "payerName": {"type": "string"},
                "transactionId": {"type": "string"},
                "paidAmount": {"type": "number"}
            }
        },
        "controllers.UpdateOrderRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "upi": {"$ref": "#/definitions/controllers.UPIProofUpdate"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "pincode": {"type": "string"}
            }
        },
        "controllers.AttachUPIRequest": {
            "type": "object",
            "required": ["transactionId"],
            "properties": {
                "transactionId": {"type": "string"},
                "payerName": {"type": "string"},
                "paidAmount": {"type": "number"}
            }
        },
        "services.Totals": {
            "type": "object",
            "properties": {
                "revenue": {"type": "number"},
                "orders": {"type": "integer"}
            }
        },
        "services.OverviewTotals": {
            "type": "object",
            "properties": {
                "revenue": {"type": "number"},
                "orders": {"type": "integer"},
                "users": {"type": "integer"}
            }
        },
        "services.SeriesPoint": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "revenue": {"type": "number"},
                "orders": {"type": "integer"}
            }
        },
        "services.Overview": {
            "type": "object",
            "properties": {
                "range": {"type": "string"},
                "totals": {"$ref": "#/definitions/services.OverviewTotals"},
                "thisMonth": {"$ref": "#/definitions/services.Totals"},
                "lastMonth": {"$ref": "#/definitions/services.Totals"},
                "prevMonth": {"$ref": "#/definitions/services.Totals"},
                "series": {"type": "array", "items": {"$ref": "#/definitions/services.SeriesPoint"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalogue, checkout and order administration for the storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
