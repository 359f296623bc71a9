package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hotspot Configuration API",
        "description": "Configuration intake, sizing and export for offline content hotspots",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Configurations", "description": "Hotspot configurations"},
        {"name": "Branding", "description": "Branding asset downloads"},
        {"name": "Media", "description": "Storage media tiers"},
        {"name": "Addresses", "description": "Shipping addresses"},
        {"name": "Lookups", "description": "Languages, timezones and countries"}
    ],
    "paths": {
        "/configurations": {
            "get": {
                "tags": ["Configurations"],
                "summary": "List the organization's configurations, newest first",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer", "description": "0 lists everything"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Configurations"],
                "summary": "Create a configuration from a raw payload",
                "description": "Invalid fields fall back to defaults and invalid branding entries are dropped.",
                "parameters": [
                    {"name": "Idempotency-Key", "in": "header", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfigurationPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "PERSISTENCE_FAILURE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "CATALOG_UNAVAILABLE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/configurations/export.csv": {
            "get": {
                "tags": ["Configurations"],
                "summary": "Download configurations as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/configurations/{id}": {
            "get": {
                "tags": ["Configurations"],
                "summary": "Get a configuration with collection, size and minimal media",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/configurations/{id}/export": {
            "get": {
                "tags": ["Configurations"],
                "summary": "Export the build payload",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "NO_SUITABLE_MEDIA", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "ASSET_STORE_CORRUPTION", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/configurations/{id}/sheet": {
            "get": {
                "tags": ["Configurations"],
                "summary": "Download a PDF configuration sheet",
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/configurations/{id}/branding/{kind}/url": {
            "get": {
                "tags": ["Branding"],
                "summary": "Issue a signed download link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["logo", "favicon", "css"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/branding/download": {
            "get": {
                "tags": ["Branding"],
                "summary": "Download a branding asset",
                "security": [],
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Asset bytes"},
                    "403": {"description": "Expired or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/media": {
            "get": {
                "tags": ["Media"],
                "summary": "List media tiers by ascending size",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/media/minimal": {
            "get": {
                "tags": ["Media"],
                "summary": "Smallest tier holding a byte requirement",
                "parameters": [{"name": "size", "in": "query", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "NO_SUITABLE_MEDIA", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/addresses": {
            "get": {
                "tags": ["Addresses"],
                "summary": "List shipping addresses",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Addresses"],
                "summary": "Create a shipping address",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddressRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "VALIDATION_ERROR or INVALID_PHONE", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/addresses/{id}": {
            "put": {
                "tags": ["Addresses"],
                "summary": "Update a shipping address",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddressRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/lookups/languages": {
            "get": {"tags": ["Lookups"], "summary": "Hotspot languages", "responses": {"200": {"description": "OK"}}}
        },
        "/lookups/timezones": {
            "get": {"tags": ["Lookups"], "summary": "Timezones", "responses": {"200": {"description": "OK"}}}
        },
        "/lookups/countries": {
            "get": {"tags": ["Lookups"], "summary": "Shipping countries", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "ConfigurationPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "project_name": {"type": "string"},
                "language": {"type": "string"},
                "timezone": {"type": "string"},
                "wifi": {"type": "object", "properties": {"protected": {"type": "boolean"}, "password": {"type": "string"}}},
                "admin_account": {"type": "object", "properties": {"login": {"type": "string"}, "password": {"type": "string"}}},
                "content": {
                    "type": "object",
                    "properties": {
                        "zims": {"type": "array", "items": {"type": "string"}},
                        "kalite": {"type": "array", "items": {"type": "string"}},
                        "wikifundi": {"type": "array", "items": {"type": "string"}},
                        "aflatoun": {"type": "boolean"},
                        "edupi": {"type": "boolean"},
                        "edupi_resources": {"type": "string"}
                    }
                },
                "branding": {
                    "type": "object",
                    "properties": {
                        "logo": {"$ref": "#/definitions/BrandingFile"},
                        "favicon": {"$ref": "#/definitions/BrandingFile"},
                        "css": {"$ref": "#/definitions/BrandingFile"}
                    }
                }
            }
        },
        "BrandingFile": {
            "type": "object",
            "properties": {
                "fname": {"type": "string"},
                "data": {"type": "string", "format": "byte"},
                "type": {"type": "string"}
            }
        },
        "AddressRequest": {
            "type": "object",
            "required": ["name", "recipient", "phone", "address", "country"],
            "properties": {
                "name": {"type": "string"},
                "recipient": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "country": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
