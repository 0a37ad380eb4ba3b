package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Roadfy Governance API",
        "description": "Audit trail, record versioning, telemetry and data-quality services",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Governance", "description": "Privileged audit, versioning and quality surface"},
        {"name": "Interactions", "description": "Public interaction telemetry"},
        {"name": "Exports", "description": "Asynchronous trail exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/interactions": {
            "post": {
                "tags": ["Interactions"],
                "summary": "Record one interaction event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InteractionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Logged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "200": {"description": "Accepted but not stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/audit-trail": {
            "get": {
                "tags": ["Governance"],
                "summary": "List audit trail entries",
                "parameters": [
                    {"name": "table", "in": "query", "type": "string"},
                    {"name": "record_id", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/access-logs": {
            "get": {
                "tags": ["Governance"],
                "summary": "List access log entries",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "access_type", "in": "query", "type": "string"},
                    {"name": "successful", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/versions/{table}/{recordId}": {
            "get": {
                "tags": ["Governance"],
                "summary": "List version history for a record",
                "parameters": [
                    {"name": "table", "in": "path", "required": true, "type": "string"},
                    {"name": "recordId", "in": "path", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/versions/{table}/{recordId}/{version}": {
            "get": {
                "tags": ["Governance"],
                "summary": "Fetch one exact version of a record",
                "parameters": [
                    {"name": "table", "in": "path", "required": true, "type": "string"},
                    {"name": "recordId", "in": "path", "required": true, "type": "string"},
                    {"name": "version", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Version not recorded"}
                }
            }
        },
        "/api/v1/governance/interactions": {
            "get": {
                "tags": ["Governance"],
                "summary": "List interaction events",
                "parameters": [
                    {"name": "entity_type", "in": "query", "type": "string"},
                    {"name": "entity_id", "in": "query", "type": "string"},
                    {"name": "interaction_type", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/metadata/{table}/{recordId}": {
            "get": {
                "tags": ["Governance"],
                "summary": "Fetch the quality annotation for a record",
                "parameters": [
                    {"name": "table", "in": "path", "required": true, "type": "string"},
                    {"name": "recordId", "in": "path", "required": true, "type": "string"},
                    {"name": "field", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No annotation recorded"}
                }
            },
            "put": {
                "tags": ["Governance"],
                "summary": "Create or replace the quality annotation for a record",
                "parameters": [
                    {"name": "table", "in": "path", "required": true, "type": "string"},
                    {"name": "recordId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MetadataRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/data-quality": {
            "get": {
                "tags": ["Governance"],
                "summary": "Data-quality tier distribution",
                "parameters": [
                    {"name": "table", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/reports/audit-summary": {
            "get": {
                "tags": ["Governance"],
                "summary": "Audit activity summary for a trailing window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/reports/access-summary": {
            "get": {
                "tags": ["Governance"],
                "summary": "Authentication activity summary for a trailing window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/reports/interaction-summary": {
            "get": {
                "tags": ["Governance"],
                "summary": "Telemetry summary for a trailing window",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/reports": {
            "post": {
                "tags": ["Governance"],
                "summary": "Persist a named governance report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/reports/{id}": {
            "get": {
                "tags": ["Governance"],
                "summary": "Fetch one persisted governance report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/governance/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a trail export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/governance/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/octet-stream"],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Unknown or expired token"}
                }
            }
        },
        "/api/v1/governance/system-metrics": {
            "get": {
                "tags": ["Governance"],
                "summary": "Aggregated runtime metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "InteractionRequest": {
            "type": "object",
            "properties": {
                "interaction_type": {"type": "string"},
                "entity_type": {"type": "string"},
                "entity_id": {"type": "string"},
                "metadata": {"type": "object"}
            },
            "required": ["interaction_type", "entity_type"]
        },
        "MetadataRequest": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "quality": {"type": "string"},
                "source": {"type": "string"},
                "comments": {"type": "string"},
                "tags": {"type": "object"}
            },
            "required": ["quality"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "report_type": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "report_data": {"type": "object"},
                "period_start": {"type": "string", "format": "date-time"},
                "period_end": {"type": "string", "format": "date-time"}
            },
            "required": ["report_type", "title"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "source": {"type": "string", "enum": ["audit_trail", "access_logs", "interactions"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "window_days": {"type": "integer"}
            },
            "required": ["source", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
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
