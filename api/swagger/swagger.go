package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Parabellum Unified Calendar API",
        "description": "Merged, role-filtered timeline of calendar events, time-offs and field interventions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Calendar", "description": "Unified calendar timeline"},
        {"name": "Ops", "description": "Health and readiness probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/calendar/unified": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Unified calendar timeline",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "startDate", "in": "query", "type": "string", "format": "date", "required": true},
                    {"name": "endDate", "in": "query", "type": "string", "format": "date", "required": true, "description": "Inclusive"},
                    {"name": "types", "in": "query", "type": "string", "description": "Comma separated source tags (CALENDAR_EVENT, TIMEOFF, INTERVENTION) or event types"},
                    {"name": "userIds", "in": "query", "type": "string", "description": "Comma separated user ids; restricted to privileged roles"},
                    {"name": "includeTimeOffs", "in": "query", "type": "boolean", "default": true},
                    {"name": "includeInterventions", "in": "query", "type": "boolean", "default": true},
                    {"name": "status", "in": "query", "type": "string", "description": "Comma separated time-off or intervention statuses"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UnifiedCalendarEnvelope"}},
                    "400": {"description": "Invalid window or filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid authentication", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "userIds not allowed for this role", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "A calendar source failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/unified.ics": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Unified calendar as iCalendar",
                "produces": ["text/calendar"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "startDate", "in": "query", "type": "string", "format": "date", "required": true},
                    {"name": "endDate", "in": "query", "type": "string", "format": "date", "required": true},
                    {"name": "types", "in": "query", "type": "string"},
                    {"name": "userIds", "in": "query", "type": "string"},
                    {"name": "includeTimeOffs", "in": "query", "type": "boolean", "default": true},
                    {"name": "includeInterventions", "in": "query", "type": "boolean", "default": true},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "VCALENDAR document", "schema": {"type": "file"}},
                    "400": {"description": "Invalid window or filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "code": {"type": "string"},
                "meta": {"type": "object"}
            }
        },
        "UnifiedEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "TIMEOFF-12"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "sourceTag": {"type": "string", "enum": ["CALENDAR_EVENT", "TIMEOFF", "INTERVENTION"]},
                "type": {"type": "string"},
                "priority": {"type": "string"},
                "isAllDay": {"type": "boolean"},
                "location": {"type": "string"},
                "ownerUserId": {"type": "integer"},
                "ownerDisplay": {"type": "string"},
                "sourcePayload": {"type": "object"}
            }
        },
        "UnifiedCalendarMetadata": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "countsBySource": {"type": "object", "additionalProperties": {"type": "integer"}},
                "window": {"type": "object"},
                "actor": {"type": "object"},
                "override": {"type": "boolean"}
            }
        },
        "UnifiedCalendarEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "events": {"type": "array", "items": {"$ref": "#/definitions/UnifiedEvent"}},
                        "metadata": {"$ref": "#/definitions/UnifiedCalendarMetadata"}
                    }
                },
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
