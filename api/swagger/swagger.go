package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Enrollment Summary API",
        "description": "Read-only enrollment reporting for staff tooling",
        "version": "1.0.0"
    },
    "basePath": "/api/enrollments",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Summaries", "description": "Enrollment summary reporting"}
    ],
    "paths": {
        "/summary": {
            "get": {
                "tags": ["Summaries"],
                "summary": "List enrollment summaries",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "integer"},
                    {"name": "active", "in": "query", "type": "string"},
                    {"name": "course_key", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SummaryPage"}},
                    "400": {"description": "Invalid parameter", "schema": {"$ref": "#/definitions/APIError"}},
                    "401": {"description": "Unauthenticated"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/summary/users/{id}/stats": {
            "get": {
                "tags": ["Summaries"],
                "summary": "Enrollment statistics for one user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserEnrollmentStats"}},
                    "400": {"description": "Unknown user", "schema": {"$ref": "#/definitions/APIError"}},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    },
    "definitions": {
        "EnrollmentSummary": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "username": {"type": "string"},
                "course_key": {"type": "string"},
                "course_title": {"type": "string"},
                "enrollment_status": {"type": "string", "enum": ["active", "inactive"]},
                "enrollment_mode": {"type": "string"},
                "is_active": {"type": "boolean"},
                "created_date": {"type": "string", "format": "date-time"},
                "graded_subsections_count": {"type": "integer"},
                "course_start": {"type": "string", "format": "date-time", "x-nullable": true},
                "course_end": {"type": "string", "format": "date-time", "x-nullable": true}
            }
        },
        "SummaryPage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "next": {"type": "string", "x-nullable": true},
                "previous": {"type": "string", "x-nullable": true},
                "results": {"type": "array", "items": {"$ref": "#/definitions/EnrollmentSummary"}}
            }
        },
        "UserEnrollmentStats": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "username": {"type": "string"},
                "total_enrollments": {"type": "integer"},
                "active_enrollments": {"type": "integer"},
                "inactive_enrollments": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
