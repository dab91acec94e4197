package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Score Tracker API",
        "description": "Records test scores per subject and lesson slot and serves normalized metrics and weak-topic analysis.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Results", "description": "Score submission and history"},
        {"name": "Curriculum", "description": "Unit lookup per lesson slot"},
        {"name": "Analysis", "description": "Weak topics, trends and subject summaries"},
        {"name": "Meta", "description": "Enumerations and threshold bounds"}
    ],
    "paths": {
        "/meta/enums": {
            "get": {
                "tags": ["Meta"],
                "summary": "Subjects, lesson types, metrics and threshold bounds",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "List enriched test results",
                "parameters": [
                    {"$ref": "#/parameters/LessonTypeFilter"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid lesson type", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/recent": {
            "get": {
                "tags": ["Results"],
                "summary": "List the newest test results",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "Maximum rows (default 20, max 200)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/submit": {
            "post": {
                "tags": ["Results"],
                "summary": "Record scores of one test for several subjects",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-subject outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed, nothing written", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/export": {
            "get": {
                "tags": ["Results"],
                "summary": "Download enriched test results",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"$ref": "#/parameters/LessonTypeFilter"}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/{id}": {
            "delete": {
                "tags": ["Results"],
                "summary": "Delete a test result",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/curriculum/units": {
            "get": {
                "tags": ["Curriculum"],
                "summary": "List curriculum units",
                "description": "With subject, lesson_type and test_number all set, returns the units of that exact slot.",
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string", "enum": ["Japanese", "Math", "Science", "Social Studies"]},
                    {"name": "lesson_type", "in": "query", "type": "string", "enum": ["Regular", "Spring", "Summer", "Winter"]},
                    {"name": "test_number", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/curriculum/test-numbers": {
            "get": {
                "tags": ["Curriculum"],
                "summary": "List selectable test numbers for a lesson type",
                "parameters": [
                    {"name": "lesson_type", "in": "query", "required": true, "type": "string", "enum": ["Regular", "Spring", "Summer", "Winter"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analysis/subjects": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Per-subject averages, worst first",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/analysis/subjects/{subject}/slots": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Slot-by-slot score map of one subject",
                "parameters": [
                    {"name": "subject", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/Threshold"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/analysis/weak-topics": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Results below the relative score threshold",
                "parameters": [
                    {"$ref": "#/parameters/Threshold"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Threshold out of bounds", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analysis/trend": {
            "get": {
                "tags": ["Analysis"],
                "summary": "Chronological metric series per subject",
                "parameters": [
                    {"name": "metric", "in": "query", "type": "string", "enum": ["relative_score", "score_rate", "score"], "default": "relative_score"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"$ref": "#/parameters/LessonTypeFilter"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "parameters": {
        "LessonTypeFilter": {
            "name": "lesson_type",
            "in": "query",
            "type": "array",
            "items": {"type": "string", "enum": ["Regular", "Spring", "Summer", "Winter"]},
            "collectionFormat": "multi"
        },
        "Threshold": {
            "name": "threshold",
            "in": "query",
            "type": "integer",
            "minimum": 30,
            "maximum": 55,
            "description": "Relative score threshold (default 48)"
        }
    },
    "definitions": {
        "SubjectScoreInput": {
            "type": "object",
            "required": ["subject", "score", "average_score", "max_score"],
            "properties": {
                "subject": {"type": "string"},
                "score": {"type": "number"},
                "average_score": {"type": "number"},
                "max_score": {"type": "number"},
                "std_dev": {"type": "number"}
            }
        },
        "SubmitScoreRequest": {
            "type": "object",
            "required": ["lesson_type", "test_number", "scores"],
            "properties": {
                "test_date": {"type": "string", "format": "date"},
                "lesson_type": {"type": "string"},
                "test_number": {"type": "integer"},
                "memo": {"type": "string"},
                "mode": {"type": "string", "enum": ["upsert", "append"]},
                "scores": {"type": "array", "items": {"$ref": "#/definitions/SubjectScoreInput"}}
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
