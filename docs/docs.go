// Package docs holds the OpenAPI document served at /docs. Regenerate with
// `swag init -g cmd/diagnosd/docs.go -o docs` after changing annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "diagnosd maintainers"
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RootResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service health and model load state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/features": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Input feature names of the classical model",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FeaturesResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Configured models and their artifacts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/predict/classical": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Predict a diagnosis group with the logistic regression model",
                "parameters": [
                    {"description": "Feature vector", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PredictRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/predict/quantum": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Predict a diagnosis group with the quantum kernel SVC",
                "description": "Vectors one feature short of the model input are padded at the facility_id position.",
                "parameters": [
                    {"description": "Feature vector", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PredictRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "detail": {"type": "string", "example": "invalid JSON body"},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.FeaturesResponse": {
            "type": "object",
            "properties": {
                "feature_names": {"type": "array", "items": {"type": "string"}},
                "n_features": {"type": "integer", "example": 29}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "object", "additionalProperties": {"type": "string"}},
                "models_loaded": {"type": "object", "additionalProperties": {"type": "boolean"}},
                "status": {"type": "string", "example": "healthy"},
                "versions": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "classes": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"},
                "id": {"type": "string"},
                "kind": {"type": "string", "example": "classical"},
                "loaded": {"type": "boolean"},
                "metrics": {"type": "object", "additionalProperties": {"type": "number"}},
                "n_features": {"type": "integer", "example": 29},
                "name": {"type": "string", "example": "classical"},
                "path": {"type": "string", "example": "models/classical_logistic_regression_FULL.json"},
                "probabilities": {"type": "boolean"},
                "trained_at": {"type": "string"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.PredictRequest": {
            "type": "object",
            "properties": {
                "features": {"type": "array", "items": {"type": "number"}, "example": [1, 0, 0, 38.5, 96, 92]}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "classes": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string", "example": "Prediction successful"},
                "model": {"type": "string", "example": "classical_logistic_regression"},
                "prediction": {"type": "string", "example": "respiratory"},
                "probabilities": {"type": "array", "items": {"type": "number"}}
            }
        },
        "types.RootResponse": {
            "type": "object",
            "properties": {
                "docs": {"type": "string", "example": "/docs"},
                "health": {"type": "string", "example": "/health"},
                "message": {"type": "string", "example": "Health Hub ML Prediction API"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "diagnosd API",
	Description:      "Diagnosis-group prediction with a logistic regression model and a quantum kernel SVC.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
