package types

// PredictRequest is the body of POST /predict/classical and /predict/quantum.
type PredictRequest struct {
	// Feature vector in the order listed by GET /features.
	// example: [1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,1,38.5,96,92,2,1,2,3,1,0,0,1]
	Features []float64 `json:"features" example:"1,0,0,38.5,96,92"`
}

// PredictResponse is returned by both predict endpoints.
type PredictResponse struct {
	// Model that produced the prediction.
	// example: classical_logistic_regression
	Model string `json:"model" example:"classical_logistic_regression"`
	// Predicted diagnosis group.
	// example: respiratory
	Prediction string `json:"prediction" example:"respiratory"`
	// Class probabilities ordered like Classes; null when the model has none.
	Probabilities []float64 `json:"probabilities"`
	// Labels the probabilities refer to.
	Classes []string `json:"classes,omitempty"`
	// example: Prediction successful
	Message string `json:"message" example:"Prediction successful"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	// example: Health Hub ML Prediction API
	Message string `json:"message" example:"Health Hub ML Prediction API"`
	// example: /docs
	Docs string `json:"docs" example:"/docs"`
	// example: /health
	Health string `json:"health" example:"/health"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// example: healthy
	Status string `json:"status" example:"healthy"`
	// Component versions of the running binary.
	Versions map[string]string `json:"versions"`
	// Whether each model artifact loaded at start-up.
	ModelsLoaded map[string]bool `json:"models_loaded"`
	// Load error per model; null when the model loaded.
	Errors map[string]*string `json:"errors"`
}

// FeaturesResponse is returned by GET /features.
type FeaturesResponse struct {
	// example: 29
	NFeatures int `json:"n_features" example:"29"`
	// example: ["symptom_fever","symptom_cough"]
	FeatureNames []string `json:"feature_names"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Same as Error; kept for clients that read FastAPI-style payloads.
	Detail string `json:"detail,omitempty" example:"invalid JSON body"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Configured models and their load state.
	Models []Model `json:"models"`
}
