package main

// General API documentation for swaggo. Regenerate the docs package with
// `swag init -g cmd/diagnosd/docs.go -o docs`.
//
// @title           diagnosd API
// @version         1.0
// @description     Diagnosis-group prediction with a logistic regression model and a quantum kernel SVC.
//
// @contact.name   diagnosd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
