// Package manager holds the serving state of the prediction service. It is
// split into small files by concern:
//
//   - manager.go: State, its constructor and read-only getters.
//   - config.go: Config and package defaults.
//   - errors.go: typed errors (IsModelNotLoaded, IsPredictionError).
//   - predict.go: PredictClassical and PredictQuantum, including the
//     quantum input shim and the optional prediction cache.
//   - status_report.go: Health, Features and Models.
//   - events.go: EventPublisher and the publishers shipped with the package.
//
// A State is built once at start-up from registry entries and never
// changes afterwards, so handlers share it without locking. The prediction
// cache is the only mutable part and is synchronised internally.
package manager
