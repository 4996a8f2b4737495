// Package health serves the liveness and readiness probes of the admin
// server.
//
// Liveness answers 200 whenever the process can handle a request. Readiness
// runs every registered check concurrently, each bounded by the checker
// timeout, and answers 503 when any of them fails. Results keep registration
// order so probe output is stable.
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.Register("flush", health.FlushAgeCheck(scheduler.LastFlush, cfg.Telemetry.Health.MaxFlushAge))
//	checker.Register("config", health.ConfigReloadCheck(watcher.LastError))
//	checker.Mount(mux, cfg.Telemetry.Health)
package health
