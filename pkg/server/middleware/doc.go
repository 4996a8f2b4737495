// Package middleware provides the HTTP middleware of the admin server.
//
// The chain, outermost first, is:
//
//	Recovery -> RequestID -> Logging -> tracing -> mux
//
// Recovery is outermost so it also catches panics raised by the other
// layers. RequestID runs before Logging so the completion log line carries
// the request id through the context aware log handler.
package middleware
