// Package server holds the HTTP server configuration.
//
// The start command reads Address for the Fiber listener, passes ApiKey to
// the auth middleware and uses ShutdownTimeout for graceful shutdown.
package server
