// Package app wires the Advisor ingest service together: configuration,
// logging, metrics, the upload service, and the chi router with its
// middleware chain. It owns the HTTP server lifecycle, including
// graceful shutdown on SIGINT/SIGTERM.
package app
