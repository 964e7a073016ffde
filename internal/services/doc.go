// Package services implements the business logic layer between the HTTP
// handlers and the ingestion pipeline.
//
// Services follow these principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Error transformation at the layer boundary
//
// UploadService owns the lifecycle of one uploaded Advisor export: it
// runs the ingestion pipeline, retains the result in an in-memory store
// keyed by upload ID, and serves per-format exports of retained results.
package services
