// Package config provides centralized configuration management for the
// Advisor ingestion service.
//
// Configuration is loaded from environment variables (prefix ADVISOR)
// layered over an optional YAML file; environment values win. The
// IngestConfig section carries every pipeline ceiling (upload size, row
// count, cell length) so that a single hostile upload cannot exhaust the
// worker processing it.
package config
