package config

import "advisorcli/pkg/contracts"

// Application constants shared across executables
const (
	// Application Info
	AppName    = "Advisor Ingest"
	AppVersion = contracts.Version

	// Filename sanitization
	MaxFilenameBytes = 255

	// Upload hard ceilings used when no configuration is supplied
	DefaultMaxUploadSize = 50 << 20
	DefaultMaxRows       = 20000
	DefaultMaxCellChars  = 10000
)
