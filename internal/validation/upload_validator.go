package validation

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"advisorcli/internal/config"
	"advisorcli/internal/errors"
	"advisorcli/pkg/contracts/domain"
)

// Binary signatures that must never appear in a CSV upload. Checked
// against the leading bytes regardless of the declared extension or
// content type.
var binarySignatures = [][]byte{
	{'M', 'Z'},                   // PE executable
	{0x7F, 'E', 'L', 'F'},        // ELF executable
	{0xCF, 0xFA, 0xED, 0xFE},     // Mach-O 64-bit
	{'P', 'K', 0x03, 0x04},       // ZIP container (xlsx, jar, apk)
	{0x1F, 0x8B},                 // gzip
	{0x25, 'P', 'D', 'F'},        // PDF
}

// filenameMetaChars are stripped from stored filenames. Path separators
// are handled separately because they also carry traversal meaning.
const filenameMetaChars = "<>|;&$`()'\"*?{}[]!#"

// UploadValidator enforces the upload-level constraints before any byte
// of the file is parsed. It holds only configuration and a logger, so a
// single instance is safe for concurrent use.
type UploadValidator struct {
	logger            *slog.Logger
	maxUploadSize     int64
	allowedExtensions []string
}

// NewUploadValidator creates an upload validator from ingest configuration.
func NewUploadValidator(cfg config.IngestConfig, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		logger:            logger,
		maxUploadSize:     cfg.MaxUploadSize,
		allowedExtensions: cfg.AllowedExtensions,
	}
}

// Check validates the upload constraints and returns the sanitized
// filename safe for storage. The sanitized name plays no part in any
// accept/reject decision; rejection is based on declared size, the
// extension of the declared name, and the actual leading bytes.
func (v *UploadValidator) Check(data []byte, meta domain.UploadMeta) (string, error) {
	if meta.Size > v.maxUploadSize {
		v.logger.Warn("upload rejected: too large",
			slog.Int64("declared_size", meta.Size),
			slog.Int64("limit", v.maxUploadSize))
		return "", errors.NewTooLargeError(meta.Size, v.maxUploadSize)
	}
	// The declared size is untrusted; the buffer itself is authoritative.
	if int64(len(data)) > v.maxUploadSize {
		return "", errors.NewTooLargeError(int64(len(data)), v.maxUploadSize)
	}

	if len(data) == 0 {
		return "", errors.NewEmptyFileError()
	}

	ext := strings.ToLower(filepath.Ext(meta.Filename))
	if !v.extensionAllowed(ext) {
		v.logger.Warn("upload rejected: extension not allowed",
			slog.String("extension", ext),
			slog.String("filename", meta.Filename))
		return "", errors.NewInvalidExtensionError(ext, v.allowedExtensions)
	}

	if sig := sniffBinarySignature(data); sig != "" {
		v.logger.Warn("upload rejected: binary content",
			slog.String("signature", sig),
			slog.String("filename", meta.Filename))
		return "", errors.NewBinaryContentError(sig)
	}

	return SanitizeFilename(meta.Filename), nil
}

func (v *UploadValidator) extensionAllowed(ext string) bool {
	for _, allowed := range v.allowedExtensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// sniffBinarySignature returns a printable form of the matched signature,
// or empty when the leading bytes look like text.
func sniffBinarySignature(data []byte) string {
	for _, sig := range binarySignatures {
		if bytes.HasPrefix(data, sig) {
			printable := make([]byte, 0, len(sig)*4)
			for _, b := range sig {
				if b >= 0x20 && b < 0x7F {
					printable = append(printable, b)
				} else {
					printable = append(printable, []byte("\\x")...)
					const hex = "0123456789abcdef"
					printable = append(printable, hex[b>>4], hex[b&0x0F])
				}
			}
			return string(printable)
		}
	}
	return ""
}

// SanitizeFilename produces a name safe to store and echo back: path
// traversal sequences and separators removed, shell metacharacters
// stripped, control characters dropped, and the result truncated to 255
// bytes without splitting a multi-byte rune.
func SanitizeFilename(name string) string {
	// Keep only the final path element of whatever was declared.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", "")
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7F {
			continue
		}
		if strings.ContainsRune(filenameMetaChars, r) || r == '/' || r == '\\' {
			continue
		}
		b.WriteRune(r)
	}
	name = strings.TrimSpace(b.String())

	if name == "" || name == "." {
		name = "upload.csv"
	}

	for len(name) > config.MaxFilenameBytes {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}

	return name
}
