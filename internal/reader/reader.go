// Package reader loads source file content safely: existence and
// regular-file checks, a size ceiling, and multi-encoding decode fallback.
// Every failure mode is recoverable; callers receive ok=false and the run
// continues.
package reader

import (
	"bytes"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/atlasview/codeatlas/internal/guard"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader reads files under the configured limits.
type Reader struct {
	limits guard.Limits
	logger *log.Logger
}

// New returns a Reader bounded by limits. logger may be nil.
func New(limits guard.Limits, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Reader{limits: limits, logger: logger}
}

// Read returns the decoded content of path, or ok=false when the path is
// missing, not a regular file, too large, unreadable, or undecodable.
// Decoding tries UTF-8 (with or without BOM) first, then Windows-1252,
// then Latin-1; the first successful decode wins.
func (r *Reader) Read(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		r.logger.Warn("file not found", "path", path, "err", err)
		return "", false
	}
	if !info.Mode().IsRegular() {
		r.logger.Warn("not a regular file", "path", path)
		return "", false
	}
	if err := guard.CheckFileSize(path, r.limits.MaxFileSizeMB); err != nil {
		r.logger.Warn("file too large", "path", path, "size", info.Size())
		return "", false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		// Permission errors land here and are recoverable.
		r.logger.Warn("read failed", "path", path, "err", err)
		return "", false
	}

	return decode(raw)
}

// decode attempts the ordered encoding list and returns the first
// successful decode. Windows-1252 runs before Latin-1: it maps the
// 0x80-0x9F range to real glyphs where Latin-1 yields control characters,
// and Latin-1 accepts every byte sequence so nothing after it would ever
// be tried.
func decode(raw []byte) (string, bool) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), true
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		if decoded, err := cm.NewDecoder().Bytes(raw); err == nil {
			return string(decoded), true
		}
	}
	return "", false
}
