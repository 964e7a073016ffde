package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportInfo describes a discovered CSV export on disk.
type ExportInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates Advisor CSV exports under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVExports returns all .csv files in dir, sorted oldest-first by
// modification time so batch runs process exports in arrival order.
func (d *Discovery) FindCSVExports(dir string) ([]ExportInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var exports []ExportInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		exports = append(exports, ExportInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(exports, func(i, j int) bool {
		return exports[i].ModTime.Before(exports[j].ModTime)
	})

	return exports, nil
}

// FindByPattern returns the files matching a glob pattern inside dir.
func (d *Discovery) FindByPattern(dir, pattern string) ([]ExportInfo, error) {
	fullPath := d.resolve(dir)

	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var exports []ExportInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		exports = append(exports, ExportInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return exports, nil
}

// LatestExport returns the most recently modified export from a list.
func LatestExport(exports []ExportInfo) (ExportInfo, bool) {
	if len(exports) == 0 {
		return ExportInfo{}, false
	}

	latest := exports[0]
	for _, export := range exports[1:] {
		if export.ModTime.After(latest.ModTime) {
			latest = export
		}
	}

	return latest, true
}

// FilterByModTime keeps exports modified inside the (start, end) window.
func FilterByModTime(exports []ExportInfo, start, end time.Time) []ExportInfo {
	var filtered []ExportInfo
	for _, export := range exports {
		if export.ModTime.After(start) && export.ModTime.Before(end) {
			filtered = append(filtered, export)
		}
	}
	return filtered
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
