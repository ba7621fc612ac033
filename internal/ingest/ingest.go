// Package ingest loads survey tables from the file formats field teams
// actually deliver: CSV exports, XLSX workbooks and shapefiles. Every loader
// returns the same in-memory table shape so downstream code never cares
// where the rows came from.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrisurvey/soilreport/internal/table"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles.
var ErrUnsupportedFormat = eris.New("ingest: unsupported file format")

// Load reads one survey file, dispatching on the extension.
func Load(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	case ".shp":
		return ReadShapefile(path)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "ingest: load %s", path)
	}
}

// LoadAll reads every path and concatenates the results into one table.
// Files that fail to load are logged and skipped; an error is returned only
// when no file could be read.
func LoadAll(paths []string) (*table.Table, error) {
	var tables []*table.Table
	for _, p := range paths {
		t, err := Load(p)
		if err != nil {
			zap.L().Warn("ingest: skipping unreadable file",
				zap.String("path", p),
				zap.Error(err),
			)
			continue
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, eris.Errorf("ingest: no readable files among %d inputs", len(paths))
	}
	return table.Concat(tables...), nil
}
