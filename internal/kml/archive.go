package kml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// ErrNotArchive indicates the input is not a readable zip archive.
var ErrNotArchive = errors.New("not a valid kmz archive")

// ParseArchive parses a KMZ byte buffer: every inner ".kml" entry is parsed
// as a KML document and the resulting features are appended in archive
// directory order. A malformed entry is logged and contributes nothing; it
// does not abort the rest of the archive.
func ParseArchive(data []byte, logger *slog.Logger) ([]*geojson.Feature, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	return parseEntries(zr.File, logger)
}

// ParseArchiveFile is ParseArchive for a KMZ on disk.
func ParseArchiveFile(path string, logger *slog.Logger) ([]*geojson.Feature, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	defer zr.Close()
	return parseEntries(zr.File, logger)
}

func parseEntries(files []*zip.File, logger *slog.Logger) ([]*geojson.Feature, error) {
	var features []*geojson.Feature
	for _, f := range files {
		if !strings.HasSuffix(f.Name, ".kml") {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			logger.Warn("skipping unreadable archive entry", "entry", f.Name, "error", err)
			continue
		}
		entryFeatures, err := ParseDocument(data)
		if err != nil {
			logger.Warn("skipping malformed kml entry", "entry", f.Name, "error", err)
			continue
		}
		features = append(features, entryFeatures...)
	}
	return features, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
