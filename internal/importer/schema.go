// Package importer reads and writes standalone snapshot documents used to
// move tracker state between machines and backends.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the current document layout version.
const DocumentVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
}

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the top-level structure of an exported snapshot.
type Document struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	State      *domain.Snapshot `json:"state" yaml:"state"`
}

// NewDocument wraps snap for export.
func NewDocument(snap *domain.Snapshot, exportedAt time.Time) *Document {
	return &Document{
		Version:    DocumentVersion,
		ExportedAt: exportedAt.UTC(),
		State:      snap.Clone(),
	}
}

// LoadDocument reads a document from path, choosing the format by extension.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, FormatFromPath(path))
}

// ParseDocument decodes data. A JSON payload without a "state" key is tried
// as a raw browser-storage blob before giving up.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml document: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing json document: %w", err)
		}
		if doc.State == nil {
			snap, err := ConvertLegacy(data)
			if err != nil {
				return nil, err
			}
			return &Document{Version: DocumentVersion, State: snap}, nil
		}
	}
	if doc.State == nil {
		return nil, fmt.Errorf("document has no state")
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", doc.Version, DocumentVersion)
	}
	doc.State = doc.State.Clone()
	return &doc, nil
}

// EncodeDocument serialises doc in the given format.
func EncodeDocument(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding yaml document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml document: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json document: %w", err)
		}
		return append(data, '\n'), nil
	}
}
