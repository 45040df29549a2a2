// Package publish emits the static-JSON dataset: index, aggregate, per-id
// and per-cross-reference documents plus the JSON-LD schema contexts.
package publish

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/licensedb/fsf-api/internal/fsf"
)

const (
	licenseSchemaPath  = "schema/license.jsonld"
	licensesSchemaPath = "schema/licenses.jsonld"
)

// Writer serializes a record set into dir. BaseURI is where the dataset
// will be hosted; it anchors the @context references inside the documents.
type Writer struct {
	dir     string
	baseURI *url.URL
}

func NewWriter(dir, baseURI string) (*Writer, error) {
	base, err := url.Parse(baseURI)
	if err != nil {
		return nil, fmt.Errorf("bad base uri %q: %w", baseURI, err)
	}
	return &Writer{dir: dir, baseURI: base}, nil
}

// Write replaces the dataset under the writer's directory. Output is
// deterministic (sorted keys, two-space indent, trailing newline) and each
// file lands via temp file + rename, so a killed run never leaves a
// half-written document at a final path.
func (w *Writer) Write(records map[string]*fsf.License) (int, error) {
	if err := os.MkdirAll(filepath.Join(w.dir, "schema"), 0o755); err != nil {
		return 0, err
	}
	if err := w.removeStale(); err != nil {
		return 0, err
	}

	written := 0
	emit := func(relPath string, doc any) error {
		if err := w.writeJSON(relPath, doc); err != nil {
			return err
		}
		written++
		return nil
	}

	if err := emit(licenseSchemaPath, licenseSchema()); err != nil {
		return written, err
	}
	if err := emit(licensesSchemaPath, w.licensesSchema()); err != nil {
		return written, err
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := emit("licenses.json", ids); err != nil {
		return written, err
	}

	full := map[string]any{}
	for _, id := range ids {
		record := records[id]
		full[id] = recordDoc(record, false)

		idDoc := recordDoc(record, true)
		idDoc["@context"] = w.resolve(licenseSchemaPath)
		if err := emit(id+".json", idDoc); err != nil {
			return written, err
		}

		// Cross-reference lookups resolve straight to full license
		// data, not to a pointer needing a second hop.
		for scheme, externals := range record.Identifiers {
			if err := os.MkdirAll(filepath.Join(w.dir, scheme), 0o755); err != nil {
				return written, err
			}
			for _, external := range externals {
				if err := emit(filepath.Join(scheme, external+".json"), idDoc); err != nil {
					return written, err
				}
			}
		}
	}

	aggregate := map[string]any{
		"@context": w.resolve(licensesSchemaPath),
		"licenses": full,
	}
	if err := emit("licenses-full.json", aggregate); err != nil {
		return written, err
	}
	return written, nil
}

// recordDoc builds the serializable shape of one record.
func recordDoc(record *fsf.License, withID bool) map[string]any {
	doc := map[string]any{
		"name": record.Name,
		"uris": record.URIs,
		"tags": record.SortedTags(),
	}
	if withID {
		doc["id"] = record.ID
	}
	if len(record.Identifiers) > 0 {
		doc["identifiers"] = record.Identifiers
	}
	return doc
}

func licenseSchema() map[string]any {
	return map[string]any{
		"@context": map[string]any{
			"schema": "https://schema.org/",
			"id":     map[string]any{"@id": "schema:identifier"},
			"name":   map[string]any{"@id": "schema:name"},
			"uris": map[string]any{
				"@container": "@list",
				"@id":        "schema:url",
			},
			"tags": map[string]any{"@id": "schema:keywords"},
			"identifiers": map[string]any{
				"@container": "@index",
				"@id":        "schema:identifier",
			},
		},
	}
}

func (w *Writer) licensesSchema() map[string]any {
	doc := licenseSchema()
	context := doc["@context"].(map[string]any)
	context["licenses"] = map[string]any{
		"@container": "@index",
		"@id":        w.resolve(licenseSchemaPath),
	}
	return doc
}

func (w *Writer) resolve(relPath string) string {
	ref, err := url.Parse(relPath)
	if err != nil {
		return relPath
	}
	return w.baseURI.ResolveReference(ref).String()
}

// removeStale sweeps previously generated documents so identifiers dropped
// upstream do not linger in the published set.
func (w *Writer) removeStale() error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".json" || ext == ".jsonld" {
			return os.Remove(path)
		}
		return nil
	})
}

func (w *Writer) writeJSON(relPath string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", relPath, err)
	}
	data = append(data, '\n')

	final := filepath.Join(w.dir, relPath)
	tmp, err := os.CreateTemp(filepath.Dir(final), ".tmp-"+filepath.Base(relPath))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
