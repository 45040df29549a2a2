package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/licensedb/fsf-api/internal/fsf"
)

const testBaseURI = "https://licenses.example.org/fsf-api/"

func testRecords() map[string]*fsf.License {
	return map[string]*fsf.License{
		"Expat": {
			ID:   "Expat",
			Name: "Expat License",
			URIs: []string{"https://www.gnu.org/licenses/license-list.html#Expat"},
			Tags: map[string]struct{}{
				fsf.TagGPL2Compatible: {},
				fsf.TagGPL3Compatible: {},
				fsf.TagLibre:          {},
			},
			Identifiers: map[string][]string{fsf.SchemeSPDX: {"MIT"}},
		},
		"FreeBSD": {
			ID:   "FreeBSD",
			Name: "FreeBSD license",
			URIs: []string{"https://www.gnu.org/licenses/license-list.html#FreeBSD"},
			Tags: map[string]struct{}{fsf.TagLibre: {}},
			Identifiers: map[string][]string{
				fsf.SchemeSPDX: {"BSD-2-Clause-FreeBSD", "BSD-2-Clause"},
			},
		},
		"Mystery": {
			ID:   "Mystery",
			Name: "Mystery License",
			URIs: []string{"https://www.gnu.org/licenses/license-list.html#Mystery"},
		},
	}
}

func writeTestSet(t *testing.T) (string, int) {
	t.Helper()
	dir := t.TempDir()
	writer, err := NewWriter(dir, testBaseURI)
	require.NoError(t, err)
	written, err := writer.Write(testRecords())
	require.NoError(t, err)
	return dir, written
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestWriteIndex(t *testing.T) {
	dir, _ := writeTestSet(t)

	data, err := os.ReadFile(filepath.Join(dir, "licenses.json"))
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	assert.Equal(t, []string{"Expat", "FreeBSD", "Mystery"}, ids)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestWriteAggregateMatchesIndex(t *testing.T) {
	dir, _ := writeTestSet(t)

	full := readJSON(t, filepath.Join(dir, "licenses-full.json"))
	assert.Equal(t, testBaseURI+"schema/licenses.jsonld", full["@context"])

	licenses, ok := full["licenses"].(map[string]any)
	require.True(t, ok)
	require.Len(t, licenses, 3)

	for id, value := range licenses {
		fields, ok := value.(map[string]any)
		require.True(t, ok)
		// The aggregate drops the redundant id key.
		assert.NotContains(t, fields, "id", "aggregate value for %s", id)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "uris")
		assert.Contains(t, fields, "tags")
	}
}

func TestWritePerIDDocument(t *testing.T) {
	dir, _ := writeTestSet(t)

	doc := readJSON(t, filepath.Join(dir, "Expat.json"))
	assert.Equal(t, "Expat", doc["id"])
	assert.Equal(t, "Expat License", doc["name"])
	assert.Equal(t, testBaseURI+"schema/license.jsonld", doc["@context"])
	assert.Equal(t, []any{"gpl-2-compatible", "gpl-3-compatible", "libre"}, doc["tags"])
	assert.Equal(t, map[string]any{"spdx": []any{"MIT"}}, doc["identifiers"])
}

func TestWriteEmptyTagsSerializeAsList(t *testing.T) {
	dir, _ := writeTestSet(t)

	doc := readJSON(t, filepath.Join(dir, "Mystery.json"))
	assert.Equal(t, []any{}, doc["tags"])
	assert.NotContains(t, doc, "identifiers")
}

func TestWriteCrossReferenceFiles(t *testing.T) {
	dir, _ := writeTestSet(t)

	idData, err := os.ReadFile(filepath.Join(dir, "Expat.json"))
	require.NoError(t, err)
	refData, err := os.ReadFile(filepath.Join(dir, "spdx", "MIT.json"))
	require.NoError(t, err)
	// Cross-reference lookups resolve to the full license document.
	assert.Equal(t, idData, refData)

	for _, external := range []string{"BSD-2-Clause-FreeBSD", "BSD-2-Clause"} {
		_, err := os.Stat(filepath.Join(dir, "spdx", external+".json"))
		assert.NoError(t, err, external)
	}
}

func TestWriteSchemaDocuments(t *testing.T) {
	dir, _ := writeTestSet(t)

	schema := readJSON(t, filepath.Join(dir, "schema", "license.jsonld"))
	context, ok := schema["@context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://schema.org/", context["schema"])
	assert.NotContains(t, context, "licenses")

	aggregate := readJSON(t, filepath.Join(dir, "schema", "licenses.jsonld"))
	context, ok = aggregate["@context"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, context, "licenses")
}

func TestWriteSweepsStaleFiles(t *testing.T) {
	dir, _ := writeTestSet(t)

	// Simulate an identifier that disappears upstream.
	stale := filepath.Join(dir, "Vanished.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}\n"), 0o644))
	staleRef := filepath.Join(dir, "spdx", "VANISHED.json")
	require.NoError(t, os.WriteFile(staleRef, []byte("{}\n"), 0o644))

	writer, err := NewWriter(dir, testBaseURI)
	require.NoError(t, err)
	_, err = writer.Write(testRecords())
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, staleRef)
	assert.FileExists(t, filepath.Join(dir, "Expat.json"))
}

func TestWriteDeterministic(t *testing.T) {
	dirA, writtenA := writeTestSet(t)
	dirB, writtenB := writeTestSet(t)
	assert.Equal(t, writtenA, writtenB)

	for _, name := range []string{"licenses.json", "licenses-full.json", "Expat.json", "FreeBSD.json"} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir, _ := writeTestSet(t)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if !info.IsDir() {
			assert.NotContains(t, filepath.Base(path), ".tmp-")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNewWriterBadBaseURI(t *testing.T) {
	_, err := NewWriter(t.TempDir(), "://bad")
	require.Error(t, err)
}
