package fsf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesValidate(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())
}

func TestDefaultTablesShape(t *testing.T) {
	tables := DefaultTables()

	// Section classes cover the page's known annotation colors.
	for _, class := range []string{"blue", "green", "orange", "purple", "red"} {
		assert.Contains(t, tables.SectionTags, class)
	}
	// Every section tag and override tag stays inside the closed set.
	for class, tags := range tables.SectionTags {
		for tag := range tags {
			assert.Contains(t, KnownTags, tag, "section %s", class)
		}
	}

	// Spot-check curated orderings: closest SPDX match first.
	assert.Equal(t, []string{"GPL-3.0-or-later", "GPL-3.0-only", "GPL-3.0", "GPL-3.0+"},
		tables.Identifiers["GNUGPLv3"][SchemeSPDX])
	assert.Equal(t, []string{"MIT"}, tables.Identifiers["Expat"][SchemeSPDX])

	// The FDL/FDLOther pair folds to the same versions.
	assert.Equal(t, tables.Splits["FDL"], tables.Splits["FDLOther"])
}

func TestTablesValidateEmptySplit(t *testing.T) {
	tables := emptyTables()
	tables.Splits["Broken"] = nil

	var oce *OverrideConflictError
	require.ErrorAs(t, tables.Validate(), &oce)
	assert.Equal(t, "splits", oce.Table)
	assert.Equal(t, []string{"Broken"}, oce.Keys)
}

func TestTablesValidateSplitMergeConflict(t *testing.T) {
	tables := emptyTables()
	// Alias folds into Parent, but Parent expands into versions that do
	// not include itself: the fold has no destination.
	tables.Splits["Parent"] = []string{"Parent-1.0", "Parent-2.0"}
	tables.Splits["Alias"] = []string{"Parent"}

	var oce *OverrideConflictError
	require.ErrorAs(t, tables.Validate(), &oce)
	assert.Equal(t, "splits", oce.Table)
	assert.Equal(t, []string{"Alias"}, oce.Keys)

	// Self-inclusive expansion keeps the fold valid.
	tables.Splits["Parent"] = []string{"Parent", "Parent-2.0"}
	require.NoError(t, tables.Validate())
}

func TestTablesValidateEmptyIdentifier(t *testing.T) {
	tables := emptyTables()
	tables.Identifiers["Broken"] = map[string][]string{SchemeSPDX: {""}}

	var oce *OverrideConflictError
	require.ErrorAs(t, tables.Validate(), &oce)
	assert.Equal(t, "identifiers", oce.Table)
}

func TestTablesValidateUnknownOverrideTag(t *testing.T) {
	tables := emptyTables()
	tables.TagOverrides["Broken"] = tagSet("made-up-tag")

	var oce *OverrideConflictError
	require.ErrorAs(t, tables.Validate(), &oce)
	assert.Equal(t, "tag-overrides", oce.Table)
}
