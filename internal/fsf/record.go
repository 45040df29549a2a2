package fsf

import "sort"

// Tag is one of the fixed compatibility/category labels assigned from page
// section placement plus manual overrides. The enumeration is closed at
// build time; anything else in the dataset is a defect.
const (
	TagGPL2Compatible = "gpl-2-compatible"
	TagGPL3Compatible = "gpl-3-compatible"
	TagFDLCompatible  = "fdl-compatible"
	TagLibre          = "libre"
	TagViewpoint      = "viewpoint"
	TagNonFree        = "non-free"
)

// KnownTags holds the closed tag enumeration.
var KnownTags = map[string]struct{}{
	TagGPL2Compatible: {},
	TagGPL3Compatible: {},
	TagFDLCompatible:  {},
	TagLibre:          {},
	TagViewpoint:      {},
	TagNonFree:        {},
}

// License is one normalized license entry. URIs keep insertion order with
// the source-page anchor first; Tags is a set; Identifiers maps an external
// scheme name to its ids ordered most-canonical first.
type License struct {
	ID          string
	Name        string
	URIs        []string
	Tags        map[string]struct{}
	Identifiers map[string][]string
}

// SortedTags returns the tag set in lexicographic order for serialization.
// Empty sets come back as an empty, non-nil slice so they serialize as [].
func (l *License) SortedTags() []string {
	tags := make([]string, 0, len(l.Tags))
	for tag := range l.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// AddURI appends uri unless already present.
func (l *License) AddURI(uri string) {
	for _, existing := range l.URIs {
		if existing == uri {
			return
		}
	}
	l.URIs = append(l.URIs, uri)
}

// AddTags unions tags into the record's tag set.
func (l *License) AddTags(tags map[string]struct{}) {
	if l.Tags == nil {
		l.Tags = make(map[string]struct{}, len(tags))
	}
	for tag := range tags {
		l.Tags[tag] = struct{}{}
	}
}

func copyTags(tags map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for tag := range tags {
		out[tag] = struct{}{}
	}
	return out
}
