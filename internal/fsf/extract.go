package fsf

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// RawEntry is one license entry as recovered from the page, before the
// correction tables run. ID is the anchor fragment, not the display text.
type RawEntry struct {
	ID   string
	Name string
	URIs []string
	Tags map[string]struct{}
}

// Extraction is the extractor's output: entries in first-seen page order
// (cross-listed entries already merged), plus every anchor id seen on the
// page, including anchors with no display text. The normalizer checks the
// splits table against the full anchor set, matching how the page uses
// bare anchors as alias targets.
type Extraction struct {
	Entries []*RawEntry
	Anchors map[string]struct{}

	// NameConflicts holds the display names seen for any anchor id that
	// was claimed by differently titled entries. Cross-listing a license
	// under two sections repeats the same title; different titles mean
	// two licenses are fighting over one anchor.
	NameConflicts map[string][]string

	byID map[string]*RawEntry
}

// Extract walks the page's definition lists top to bottom. Each dl's class
// attribute selects the section tag set; each dt inside it is one entry
// whose a[id] anchor supplies the raw identifier. A titled entry with no
// recoverable anchor is fatal.
func Extract(doc *goquery.Document, sourceURL string, sections map[string]map[string]struct{}) (*Extraction, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("bad source url %q: %w", sourceURL, err)
	}

	ex := &Extraction{
		Anchors:       make(map[string]struct{}),
		NameConflicts: make(map[string][]string),
		byID:          make(map[string]*RawEntry),
	}

	var walkErr error
	doc.Find("dl").EachWithBreak(func(_ int, dl *goquery.Selection) bool {
		class, _ := dl.Attr("class")
		tags, ok := sections[class]
		if !ok {
			// The page is third-party edited; a new section just means
			// no tag, not a failed run.
			slog.Warn("unrecognized section class, entries get no tags", "class", class)
			tags = nil
		}

		dl.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
			walkErr = ex.addEntry(dt, base, class, tags)
			return walkErr == nil
		})
		if walkErr != nil {
			return false
		}

		// Anchors in the prose below an entry are alias targets, not
		// entries. They still count as seen for the splits-table check.
		dl.Find("dd a[id]").Each(func(_ int, a *goquery.Selection) {
			if id, _ := a.Attr("id"); id != "" {
				ex.Anchors[id] = struct{}{}
			}
		})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return ex, nil
}

// addEntry records every identified anchor inside one dt. Anchors without
// display text are alias targets: they count as seen but produce no entry.
func (ex *Extraction) addEntry(dt *goquery.Selection, base *url.URL, section string, tags map[string]struct{}) error {
	anchors := dt.Find("a[id]")
	if anchors.Length() == 0 {
		return &ExtractionError{
			Section: section,
			Name:    cleanName(dt.Nodes[0]),
			Reason:  "entry has no anchor id",
		}
	}

	var err error
	anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		id, _ := a.Attr("id")
		if id == "" {
			err = &ExtractionError{Section: section, Name: cleanName(dt.Nodes[0]), Reason: "entry anchor id is empty"}
			return false
		}
		ex.Anchors[id] = struct{}{}

		name := cleanName(a.Nodes[0])
		if name == "" {
			return true
		}

		uris := []string{base.String() + "#" + id}
		if href, ok := a.Attr("href"); ok && href != "" {
			if resolved := resolveRef(base, href); resolved != "" {
				uris = append(uris, resolved)
			}
		}
		ex.merge(&RawEntry{ID: id, Name: name, URIs: uris, Tags: copyTags(tags)})
		return true
	})
	return err
}

func (ex *Extraction) merge(entry *RawEntry) {
	existing, ok := ex.byID[entry.ID]
	if !ok {
		ex.byID[entry.ID] = entry
		ex.Entries = append(ex.Entries, entry)
		return
	}
	if entry.Name != existing.Name {
		if len(ex.NameConflicts[entry.ID]) == 0 {
			ex.NameConflicts[entry.ID] = append(ex.NameConflicts[entry.ID], existing.Name)
		}
		ex.NameConflicts[entry.ID] = append(ex.NameConflicts[entry.ID], entry.Name)
	}
	// Cross-listed under more than one section: union of tags and uris.
	for tag := range entry.Tags {
		existing.Tags[tag] = struct{}{}
	}
	for _, uri := range entry.URIs {
		if !containsString(existing.URIs, uri) {
			existing.URIs = append(existing.URIs, uri)
		}
	}
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
