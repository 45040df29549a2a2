package fsf

import "sort"

// Normalize applies the correction tables to an extraction and returns the
// final record set keyed by identifier. The transform is pure: it reads the
// extraction and tables, mutates neither, and yields the same records no
// matter how often it runs.
//
// Table order is fixed: splits expand or fold raw entries first, then
// external identifiers attach, then tag overrides replace section-derived
// tag sets.
func Normalize(ex *Extraction, tables *Tables) (map[string]*License, error) {
	if err := checkAnchorCollisions(ex, tables); err != nil {
		return nil, err
	}

	records := make(map[string]*License)
	for _, entry := range ex.Entries {
		outputs, ok := tables.Splits[entry.ID]
		if !ok {
			outputs = []string{entry.ID}
		}
		for _, id := range outputs {
			record, seen := records[id]
			if !seen {
				records[id] = &License{
					ID:   id,
					Name: entry.Name,
					URIs: append([]string(nil), entry.URIs...),
					Tags: copyTags(entry.Tags),
				}
				continue
			}
			// Folding a second raw entry into an existing record:
			// union of tags and uris, first name wins.
			record.AddTags(entry.Tags)
			for _, uri := range entry.URIs {
				record.AddURI(uri)
			}
		}
	}

	for id, record := range records {
		if override, ok := tables.TagOverrides[id]; ok {
			record.Tags = copyTags(override)
		}
		if schemes, ok := tables.Identifiers[id]; ok {
			record.Identifiers = make(map[string][]string, len(schemes))
			for scheme, ids := range schemes {
				record.Identifiers[scheme] = append([]string(nil), ids...)
			}
		}
	}

	if err := checkUnusedKeys(ex, tables, records); err != nil {
		return nil, err
	}
	return records, nil
}

// checkAnchorCollisions rejects anchors claimed by differently named
// entries unless the splits table explicitly folds that anchor. Guessing a
// winner would silently attach one license's metadata to another.
func checkAnchorCollisions(ex *Extraction, tables *Tables) error {
	var keys []string
	for id := range ex.NameConflicts {
		if _, resolved := tables.Splits[id]; !resolved {
			keys = append(keys, id)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return &OverrideConflictError{
			Table: "splits",
			Keys:  keys,
			Why:   "anchor claimed by differently named entries and not resolved",
		}
	}
	return nil
}

// checkUnusedKeys catches tables that drifted from the page: a splits key
// whose anchor no longer exists, or an identifiers key that no produced
// record carries.
func checkUnusedKeys(ex *Extraction, tables *Tables, records map[string]*License) error {
	var unused []string
	for key := range tables.Splits {
		if _, ok := ex.Anchors[key]; !ok {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return &OverrideConflictError{Table: "splits", Keys: unused, Why: "key matches no page anchor"}
	}

	for key := range tables.Identifiers {
		if _, ok := records[key]; !ok {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return &OverrideConflictError{Table: "identifiers", Keys: unused, Why: "key matches no produced record"}
	}
	return nil
}
