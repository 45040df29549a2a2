package fsf

import "sort"

// SchemeSPDX is the external identifier scheme the cross-reference table
// currently maps to.
const SchemeSPDX = "spdx"

// Tables bundles the three manual correction tables. They are curated
// configuration data, loaded once per run and handed to Normalize
// explicitly so the transform stays pure.
type Tables struct {
	// Splits expands one raw page identifier into several logical
	// licenses. Two raw identifiers expanding to the same output id is a
	// deliberate merge (union of uris and tags).
	Splits map[string][]string

	// TagOverrides replaces the section-derived tag set for identifiers
	// where the page's structure under-specifies, e.g. collapsing the
	// green section's gpl-2+3 pair down to the version the prose names.
	TagOverrides map[string]map[string]struct{}

	// Identifiers maps a normalized identifier to external-scheme ids,
	// ordered closest match first.
	Identifiers map[string]map[string][]string

	// SectionTags maps a page section class to the tag set it implies.
	SectionTags map[string]map[string]struct{}
}

func tagSet(tags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

func spdx(ids ...string) map[string][]string {
	return map[string][]string{SchemeSPDX: ids}
}

// DefaultTables returns the curated correction tables for the FSF list.
func DefaultTables() *Tables {
	return &Tables{
		SectionTags: map[string]map[string]struct{}{
			"blue":   tagSet(TagViewpoint),
			"green":  tagSet(TagGPL2Compatible, TagGPL3Compatible, TagLibre),
			"orange": tagSet(TagLibre),
			"purple": tagSet(TagFDLCompatible, TagLibre),
			"red":    tagSet(TagNonFree),
		},
		Splits: map[string][]string{
			// all versions through 3.0
			"AcademicFreeLicense": {
				"AcademicFreeLicense1.1",
				"AcademicFreeLicense1.2",
				"AcademicFreeLicense2.0",
				"AcademicFreeLicense2.1",
				"AcademicFreeLicense3.0",
			},
			// any version (!)
			"CC-BY-NC": {
				"CC-BY-NC-1.0",
				"CC-BY-NC-2.0",
				"CC-BY-NC-2.5",
				"CC-BY-NC-3.0",
				"CC-BY-NC-4.0",
			},
			// any version
			"CC-BY-ND": {
				"CC-BY-ND-1.0",
				"CC-BY-ND-2.0",
				"CC-BY-ND-2.5",
				"CC-BY-ND-3.0",
				"CC-BY-ND-4.0",
			},
			"ccbynd": {"CC-BY-ND-4.0"}, // unify (multi-tag)
			"FDL": {
				"FDLv1.1",
				"FDLv1.2",
				"FDLv1.3",
			},
			// unify with FDL (multi-tag)
			"FDLOther": {
				"FDLv1.1",
				"FDLv1.2",
				"FDLv1.3",
			},
			"FreeBSDDL": {"FreeBSD"}, // unify (multi-tag)
			// versions 1.0 and 1.1
			"NPL": {
				"NPL-1.0",
				"NPL-1.1",
			},
			// any version through 3.0
			"OSL": {
				"OSL-1.0",
				"OSL-1.1",
				"OSL-2.0",
				"OSL-2.1",
				"OSL-3.0",
			},
			// 1.6b1 through 2.0 and 2.1
			"PythonOld": {
				"Python1.6b1",
				"Python2.0",
				"Python2.1",
			},
			// title has 1.1 but text says the same metadata applies to 1.0
			"SILOFL": {
				"SILOFL-1.0",
				"SILOFL-1.1",
			},
			// versions 2.0 and 2.1
			"Zope2.0": {
				"Zope2.0",
				"Zope2.1",
			},
		},
		TagOverrides: map[string]map[string]struct{}{
			"AGPLv3.0": tagSet(TagLibre, TagGPL3Compatible),
			"ECL2.0":   tagSet(TagLibre, TagGPL3Compatible),
			"freetype": tagSet(TagLibre, TagGPL3Compatible),
			"GNUGPLv3": tagSet(TagLibre, TagGPL3Compatible),
			"GPLv2":    tagSet(TagLibre, TagGPL2Compatible),
			"LGPLv3":   tagSet(TagLibre, TagGPL3Compatible),
		},
		Identifiers: map[string]map[string][]string{
			"AGPLv1.0":               spdx("AGPL-1.0"),
			"AGPLv3.0":               spdx("AGPL-3.0-or-later", "AGPL-3.0-only", "AGPL-3.0"),
			"AcademicFreeLicense1.1": spdx("AFL-1.1"),
			"AcademicFreeLicense1.2": spdx("AFL-1.2"),
			"AcademicFreeLicense2.0": spdx("AFL-2.0"),
			"AcademicFreeLicense2.1": spdx("AFL-2.1"),
			"AcademicFreeLicense3.0": spdx("AFL-3.0"),
			"Aladdin":                spdx("Aladdin"),
			"apache1.1":              spdx("Apache-1.1"),
			"apache1":                spdx("Apache-1.0"),
			"apache2":                spdx("Apache-2.0"),
			"apsl1":                  spdx("APSL-1.0"),
			"apsl2":                  spdx("APSL-2.0"),
			"ArtisticLicense":        spdx("Artistic-1.0"),
			"ArtisticLicense2":       spdx("Artistic-2.0"),
			"BerkeleyDB":             spdx("Sleepycat"),
			"bittorrent":             spdx("BitTorrent-1.1"),
			"boost":                  spdx("BSL-1.0"),
			"ccby":                   spdx("CC-BY-4.0"),
			"CC-BY-NC-1.0":           spdx("CC-BY-NC-1.0"),
			"CC-BY-NC-2.0":           spdx("CC-BY-NC-2.0"),
			"CC-BY-NC-2.5":           spdx("CC-BY-NC-2.5"),
			"CC-BY-NC-3.0":           spdx("CC-BY-NC-3.0"),
			"CC-BY-NC-4.0":           spdx("CC-BY-NC-4.0"),
			"CC-BY-ND-1.0":           spdx("CC-BY-ND-1.0"),
			"CC-BY-ND-2.0":           spdx("CC-BY-ND-2.0"),
			"CC-BY-ND-2.5":           spdx("CC-BY-ND-2.5"),
			"CC-BY-ND-3.0":           spdx("CC-BY-ND-3.0"),
			"CC-BY-ND-4.0":           spdx("CC-BY-ND-4.0"),
			"ccbysa":                 spdx("CC-BY-SA-4.0"),
			"CC0":                    spdx("CC0-1.0"),
			"CDDL":                   spdx("CDDL-1.0"),
			"CPAL":                   spdx("CPAL-1.0"),
			"CeCILL":                 spdx("CECILL-2.0"),
			"CeCILL-B":               spdx("CECILL-B"),
			"CeCILL-C":               spdx("CECILL-C"),
			"ClarifiedArtistic":      spdx("ClArtistic"),
			"clearbsd":               spdx("BSD-3-Clause-Clear"),
			"CommonPublicLicense10":  spdx("CPL-1.0"),
			"cpol":                   spdx("CPOL-1.02"),
			"Condor":                 spdx("Condor-1.1"),
			"ECL2.0":                 spdx("ECL-2.0"),
			"eCos11":                 spdx("RHeCos-1.1"),
			"eCos2.0":                spdx("GPL-2.0+ WITH eCos-exception-2.0", "eCos-2.0"),
			"EPL":                    spdx("EPL-1.0"),
			"EPL2":                   spdx("EPL-2.0"),
			"EUDataGrid":             spdx("EUDatagrid"),
			"EUPL-1.1":               spdx("EUPL-1.1"),
			"EUPL-1.2":               spdx("EUPL-1.2"),
			"Eiffel":                 spdx("EFL-2.0"),
			"Expat":                  spdx("MIT"),
			"FDLv1.1":                spdx("GFDL-1.1-or-later", "GFDL-1.1-only", "GFDL-1.1"),
			"FDLv1.2":                spdx("GFDL-1.2-or-later", "GFDL-1.2-only", "GFDL-1.2"),
			"FDLv1.3":                spdx("GFDL-1.3-or-later", "GFDL-1.3-only", "GFDL-1.3"),
			"FreeBSD":                spdx("BSD-2-Clause-FreeBSD", "BSD-2-Clause", "BSD-2-Clause-NetBSD"),
			"freetype":               spdx("FTL"),
			"GNUAllPermissive":       spdx("FSFAP"),
			"GNUGPLv3":               spdx("GPL-3.0-or-later", "GPL-3.0-only", "GPL-3.0", "GPL-3.0+"),
			"gnuplot":                spdx("gnuplot"),
			"GPLv2":                  spdx("GPL-2.0-or-later", "GPL-2.0-only", "GPL-2.0", "GPL-2.0+"),
			"HPND":                   spdx("HPND"),
			"IBMPL":                  spdx("IPL-1.0"),
			"iMatix":                 spdx("iMatix"),
			"imlib":                  spdx("Imlib2"),
			"ijg":                    spdx("IJG"),
			"intel":                  spdx("Intel"),
			"IPAFONT":                spdx("IPA"),
			"ISC":                    spdx("ISC"),
			"JSON":                   spdx("JSON"),
			"LGPLv3":                 spdx("LGPL-3.0-or-later", "LGPL-3.0-only", "LGPL-3.0", "LGPL-3.0+"),
			"LGPLv2.1":               spdx("LGPL-2.1-or-later", "LGPL-2.1-only", "LGPL-2.1", "LGPL-2.1+"),
			"LPPL-1.2":               spdx("LPPL-1.2"),
			"LPPL-1.3a":              spdx("LPPL-1.3a"),
			"lucent102":              spdx("LPL-1.02"),
			"ModifiedBSD":            spdx("BSD-3-Clause"),
			"MPL":                    spdx("MPL-1.1"),
			"MPL-2.0":                spdx("MPL-2.0"),
			"ms-pl":                  spdx("MS-PL"),
			"ms-rl":                  spdx("MS-RL"),
			"NASA":                   spdx("NASA-1.3"),
			"NCSA":                   spdx("NCSA"),
			"newOpenLDAP":            spdx("OLDAP-2.7"),
			"Nokia":                  spdx("Nokia"),
			"NoLicense":              spdx("NONE"),
			"NOSL":                   spdx("NOSL"),
			"NPL-1.0":                spdx("NPL-1.0"),
			"NPL-1.1":                spdx("NPL-1.1"),
			"ODbl":                   spdx("ODbL-1.0"),
			"oldOpenLDAP":            spdx("OLDAP-2.3"),
			"OpenPublicL":            spdx("OPL-1.0"),
			"OpenSSL":                spdx("OpenSSL"),
			"OriginalBSD":            spdx("BSD-4-Clause"),
			"OSL-1.0":                spdx("OSL-1.0"),
			"OSL-1.1":                spdx("OSL-1.1"),
			"OSL-2.0":                spdx("OSL-2.0"),
			"OSL-2.1":                spdx("OSL-2.1"),
			"OSL-3.0":                spdx("OSL-3.0"),
			"PHP-3.01":               spdx("PHP-3.01"),
			"Python2.0":              spdx("Python-2.0"),
			"QPL":                    spdx("QPL-1.0"),
			"RPSL":                   spdx("RPSL-1.0"),
			"Ruby":                   spdx("Ruby"),
			"SGIFreeB":               spdx("SGI-B-2.0"),
			"SILOFL-1.0":             spdx("OFL-1.0"),
			"SILOFL-1.1":             spdx("OFL-1.1"),
			"SPL":                    spdx("SPL-1.0"),
			"StandardMLofNJ":         spdx("SMLNJ", "StandardML-NJ"),
			"Unlicense":              spdx("Unlicense"),
			"UPL":                    spdx("UPL-1.0"),
			"Vim":                    spdx("Vim"),
			"W3C":                    spdx("W3C"),
			"Watcom":                 spdx("Watcom-1.0"),
			"WTFPL":                  spdx("WTFPL"),
			"X11License":             spdx("X11"),
			"XFree861.1License":      spdx("XFree86-1.1"),
			"xinetd":                 spdx("xinetd"),
			"Yahoo":                  spdx("YPL-1.1"),
			"Zend":                   spdx("Zend-2.0"),
			"Zimbra":                 spdx("Zimbra-1.3"),
			"ZLib":                   spdx("Zlib", "Nunit"),
			"Zope2.0":                spdx("ZPL-2.0"),
			"Zope2.1":                spdx("ZPL-2.1"),
		},
	}
}

// Validate checks the tables for internal defects: empty split expansions,
// empty external identifiers, and tag overrides outside the closed
// enumeration. Run before the pipeline so table bugs fail fast.
func (t *Tables) Validate() error {
	var bad []string
	for key, outputs := range t.Splits {
		if len(outputs) == 0 {
			bad = append(bad, key)
			continue
		}
		for _, id := range outputs {
			if id == "" {
				bad = append(bad, key)
				break
			}
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &OverrideConflictError{Table: "splits", Keys: bad, Why: "empty expansion"}
	}

	// A key folded into a target that itself expands away points at a
	// record that will never exist: split and merge directions conflict.
	for key, outputs := range t.Splits {
		for _, id := range outputs {
			if id == key {
				continue
			}
			targets, ok := t.Splits[id]
			if !ok {
				continue
			}
			if !containsString(targets, id) {
				bad = append(bad, key)
				break
			}
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &OverrideConflictError{Table: "splits", Keys: bad, Why: "merge target expands away"}
	}

	for key, schemes := range t.Identifiers {
		for _, ids := range schemes {
			if len(ids) == 0 {
				bad = append(bad, key)
				break
			}
			for _, id := range ids {
				if id == "" {
					bad = append(bad, key)
					break
				}
			}
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &OverrideConflictError{Table: "identifiers", Keys: bad, Why: "empty identifier"}
	}

	for key, tags := range t.TagOverrides {
		for tag := range tags {
			if _, ok := KnownTags[tag]; !ok {
				bad = append(bad, key)
				break
			}
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &OverrideConflictError{Table: "tag-overrides", Keys: bad, Why: "tag outside the known set"}
	}
	return nil
}
