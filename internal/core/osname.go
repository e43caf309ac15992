package core

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// parenthetical matches everything from the first "(" to the last ")".
	parenthetical = regexp.MustCompile(`\(.*\)`)

	versionNumber = regexp.MustCompile(`\d+(\.\d+)?`)
)

// CleanOSLabel strips parenthesized qualifiers and surrounding whitespace:
// "Windows Server 2022 (LTSC)" becomes "Windows Server 2022".
func CleanOSLabel(raw string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(raw, ""))
}

// OSClass is the short classification of an OS label used for badges.
type OSClass struct {
	Family     string `json:"family"`
	VersionTag string `json:"versionTag"`
	Badge      string `json:"badge,omitempty"` // blue, red, green or empty
}

// osFamily describes one recognized family, tested in slice order.
type osFamily struct {
	name     string
	needles  []string
	badge    string
	windowsy bool
}

var osFamilies = []osFamily{
	{name: "Windows", needles: []string{"Windows"}, badge: "blue", windowsy: true},
	{name: "RHEL", needles: []string{"Red Hat", "RHEL"}, badge: "red"},
	{name: "Ubuntu", needles: []string{"Ubuntu"}, badge: "green"},
	{name: "ESXi", needles: []string{"ESXi"}, badge: "green"},
	{name: "Oracle", needles: []string{"Oracle"}, badge: "red"},
}

var windowsYears = []string{"2025", "2022", "2019"}

// Classify derives the family and version tag of an OS label.
// Windows labels are tagged by release year (2025, 2022, 2019, else "Server");
// other families use the first number found. Unrecognized labels are returned
// as the family with an empty tag.
func Classify(raw string) OSClass {
	if raw == "" {
		return OSClass{Family: "Unknown"}
	}

	for _, fam := range osFamilies {
		if !containsAny(raw, fam.needles) {
			continue
		}
		class := OSClass{Family: fam.name, Badge: fam.badge}
		if fam.windowsy {
			class.VersionTag = "Server"
			for _, year := range windowsYears {
				if strings.Contains(raw, year) {
					class.VersionTag = year
					break
				}
			}
			return class
		}
		class.VersionTag = versionNumber.FindString(raw)
		return class
	}

	return OSClass{Family: raw}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// SortOSLabels returns the distinct labels in natural order: case- and
// accent-insensitive, with digit runs compared numerically ("RHEL 9" < "RHEL 10").
// Ties fall back to byte order so the result is deterministic.
func SortOSLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}

	c := collate.New(language.Und, collate.Numeric, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(out, func(i, j int) bool {
		if r := c.CompareString(out[i], out[j]); r != 0 {
			return r < 0
		}
		return out[i] < out[j]
	})
	return out
}
