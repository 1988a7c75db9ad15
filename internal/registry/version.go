package registry

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two mod versions.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2. An unparseable version sorts first.
func CompareVersions(v1, v2 string) int {
	a, errA := semver.NewVersion(v1)
	b, errB := semver.NewVersion(v2)

	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return a.Compare(b)
}

// IsOutdated reports whether a page was written against an older mod version
// than current. Pages without metadata are always outdated.
func IsOutdated(page Page, current string) bool {
	if page.Meta == nil {
		return true
	}
	return CompareVersions(page.Meta.ModVersion, current) < 0
}

// VersionDifference describes how far pageVersion lags behind current
func VersionDifference(pageVersion, current string) string {
	switch CompareVersions(pageVersion, current) {
	case 0:
		return "up to date"
	case 1:
		return "ahead (beta)"
	}

	p, errP := semver.NewVersion(pageVersion)
	c, errC := semver.NewVersion(current)
	if errP != nil || errC != nil {
		return "slightly outdated"
	}

	if p.Major() < c.Major() {
		return plural(c.Major()-p.Major(), "major")
	}
	if p.Minor() < c.Minor() {
		return plural(c.Minor()-p.Minor(), "minor")
	}
	return "slightly outdated"
}

func plural(diff uint64, kind string) string {
	if diff > 1 {
		return fmt.Sprintf("%d %s versions behind", diff, kind)
	}
	return fmt.Sprintf("%d %s version behind", diff, kind)
}
