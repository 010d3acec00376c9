package psgc

// ShouldSuppress reports whether candidate duplicates a municipality already
// attached to the same province. Only the normalized name is compared; two
// municipalities with different codes but the same name collapse to the first.
func ShouldSuppress(existing []Municipality, candidate Municipality) bool {
	name := NormalizeName(candidate.Name)
	for _, m := range existing {
		if NormalizeName(m.Name) == name {
			return true
		}
	}
	return false
}

// nameIndex is the constant-time form of ShouldSuppress used while building.
type nameIndex map[string]struct{}

func (ix nameIndex) seen(name string) bool {
	_, ok := ix[NormalizeName(name)]
	return ok
}

func (ix nameIndex) add(name string) {
	ix[NormalizeName(name)] = struct{}{}
}
