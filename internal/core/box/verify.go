package box

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Verify checks every structural invariant of b: molecule indices match
// positions, leaf indices match positions, the leaf list holds exactly the
// atoms of the contained molecules, and the all-molecules prefix table
// matches the species lists. All violations are joined into one error
// wrapping ErrIllegalState.
//
// Verify is O(n) and meant for tests and debug runs.
func Verify(b *Box) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrIllegalState}, args...)...))
	}

	atoms := 0
	total := 0
	for s, list := range b.moleculeLists {
		for i, m := range list.All() {
			if m == nil {
				fail("species %d slot %d is empty", s, i)
				continue
			}
			if m.index != i {
				fail("species %d slot %d holds molecule with index %d", s, i, m.index)
			}
			if m.species == nil || m.species.Index() != s {
				fail("species %d slot %d holds %v", s, i, m)
			}
			for _, a := range m.atoms {
				atoms++
				if a.parent != m {
					fail("%v child %v has another parent", m, a)
				}
				if found, err := b.leafList.Get(a.leafIndex); err != nil || found != a {
					fail("%v child %v is not at its leaf index", m, a)
				}
			}
		}
		total += list.Len()
		if got := b.allMolecules.totals[s]; got != total {
			fail("prefix total for species %d is %d, expected %d", s, got, total)
		}
	}
	if got := b.allMolecules.Len(); got != total {
		fail("all-molecules count is %d, expected %d", got, total)
	}
	if b.leafList.Len() != atoms {
		fail("leaf list holds %d atoms, molecules hold %d", b.leafList.Len(), atoms)
	}
	for i, a := range b.leafList.All() {
		if a == nil {
			fail("leaf slot %d is empty", i)
			continue
		}
		if a.leafIndex != i {
			fail("leaf slot %d holds atom with leaf index %d", i, a.leafIndex)
		}
	}
	return errors.Join(errs...)
}

// Fingerprint digests the structural layout of b: the per-species counts,
// the atom count of each molecule in list order and, for every leaf slot,
// the species, molecule index and child index of the atom it holds.
// Coordinates and molecule identity are not included, so equal layouts
// produce equal fingerprints.
func Fingerprint(b *Box) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = d.Write(buf[:])
	}

	put(len(b.moleculeLists))
	for _, list := range b.moleculeLists {
		put(list.Len())
		for _, m := range list.All() {
			put(m.NumAtoms())
		}
	}
	put(b.leafList.Len())
	for _, a := range b.leafList.All() {
		if a == nil || a.parent == nil {
			put(-1)
			continue
		}
		put(a.parent.species.Index())
		put(a.parent.index)
		put(a.index)
	}
	return d.Sum64()
}
