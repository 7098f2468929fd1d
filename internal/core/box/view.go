package box

import (
	"fmt"
	"iter"

	"github.com/etomica/etomica/pkg/generic"
	"github.com/etomica/etomica/pkg/sequence"
)

// AllMolecules is a read-only view presenting the per-species molecule lists
// of a box as one sequence. Global index i maps to the species s for which
// totals[s-1] <= i < totals[s].
type AllMolecules struct {
	lists []*generic.DenseList[*Molecule]
	// totals[s] is the number of molecules in species 0..s; the trailing
	// entry repeats the last real total.
	totals []int
}

func newAllMolecules() *AllMolecules {
	return &AllMolecules{totals: []int{0}}
}

// setMoleculeLists rebuilds the prefix table. The box calls it after every
// structural change to any species list.
func (v *AllMolecules) setMoleculeLists(lists []*generic.DenseList[*Molecule]) {
	v.lists = lists
	if cap(v.totals) < len(lists)+1 {
		v.totals = make([]int, len(lists)+1)
	}
	v.totals = v.totals[:len(lists)+1]
	total := 0
	for s, l := range lists {
		total += l.Len()
		v.totals[s] = total
	}
	v.totals[len(lists)] = total
}

// Len is the number of molecules across all species.
func (v *AllMolecules) Len() int {
	return v.totals[len(v.totals)-1]
}

// Molecule returns the molecule at global index i.
func (v *AllMolecules) Molecule(i int) (*Molecule, error) {
	if i < 0 || i >= v.Len() {
		return nil, fmt.Errorf("%w: molecule %d, count %d", ErrIndexOutOfRange, i, v.Len())
	}
	offset := 0
	for s, l := range v.lists {
		if i < v.totals[s] {
			return l.Get(i - offset)
		}
		offset = v.totals[s]
	}
	return nil, fmt.Errorf("%w: molecule %d not found below total %d", ErrIllegalState, i, v.Len())
}

// All iterates molecules in global index order.
func (v *AllMolecules) All() iter.Seq2[int, *Molecule] {
	return func(yield func(int, *Molecule) bool) {
		g := 0
		for _, l := range v.lists {
			for _, m := range l.All() {
				if !yield(g, m) {
					return
				}
				g++
			}
		}
	}
}

// Iterator returns the molecules as a sequence.Iterator.
func (v *AllMolecules) Iterator() *sequence.Iterator[*Molecule] {
	return sequence.FromSeq(func(yield func(*Molecule) bool) {
		for _, m := range v.All() {
			if !yield(m) {
				return
			}
		}
	})
}
