package box

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/pkg/generic"
)

// stateFields is the number of numbers per atom line: position then
// velocity.
const stateFields = 6

var lineBuffers = generic.NewPool(
	func() *[]byte {
		buf := make([]byte, 0, 160)
		return &buf
	},
	func(buf *[]byte) *[]byte {
		*buf = (*buf)[:0]
		return buf
	},
)

// WriteState writes one line per atom: position components followed by
// velocity components.
func (m *Molecule) WriteState(w io.Writer) error {
	bufp := lineBuffers.Get()
	defer lineBuffers.Put(bufp)

	for _, a := range m.atoms {
		buf := (*bufp)[:0]
		for i, v := range [stateFields]float64{
			a.Position.X, a.Position.Y, a.Position.Z,
			a.Velocity.X, a.Velocity.Y, a.Velocity.Z,
		} {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		*bufp = buf
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ReadState reads the block written by WriteState.
func (m *Molecule) ReadState(lines *bufio.Scanner) error {
	for _, a := range m.atoms {
		line, err := nextLine(lines)
		if err != nil {
			return fmt.Errorf("atom %d of %v: %w", a.index, m, err)
		}
		fields := strings.Fields(line)
		if len(fields) != stateFields {
			return fmt.Errorf("%w: atom %d of %v: expected %d values, got %d",
				ErrInvalidArgument, a.index, m, stateFields, len(fields))
		}
		var v [stateFields]float64
		for i, f := range fields {
			if v[i], err = strconv.ParseFloat(f, 64); err != nil {
				return fmt.Errorf("%w: atom %d of %v: %w", ErrInvalidArgument, a.index, m, err)
			}
		}
		a.Position.X, a.Position.Y, a.Position.Z = v[0], v[1], v[2]
		a.Velocity.X, a.Velocity.Y, a.Velocity.Z = v[3], v[4], v[5]
	}
	return nil
}

// SaveState writes, for each species in index order, the molecule count on
// its own line followed by every molecule's state block.
func (b *Box) SaveState(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, list := range b.moleculeLists {
		if _, err := fmt.Fprintf(bw, "%d\n", list.Len()); err != nil {
			return err
		}
		for _, m := range list.All() {
			if err := m.WriteState(bw); err != nil {
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	b.logger.Debug("box state saved", log.Int("box", b.index),
		log.Int("molecules", b.allMolecules.Len()))
	return nil
}

// RestoreState reads a stream written by SaveState. Species are matched by
// position in the stream. Molecule counts are adjusted first: extra
// molecules are removed from the tail, missing ones are copied from the
// species' first molecule, so growing a species that currently has no
// molecules fails. Each molecule then reads its block, and the leaf list is
// rebuilt from the molecules in their restored order with every atom at its
// recorded leaf index.
func (b *Box) RestoreState(r io.Reader) error {
	lines := bufio.NewScanner(r)
	for s, list := range b.moleculeLists {
		line, err := nextLine(lines)
		if err != nil {
			return fmt.Errorf("species %d count: %w", s, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return fmt.Errorf("%w: species %d count %q: %w", ErrInvalidArgument, s, line, err)
		}
		if n < 0 {
			return fmt.Errorf("%w: species %d count %d", ErrInvalidArgument, s, n)
		}

		current := list.Len()
		if n > current {
			if current == 0 {
				return fmt.Errorf("%w: species %d needs a molecule to restore %d from", ErrInvalidArgument, s, n)
			}
			template := list.At(0)
			for i := current; i < n; i++ {
				if err = b.AddMolecule(template.clone()); err != nil {
					return err
				}
			}
		}
		for i := current - 1; i >= n; i-- {
			if err = b.RemoveMolecule(list.At(i)); err != nil {
				return err
			}
		}

		for _, m := range list.All() {
			if err = m.ReadState(lines); err != nil {
				return err
			}
		}
	}

	leaves := make([]*Atom, 0, b.leafList.Cap())
	for _, list := range b.moleculeLists {
		for _, m := range list.All() {
			for _, a := range m.atoms {
				for len(leaves) <= a.leafIndex {
					leaves = append(leaves, nil)
				}
				leaves[a.leafIndex] = a
			}
		}
	}
	b.leafList = generic.DenseListOf(leaves)

	b.logger.Debug("box state restored", log.Int("box", b.index),
		log.Int("molecules", b.allMolecules.Len()))
	return b.verifyIfDebugging()
}

func nextLine(lines *bufio.Scanner) (string, error) {
	if lines.Scan() {
		return lines.Text(), nil
	}
	if err := lines.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}
