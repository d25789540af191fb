package residue

import (
	"errors"
	"fmt"
)

// ErrUnknownType indicates a residue label outside the supported alphabet.
var ErrUnknownType = errors.New("residue: unknown residue type")

// Type is a residue label. The zero value is Solvent.
type Type uint8

const (
	// Solvent is the pseudo-type of an unoccupied lattice cell.
	Solvent Type = iota
	// Hydrophobic residues attract each other in the HP model.
	Hydrophobic
	// Polar residues are inert in the plain HP model.
	Polar
	// Positive is a positively charged residue.
	Positive
	// Negative is a negatively charged residue.
	Negative
	// Neutral never interacts unless the table says otherwise.
	Neutral
	// Surface is the material of a fixed adsorbing plane.
	Surface

	numTypes
)

// Count is the alphabet size, Solvent included.
const Count = int(numTypes)

// Types lists every label, Solvent included, in declaration order.
func Types() []Type {
	out := make([]Type, 0, numTypes)
	for t := Solvent; t < numTypes; t++ {
		out = append(out, t)
	}

	return out
}

// Valid reports whether t is part of the alphabet.
func (t Type) Valid() bool { return t < numTypes }

// Letter returns the one-letter code of t ('.' for Solvent).
func (t Type) Letter() rune {
	switch t {
	case Solvent:
		return '.'
	case Hydrophobic:
		return 'H'
	case Polar:
		return 'P'
	case Positive:
		return '+'
	case Negative:
		return '-'
	case Neutral:
		return 'N'
	case Surface:
		return 'S'
	}

	return '?'
}

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case Solvent:
		return "solvent"
	case Hydrophobic:
		return "hydrophobic"
	case Polar:
		return "polar"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Neutral:
		return "neutral"
	case Surface:
		return "surface"
	}

	return fmt.Sprintf("residue(%d)", uint8(t))
}

// ParseType maps a one-letter code to its Type. Letters are case-insensitive.
// Solvent has no letter: it is never part of a chain.
func ParseType(r rune) (Type, error) {
	switch r {
	case 'H', 'h':
		return Hydrophobic, nil
	case 'P', 'p':
		return Polar, nil
	case '+':
		return Positive, nil
	case '-':
		return Negative, nil
	case 'N', 'n':
		return Neutral, nil
	case 'S', 's':
		return Surface, nil
	}

	return Solvent, fmt.Errorf("%w: %q", ErrUnknownType, r)
}

// ParseSequence converts a string such as "HPPH" into residue types.
// Whitespace is ignored.
func ParseSequence(s string) ([]Type, error) {
	out := make([]Type, 0, len(s))
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		t, err := ParseType(r)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out = append(out, t)
	}

	return out, nil
}
