package theory

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"

	"github.com/jsphweid/fugue/util"
)

var ErrBadKey = errors.New("bad key")

// Key names a major key with an upper case tonic ("Eb") and a natural minor
// key with a lower case one ("c#").
type Key string

var (
	majorSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = [7]int{0, 2, 3, 5, 7, 8, 10}
)

func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrBadKey)
	}
	upper := strings.ToUpper(s[:1])
	if letterIndex(upper[0]) < 0 {
		return "", fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	switch s[1:] {
	case "", "#", "b":
	default:
		return "", fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	return Key(s), nil
}

func (k Key) Validate() error {
	_, err := ParseKey(string(k))
	return err
}

func (k Key) IsMinor() bool {
	return len(k) > 0 && k[0] >= 'a' && k[0] <= 'g'
}

// Tonic is the key's tonic at octave 4.
func (k Key) Tonic() Pitch {
	p, err := ParsePitch(string(k))
	if err != nil {
		return MiddleC
	}
	return p
}

// Scale returns the seven scale tones starting at the tonic, octave 4 for
// the tonic and rising from there.
func (k Key) Scale() []Pitch {
	steps := majorSteps
	if k.IsMinor() {
		steps = minorSteps
	}
	tonic := k.Tonic()
	start := letterIndex(tonic.Letter)
	scale := make([]Pitch, 7)
	for i, step := range steps {
		scale[i] = spell((start+i)%7, tonic.Semitones()+step)
	}
	return scale
}

// Names returns the scale tone names without octaves.
func (k Key) Names() []string {
	scale := k.Scale()
	names := make([]string, len(scale))
	for i, p := range scale {
		names[i] = p.Name()
	}
	return names
}

// Degree returns the scale index of p's name, or -1.
func (k Key) Degree(p Pitch) int {
	for i, n := range k.Names() {
		if n == p.Name() {
			return i
		}
	}
	return -1
}

// AccidentalOf is the accidental the key applies to a letter.
func (k Key) AccidentalOf(letter byte) int {
	for _, p := range k.Scale() {
		if p.Letter == letter {
			return p.Accidental
		}
	}
	return 0
}

func (k Key) usesFlats() bool {
	for _, p := range k.Scale() {
		if p.Accidental < 0 {
			return true
		}
	}
	return false
}

// Spell respells p to the key's scale spelling when p is enharmonic to a
// scale tone, and to the simplest name otherwise.
func (k Key) Spell(p Pitch) Pitch {
	semis := p.Semitones()
	class := util.FloorMod(semis, 12)
	for _, s := range k.Scale() {
		if s.Class() == class {
			return spell(letterIndex(s.Letter), semis)
		}
	}
	return Simplify(p)
}

// FromNote spells a MIDI note in k. Scale tones take the scale's letter;
// chromatic tones take a flat in flat keys and a sharp elsewhere.
func (k Key) FromNote(n midi.Note) Pitch {
	semis := int(n.Value()) - 12
	for _, s := range k.Scale() {
		if n.Is(s.Note()) {
			return spell(letterIndex(s.Letter), semis)
		}
	}
	return plain(semis, k.usesFlats())
}

// RelativeMinor returns the minor key sharing a major key's signature.
func (k Key) RelativeMinor() (Key, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	if k.IsMinor() {
		return "", fmt.Errorf("%w: %s is already minor", ErrBadKey, k)
	}
	tonic := k.Scale()[5]
	return Key(strings.ToLower(tonic.Name()[:1]) + tonic.Name()[1:]), nil
}

// Dominant returns the key a fifth above, keeping the mode.
func (k Key) Dominant() Key {
	name := k.Scale()[4].Name()
	if k.IsMinor() {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	return Key(name)
}

// Step counts diatonic steps from C-0, ignoring accidentals.
func (p Pitch) Step() int {
	return 7*p.Octave + letterIndex(p.Letter)
}

// AtStep is the pitch on a diatonic step, with the key's accidental for its
// letter.
func (k Key) AtStep(step int) Pitch {
	idx := util.FloorMod(step, 7)
	return Pitch{
		Letter:     letters[idx],
		Accidental: k.AccidentalOf(letters[idx]),
		Octave:     util.FloorDiv(step, 7),
	}
}
