package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"

	"github.com/jsphweid/fugue/util"
)

var ErrBadPitch = errors.New("bad pitch")

const letters = "CDEFGAB"

// semitones above C of each natural letter, indexed like letters
var naturals = [7]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a spelled pitch. Accidental counts sharps (positive) or flats
// (negative). Octaves follow scientific numbering, so C-4 is middle C.
type Pitch struct {
	Letter     byte
	Accidental int
	Octave     int
}

var MiddleC = Pitch{Letter: 'C', Octave: 4}

func letterIndex(l byte) int {
	return strings.IndexByte(letters, l)
}

// ParsePitch reads "C#-4", "Bb3" or "E". A missing octave means octave 4.
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pitch{}, fmt.Errorf("%w: empty", ErrBadPitch)
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	if letterIndex(letter) < 0 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrBadPitch, s)
	}

	p := Pitch{Letter: letter, Octave: 4}
	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			p.Accidental++
			continue
		case 'b':
			p.Accidental--
			continue
		}
		break
	}
	rest := strings.TrimPrefix(s[i:], "-")
	if rest != "" {
		octave, err := strconv.Atoi(rest)
		if err != nil {
			return Pitch{}, fmt.Errorf("%w: %q", ErrBadPitch, s)
		}
		p.Octave = octave
	}
	if p.Accidental > 2 || p.Accidental < -2 {
		return Pitch{}, fmt.Errorf("%w: too many accidentals in %q", ErrBadPitch, s)
	}
	return p, nil
}

func MustParsePitch(s string) Pitch {
	p, err := ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Name is the pitch without its octave, e.g. "F#".
func (p Pitch) Name() string {
	acc := ""
	if p.Accidental > 0 {
		acc = strings.Repeat("#", p.Accidental)
	} else if p.Accidental < 0 {
		acc = strings.Repeat("b", -p.Accidental)
	}
	return string(p.Letter) + acc
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s-%d", p.Name(), p.Octave)
}

func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pitch) UnmarshalText(b []byte) error {
	parsed, err := ParsePitch(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Semitones counts half steps from C-0.
func (p Pitch) Semitones() int {
	return 12*p.Octave + naturals[letterIndex(p.Letter)] + p.Accidental
}

// Class is the pitch class in [0, 12).
func (p Pitch) Class() int {
	return util.FloorMod(p.Semitones(), 12)
}

// Note returns the MIDI note, C-4 being 60. Pitches outside the MIDI range
// are clamped into it.
func (p Pitch) Note() midi.Note {
	n := p.Semitones() + 12
	if n < 0 {
		n = 0
	}
	if n > 127 {
		n = 127
	}
	return midi.Note(n)
}

// Measure is the signed number of half steps from a to b.
func Measure(a, b Pitch) int {
	return b.Semitones() - a.Semitones()
}

// spell writes semitones (counted from C-0) with the given letter.
func spell(letterIdx int, semitones int) Pitch {
	base := naturals[letterIdx]
	octave := util.FloorDiv(semitones-base+6, 12)
	return Pitch{
		Letter:     letters[letterIdx],
		Accidental: semitones - (12*octave + base),
		Octave:     octave,
	}
}

// plain spells semitones as a natural when possible, else with one sharp
// or one flat.
func plain(semitones int, flats bool) Pitch {
	class := util.FloorMod(semitones, 12)
	target := class - 1
	if flats {
		target = class + 1
	}
	for i, n := range naturals {
		if n == class {
			return spell(i, semitones)
		}
	}
	for i, n := range naturals {
		if n == target {
			return spell(i, semitones)
		}
	}
	return spell(0, semitones)
}

// Simplify respells p with at most one accidental, preferring a natural.
// A remaining sharp or flat keeps the direction of the original spelling.
func Simplify(p Pitch) Pitch {
	return plain(p.Semitones(), p.Accidental < 0)
}
