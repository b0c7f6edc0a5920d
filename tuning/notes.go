package tuning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// scale numbers pitch names of one tuning. Each step of the octave gets its
// own MIDI note, counted from the reference pitch.
type scale struct {
	steps   map[string]int
	size    int
	refStep int
	refOct  int
	refNote int
}

func newScale(steps []string, refName string, refNote int) (*scale, error) {
	if len(steps) == 0 {
		return nil, errors.New("no steps defined")
	}
	sc := &scale{steps: make(map[string]int, len(steps)), size: len(steps)}
	for i, st := range steps {
		if st == "" {
			return nil, fmt.Errorf("empty step name at index %d", i)
		}
		if _, dup := sc.steps[st]; dup {
			return nil, fmt.Errorf("duplicate step %q", st)
		}
		sc.steps[st] = i
	}
	step, oct, err := splitName(refName)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	idx, ok := sc.steps[step]
	if !ok {
		return nil, fmt.Errorf("reference: unknown step %q", step)
	}
	if refNote < 0 || refNote > 127 {
		return nil, fmt.Errorf("reference note %d out of MIDI range", refNote)
	}
	sc.refStep, sc.refOct, sc.refNote = idx, oct, refNote
	return sc, nil
}

// note returns the MIDI note of a pitch name such as "F#3" or "D~#4".
func (sc *scale) note(name string) (uint8, error) {
	step, oct, err := splitName(name)
	if err != nil {
		return 0, err
	}
	idx, ok := sc.steps[step]
	if !ok {
		return 0, fmt.Errorf("pitch %q: unknown step %q", name, step)
	}
	n := sc.refNote + (oct-sc.refOct)*sc.size + (idx - sc.refStep)
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("pitch %q: note %d out of MIDI range", name, n)
	}
	return uint8(n), nil
}

// splitName separates the step name from the trailing octave number.
// Step names never contain digits or '-', so the octave starts at the first
// of those after the first character.
func splitName(name string) (string, int, error) {
	i := strings.IndexAny(name[min(1, len(name)):], "-0123456789")
	if i < 0 {
		return "", 0, fmt.Errorf("pitch %q: missing octave", name)
	}
	i++
	oct, err := strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, fmt.Errorf("pitch %q: bad octave: %w", name, err)
	}
	return name[:i], oct, nil
}
