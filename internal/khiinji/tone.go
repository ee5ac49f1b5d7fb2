// Package khiinji represents one romanized syllable of the Khíín writing
// system: its tone, its khin (unstressed) marking, and the diacritic
// composition/decomposition between raw keystrokes and display form.
package khiinji

// Tone is one of the nine Hokkien tone categories.
type Tone int

const (
	T1 Tone = iota // thanh ngang equivalent: no mark
	T2
	T3
	T4 // checked tone, no diacritic; relies on a stop coda
	T5
	T6
	T7
	T8 // checked tone; shares a Telex key with another meaning
	T9
)

// KhinMode controls how an unstressed syllable is rendered.
type KhinMode int

const (
	Khinless KhinMode = iota
	Dot
	Hyphen
)

// ToneMode selects how tone is encoded from ASCII keystrokes.
type ToneMode int

const (
	Numeric ToneMode = iota
	Telex
)

// TelexKeys maps the configurable Telex letter keys to their meaning.
// Supplied by engine configuration (spec.md §4.1, §6).
type TelexKeys struct {
	T2   rune
	T3   rune
	T5   rune
	T6   rune
	T7   rune
	T8   rune // shared key: only applies if the body ends in a stop coda
	T9   rune
	Khin rune
}

// DefaultTelexKeys mirrors the common Tâi-lô Telex letter assignments.
func DefaultTelexKeys() TelexKeys {
	return TelexKeys{
		T2:   's',
		T3:   'f',
		T5:   'l',
		T6:   'g',
		T7:   'j',
		T8:   'b',
		T9:   'q',
		Khin: '0',
	}
}

// toneMarks are the combining diacritics placed on the nucleus vowel.
// T1 and T4 carry no mark: T4 is signalled purely by its stop coda.
var toneMarks = map[Tone]rune{
	T2: '́', // combining acute
	T3: '̀', // combining grave
	T5: '̂', // combining circumflex
	T6: '̃', // combining tilde
	T7: '̄', // combining macron
	T8: '̍', // combining vertical line above
	T9: '̋', // combining double acute
}

var markToTone = func() map[rune]Tone {
	m := make(map[rune]Tone, len(toneMarks))
	for t, r := range toneMarks {
		m[r] = t
	}
	return m
}()

func stopCoda(body string) bool {
	if body == "" {
		return false
	}
	runes := []rune(body)
	switch runes[len(runes)-1] {
	case 'p', 'P', 't', 'T', 'k', 'K', 'h', 'H':
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
