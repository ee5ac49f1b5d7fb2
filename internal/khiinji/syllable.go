package khiinji

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Syllable is a parsed romanized syllable (spec.md §3).
//
// RawInput reconstructs exactly the keystrokes that produced it.
// RawBody is RawInput minus the tone key(s)/digit.
type Syllable struct {
	RawInput string
	RawBody  string
	Tone     Tone
	Khin     bool
}

// vowelPriority is the canonical-vowel search order used by Compose to
// choose which letter of a multi-vowel body carries the tone diacritic.
var vowelPriority = []rune{'a', 'o', 'e', 'u', 'i'}

// ApplyNumericDigit encodes Numeric tone mode: a trailing digit 2..9
// sets the tone, with T8 only inferred when the body already ends in a
// stop coda. A digit that cannot apply (8 without a stop coda, or any
// digit outside 2..9) is rejected: the caller should treat the
// keystroke as not consumed.
func (s *Syllable) ApplyNumericDigit(digit rune) bool {
	switch digit {
	case '2':
		s.Tone = T2
	case '3':
		s.Tone = T3
	case '4':
		s.Tone = T4
	case '5':
		s.Tone = T5
	case '6':
		s.Tone = T6
	case '7':
		s.Tone = T7
	case '8':
		if !stopCoda(s.RawBody) {
			return false
		}
		s.Tone = T8
	case '9':
		s.Tone = T9
	default:
		return false
	}
	s.RawInput += string(digit)
	return true
}

// ApplyTelexKey encodes Telex tone mode (spec.md §4.1). A tone/khin key
// is only interpreted as such once the syllable already shows tone
// evidence (an existing non-T1 tone, or a prior tone letter); otherwise
// it is pushed onto the body as a literal letter. The shared T8 key
// falls back to its literal meaning unless the body ends in a stop
// coda.
func (s *Syllable) ApplyTelexKey(key rune, keys TelexKeys) {
	s.RawInput += string(key)

	hasEvidence := s.Tone != T1 || hasToneLetter(s.RawBody, keys)
	if !hasEvidence {
		s.RawBody += string(key)
		return
	}

	switch key {
	case keys.T2:
		s.Tone = T2
	case keys.T3:
		s.Tone = T3
	case keys.T5:
		s.Tone = T5
	case keys.T6:
		s.Tone = T6
	case keys.T7:
		s.Tone = T7
	case keys.T9:
		s.Tone = T9
	case keys.T8:
		if stopCoda(s.RawBody) {
			s.Tone = T8
		} else {
			s.RawBody += string(key)
		}
	case keys.Khin:
		s.Khin = true
	default:
		s.RawBody += string(key)
	}
}

// hasToneLetter reports whether body already contains one of the
// configured Telex tone/khin letters (used to decide whether a
// subsequent tone key is evidence-backed rather than a plain literal).
func hasToneLetter(body string, keys TelexKeys) bool {
	for _, r := range body {
		switch r {
		case keys.T2, keys.T3, keys.T5, keys.T6, keys.T7, keys.T8, keys.T9, keys.Khin:
			return true
		}
	}
	return false
}

// Compose yields the display form: diacritic on the canonical vowel
// nucleus (priority a > o > e > u > i), khin rendered per khin mode.
func (s Syllable) Compose(khin KhinMode) string {
	body := []rune(s.RawBody)
	idx := vowelIndex(body)

	var sb strings.Builder
	mark, hasMark := toneMarks[s.Tone]
	for i, r := range body {
		sb.WriteRune(r)
		if i == idx && hasMark {
			sb.WriteRune(mark)
		}
	}
	composed := norm.NFC.String(sb.String())
	return applyKhinMark(composed, s.Khin, khin)
}

func vowelIndex(body []rune) int {
	for _, v := range vowelPriority {
		for i, r := range body {
			if unicode.ToLower(r) == v {
				return i
			}
		}
	}
	return -1
}

func applyKhinMark(composed string, khin bool, mode KhinMode) string {
	if !khin {
		return composed
	}
	switch mode {
	case Dot:
		return "·" + composed
	case Hyphen:
		return "-" + composed
	default:
		return composed
	}
}

// StripToneDiacritic removes a combining tone mark from display text,
// returning the base text and the tone it carried (T1 if none).
func StripToneDiacritic(display string) (string, Tone) {
	base := strings.TrimPrefix(display, "·")
	base = strings.TrimPrefix(base, "-")

	decomposed := norm.NFD.String(base)
	var sb strings.Builder
	tone := T1
	for _, r := range decomposed {
		if t, ok := markToTone[r]; ok {
			tone = t
			continue
		}
		sb.WriteRune(r)
	}
	return norm.NFC.String(sb.String()), tone
}

// HasToneLetter reports whether raw already carries a Telex tone
// letter under the default key set.
func HasToneLetter(raw string) bool {
	return hasToneLetter(raw, DefaultTelexKeys())
}

// Parse reconstructs a Syllable from either ASCII raw input (Numeric
// mode: trailing tone digit) or already-composed display text
// (diacritic form), so that Parse(Compose(syl), mode) == syl for a
// well-formed syllable (spec.md §8, R1) regardless of which
// representation is handed in.
func Parse(raw string, mode ToneMode) Syllable {
	if raw == "" {
		return Syllable{}
	}

	runes := []rune(raw)
	last := runes[len(runes)-1]
	if last >= '2' && last <= '9' {
		body := string(runes[:len(runes)-1])
		s := Syllable{RawBody: body, RawInput: body}
		if s.ApplyNumericDigit(last) {
			return s
		}
	}

	base, tone := StripToneDiacritic(raw)
	khin := strings.HasPrefix(raw, "·") || strings.HasPrefix(raw, "-")
	return Syllable{RawInput: raw, RawBody: base, Tone: tone, Khin: khin}
}
