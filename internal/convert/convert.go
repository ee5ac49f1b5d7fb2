// Package convert turns a raw keystroke buffer into a candidate list
// and into a full composition (spec.md §4.7).
package convert

import (
	"github.com/username/khiin-ime/internal/buffer"
	"github.com/username/khiin-ime/internal/dict"
	"github.com/username/khiin-ime/internal/input"
	"github.com/username/khiin-ime/internal/khiinji"
	"github.com/username/khiin-ime/internal/store"
)

// Settings is the immutable configuration snapshot passed into the
// converter on each request (spec.md §9, "Configuration").
type Settings struct {
	ToneMode  khiinji.ToneMode
	Hanji     bool // output mode: true selects Han-character display
	Khin      khiinji.KhinMode
	TelexKeys khiinji.TelexKeys
}

// Converter bridges the dictionary and conversion store facades into
// buffer elements.
type Converter struct {
	Dict  dict.Dictionary
	Store store.ConversionStore
}

// New creates a Converter over the given dictionary and conversion
// store facades.
func New(d dict.Dictionary, s store.ConversionStore) *Converter {
	return &Converter{Dict: d, Store: s}
}

// ConvertAll splits raw via the parser and converts each splittable
// section by segmenting and taking the top-1 conversion per word
// (spec.md §4.7).
func (c *Converter) ConvertAll(raw string, settings Settings) (*buffer.Buffer, error) {
	sections := input.ParseWholeInput(c.Dict, raw)
	comp := buffer.New()

	for _, sec := range sections {
		if sec.Kind != input.Splittable {
			comp.Push(buffer.NewPlain(sec.Text))
			continue
		}
		elems, err := c.convertSection(sec.Text, settings)
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			comp.Push(e)
		}
	}

	comp.EditState = buffer.Composing
	if !comp.IsEmpty() {
		allConverted := true
		for _, e := range comp.Elements {
			if !e.IsConverted() {
				allConverted = false
				break
			}
		}
		if allConverted {
			comp.EditState = buffer.Converted
		}
	}
	return comp, nil
}

func (c *Converter) convertSection(section string, settings Settings) ([]buffer.Element, error) {
	words, err := c.Dict.Segment(section)
	if err != nil {
		return nil, err
	}

	var elems []buffer.Element
	limit := 1
	for _, w := range words {
		convs, err := c.Store.SelectConversions(settings.ToneMode, w, &limit)
		if err != nil {
			return nil, err
		}
		if len(convs) == 0 {
			elems = append(elems, buffer.NewPlain(w))
			continue
		}
		k := buffer.NewKhiin(convs[0], settings.Hanji)
		k.SetConverted(true)
		elems = append(elems, k)
	}
	return elems, nil
}

// GetCandidates enumerates candidate buffers for the longest
// splittable prefix of raw (spec.md §4.7). A candidate's key sequence
// must either equal the query or leave a dictionary-segmentable
// remainder; this filter is applied over the batched store result
// rather than per-candidate (spec.md §9, "Candidate feasibility
// filter"), and the word list itself is pre-filtered the same way
// (spec.md §7, "Supplemented features" — mirrors the double filter in
// the original converter).
func (c *Converter) GetCandidates(raw string, settings Settings) ([]*buffer.Buffer, error) {
	kind, query := input.ParseLongestFromStart(c.Dict, raw)
	if kind != input.Splittable || query == "" {
		return nil, nil
	}
	return c.candidatesForSplittable(query, settings)
}

func (c *Converter) candidatesForSplittable(query string, settings Settings) ([]*buffer.Buffer, error) {
	queryRunes := []rune(query)
	words := c.Dict.AllWordsFromStart(query)

	var filtered []string
	for _, w := range words {
		wLen := len([]rune(w))
		rem := string(queryRunes[wLen:])
		if rem == "" || c.Dict.CanSegment(rem) {
			filtered = append(filtered, w)
		}
	}

	convs, err := c.Store.SelectConversionsForMultiple(settings.ToneMode, filtered)
	if err != nil {
		return nil, err
	}

	var result []*buffer.Buffer
	for _, conv := range convs {
		keyLen := len([]rune(conv.KeySequence))
		if keyLen < len(queryRunes) {
			rem := string(queryRunes[keyLen:])
			if !c.Dict.CanSegment(rem) {
				continue
			}
		}
		k := buffer.NewKhiin(conv, settings.Hanji)
		k.SetConverted(true)
		b := buffer.New()
		b.Push(k)
		result = append(result, b)
	}
	return result, nil
}

// ConvertToTelex applies a Telex tone mutation to the current raw
// buffer, producing a single-syllable composition (spec.md §4.1,
// §4.7).
func (c *Converter) ConvertToTelex(raw string, key rune, settings Settings) *buffer.Buffer {
	base, tone := khiinji.StripToneDiacritic(raw)
	syl := khiinji.Syllable{RawBody: base, RawInput: base, Tone: tone}
	syl.ApplyTelexKey(key, settings.TelexKeys)

	comp := buffer.New()
	comp.Push(buffer.NewPlain(syl.Compose(settings.Khin)))
	comp.EditState = buffer.Composing
	return comp
}
