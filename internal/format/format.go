// Package format renders response templates with ordered, typed placeholders.
//
// Supported placeholders are %s (string), %.02f or %.2f (two decimals) and %g
// (plain number). Each argument fills the first still-unfilled placeholder of
// its own kind; substituted text is never scanned again.
package format

import (
	"math"
	"strconv"
	"strings"
)

type kind int

const (
	kindString kind = iota
	kindFixed
	kindNumber
)

var placeholders = []struct {
	text string
	kind kind
}{
	{"%s", kindString},
	{"%.02f", kindFixed},
	{"%.2f", kindFixed},
	{"%g", kindNumber},
}

// Arg is a typed template argument.
type Arg struct {
	kind  kind
	value string
}

// Str fills the next %s.
func Str(s string) Arg {
	return Arg{kind: kindString, value: s}
}

// Fixed fills the next %.02f / %.2f with two decimals.
func Fixed(v float64) Arg {
	return Arg{kind: kindFixed, value: strconv.FormatFloat(v, 'f', 2, 64)}
}

// Num fills the next %g with the shortest representation of v.
func Num(v float64) Arg {
	return Arg{kind: kindNumber, value: Number(v)}
}

type segment struct {
	literal string
	slot    bool
	kind    kind
	filled  bool
	value   string
}

// Render substitutes args into template. Unfilled placeholders are kept
// verbatim and surplus arguments are ignored.
func Render(template string, args ...Arg) string {
	segments := parse(template)

	for _, arg := range args {
		for i := range segments {
			s := &segments[i]
			if s.slot && !s.filled && s.kind == arg.kind {
				s.filled = true
				s.value = arg.value
				break
			}
		}
	}

	var b strings.Builder
	b.Grow(len(template))
	for _, s := range segments {
		if s.slot && s.filled {
			b.WriteString(s.value)
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String()
}

func parse(template string) []segment {
	var segments []segment
	start := 0
	for i := 0; i < len(template); {
		if template[i] != '%' {
			i++
			continue
		}
		matched := false
		for _, p := range placeholders {
			if strings.HasPrefix(template[i:], p.text) {
				if start < i {
					segments = append(segments, segment{literal: template[start:i]})
				}
				segments = append(segments, segment{literal: p.text, slot: true, kind: p.kind})
				i += len(p.text)
				start = i
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	if start < len(template) {
		segments = append(segments, segment{literal: template[start:]})
	}
	return segments
}

// Number renders v the way a JavaScript number prints: integers without a
// fraction, exponent form outside [1e-6, 1e21).
func Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
