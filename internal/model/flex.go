package model

import (
	"bytes"
	"math"
	"strconv"
)

// Ident is an opaque identifier that upstream responses deliver as either a
// JSON string or a JSON number. It normalizes to a string so identifiers can
// be compared regardless of the shape a given endpoint chose.
type Ident string

// UnmarshalJSON accepts strings, numbers, and null. Anything else decodes to
// the zero Ident rather than failing the whole payload.
func (id *Ident) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*id = ""
			return nil
		}
		*id = Ident(s)
		return nil
	}
	// Bare number token: keep its text form ("2" stays "2").
	*id = Ident(data)
	return nil
}

func (id Ident) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

func (id Ident) String() string { return string(id) }

// IsZero reports whether the identifier was absent or null.
func (id Ident) IsZero() bool { return id == "" }

// FirstIdent returns the first non-zero identifier.
func FirstIdent(ids ...Ident) Ident {
	for _, id := range ids {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}

// Scalar is a numeric field that upstream responses deliver as a JSON number,
// a numeric string, or null. Valid is false when the field was absent,
// null, non-numeric, or non-finite.
type Scalar struct {
	Value float64
	Valid bool
}

// Num builds a valid Scalar, mainly for tests and fixtures.
func Num(v float64) Scalar { return Scalar{Value: v, Valid: true} }

// UnmarshalJSON never fails: unparseable values decode as invalid so one
// malformed field cannot take down an entire cart listing.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = Scalar{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil
		}
		text = unquoted
	}
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	s.Value = f
	s.Valid = true
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// Positive reports whether the scalar holds a value greater than zero.
func (s Scalar) Positive() bool { return s.Valid && s.Value > 0 }

// Or returns the value, or def when the scalar is invalid.
func (s Scalar) Or(def float64) float64 {
	if s.Valid {
		return s.Value
	}
	return def
}

// FirstPositive returns the first scalar holding a positive value.
// Used for the price fallback chains where zero means "field unset".
func FirstPositive(candidates ...Scalar) (float64, bool) {
	for _, c := range candidates {
		if c.Positive() {
			return c.Value, true
		}
	}
	return 0, false
}
