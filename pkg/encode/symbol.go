package encode

import (
	"math"
	"strings"

	"github.com/matzehuels/popcon/pkg/errors"
)

// Alphabet is the symbol set of the extended encoding. The simple encoding
// uses its first 62 symbols.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-."

// Missing marks an absent value.
const Missing = '_'

// Supported precisions.
const (
	Simple   = 1
	Extended = 2
)

// Symbol encodes values within [Min, Max] as fixed-width digit strings.
type Symbol struct {
	precision int
	min, max  float64
}

// NewSymbol creates an encoder. precision must be [Simple] or [Extended].
func NewSymbol(precision int, min, max float64) (*Symbol, error) {
	if precision != Simple && precision != Extended {
		return nil, errors.New(errors.ErrCodeInvalidPrecision, "precision %d (want 1 or 2)", precision)
	}
	return &Symbol{precision: precision, min: min, max: max}, nil
}

// Precision returns the number of digits per value.
func (e *Symbol) Precision() int { return e.precision }

// Base returns the number of symbols per digit.
func (e *Symbol) Base() int {
	if e.precision == Simple {
		return 62
	}
	return len(Alphabet)
}

// Range returns the largest encodable level, base^precision - 1.
func (e *Symbol) Range() int {
	r := 1
	for range e.precision {
		r *= e.Base()
	}
	return r - 1
}

// Tag returns the encoding tag: "s" for simple, "e" for extended.
func (e *Symbol) Tag() string {
	if e.precision == Simple {
		return "s"
	}
	return "e"
}

// Scale maps v, clamped to [Min, Max], onto a level in [0, Range].
func (e *Symbol) Scale(v float64) int {
	if e.max <= e.min {
		return 0
	}
	v = math.Max(e.min, math.Min(e.max, v))
	return int(math.Round((v - e.min) / (e.max - e.min) * float64(e.Range())))
}

// Unscale maps a level back into [Min, Max].
func (e *Symbol) Unscale(level int) float64 {
	return e.min + float64(level)/float64(e.Range())*(e.max-e.min)
}

// EncodeValue encodes one value, most significant digit first. NaN encodes
// as the missing placeholder.
func (e *Symbol) EncodeValue(v float64) string {
	if math.IsNaN(v) {
		return strings.Repeat(string(Missing), e.precision)
	}
	n, base := e.Scale(v), e.Base()
	digits := make([]byte, e.precision)
	for i := e.precision - 1; i >= 0; i-- {
		digits[i] = Alphabet[n%base]
		n /= base
	}
	return string(digits)
}

// DecodeValue inverts [Symbol.EncodeValue] up to rounding. The missing
// placeholder decodes to NaN.
func (e *Symbol) DecodeValue(s string) (float64, error) {
	if len(s) != e.precision {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "value %q has %d digits, want %d", s, len(s), e.precision)
	}
	if s == strings.Repeat(string(Missing), e.precision) {
		return math.NaN(), nil
	}
	n, base := 0, e.Base()
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(Alphabet[:base], s[i])
		if d < 0 {
			return 0, errors.New(errors.ErrCodeInvalidFormat, "invalid symbol %q", s[i])
		}
		n = n*base + d
	}
	return e.Unscale(n), nil
}

// Encode encodes several series as "<tag>:<series>,<series>,...".
func (e *Symbol) Encode(data [][]float64) string {
	var b strings.Builder
	b.WriteString(e.Tag())
	b.WriteByte(':')
	for i, values := range data {
		if i > 0 {
			b.WriteByte(',')
		}
		for _, v := range values {
			b.WriteString(e.EncodeValue(v))
		}
	}
	return b.String()
}

// Decode inverts [Symbol.Encode]. An empty body decodes to no series.
func (e *Symbol) Decode(s string) ([][]float64, error) {
	tag, body, ok := strings.Cut(s, ":")
	if !ok || tag != e.Tag() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "data %q does not start with %q", s, e.Tag()+":")
	}
	if body == "" {
		return nil, nil
	}

	var out [][]float64
	for _, section := range strings.Split(body, ",") {
		if len(section)%e.precision != 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "series %q is not a multiple of %d digits", section, e.precision)
		}
		values := make([]float64, 0, len(section)/e.precision)
		for i := 0; i < len(section); i += e.precision {
			v, err := e.DecodeValue(section[i : i+e.precision])
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		out = append(out, values)
	}
	return out, nil
}
