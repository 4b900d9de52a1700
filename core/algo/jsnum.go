package algo

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// exactPrec is wide enough to hold any float64 scaled by a small power of ten
// without rounding.
const exactPrec = 2048

// fixedLimit is where decimal rendering gives way to exponent notation.
const fixedLimit = 1e21

var enPrinter = message.NewPrinter(language.AmericanEnglish)

// toFixed renders v with exactly digits fractional digits. The decimal value
// of v is rounded half away from zero, so 1.005 stays "1.00" because the
// stored double sits just below the tie.
func toFixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.Abs(v) >= fixedLimit:
		return numberString(v)
	}

	x := new(big.Float).SetPrec(exactPrec).SetFloat64(math.Abs(v))
	scale := new(big.Float).SetPrec(exactPrec).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	x.Mul(x, scale)

	n, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(exactPrec).Sub(x, new(big.Float).SetPrec(exactPrec).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if v < 0 {
		s = "-" + s
	}
	return s
}

// roundHalfUp rounds to the nearest integer, ties toward positive infinity.
// Negative zero collapses to zero.
func roundHalfUp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r := math.Floor(v)
	if v-r >= 0.5 {
		r++
	}
	if r == 0 {
		return 0
	}
	return r
}

// groupThousands renders an integral value with en-US thousands separators.
func groupThousands(r float64) string {
	switch {
	case math.IsNaN(r):
		return "NaN"
	case math.IsInf(r, 1):
		return "∞"
	case math.IsInf(r, -1):
		return "-∞"
	case math.Abs(r) < 1<<62:
		return enPrinter.Sprintf("%d", int64(r))
	}

	digits := strconv.FormatFloat(math.Abs(r), 'f', 0, 64)
	var b strings.Builder
	if r < 0 {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// numberString is the shortest round-trip rendering of v, switching to
// exponent notation outside [1e-6, 1e21).
func numberString(v float64) string {
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
	if abs >= fixedLimit || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		if exp == "" {
			exp = "0"
		}
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
