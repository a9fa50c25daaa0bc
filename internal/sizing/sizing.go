package sizing

import (
	"fmt"
	"strconv"
	"strings"
)

// Cohort is the demographic bracket a size belongs to. It replaces ad hoc
// suffix sniffing: a Size is constructed once via Parse and carries its
// cohort explicitly from then on.
type Cohort int

const (
	Men Cohort = iota
	Women
	Infant
	Toddler
	Youth
	BigKids
)

func (c Cohort) String() string {
	switch c {
	case Men:
		return "men"
	case Women:
		return "women"
	case Infant:
		return "infant"
	case Toddler:
		return "toddler"
	case Youth:
		return "youth"
	case BigKids:
		return "big-kids"
	default:
		return "unknown"
	}
}

// Child reports whether the cohort ships at the reduced tier.
func (c Cohort) Child() bool {
	switch c {
	case Infant, Toddler, Youth, BigKids:
		return true
	default:
		return false
	}
}

// Size is a validated shoe size: a cohort plus a half-step numeric value.
type Size struct {
	Cohort Cohort
	Value  float64
}

// Token renders the size back to its string form ("10.5", "8W", "3C", "6Y").
func (s Size) Token() string {
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	switch s.Cohort {
	case Women:
		return v + "W"
	case Infant, Toddler:
		return v + "C"
	case Youth, BigKids:
		return v + "Y"
	default:
		return v
	}
}

// Parse validates a size token and constructs its Size. The numeric
// component must be a positive multiple of 0.5; the suffix, if present,
// exactly one of W, C, Y. C and Y tokens must fall inside their bracket
// ranges. Malformed tokens are rejected here rather than silently priced.
func Parse(token string) (Size, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return Size{}, fmt.Errorf("empty size token")
	}

	suffix := byte(0)
	num := t
	switch last := t[len(t)-1]; last {
	case 'W', 'C', 'Y':
		suffix = last
		num = t[:len(t)-1]
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Size{}, fmt.Errorf("size %q: invalid numeric component", token)
	}
	if v <= 0 {
		return Size{}, fmt.Errorf("size %q: value must be positive", token)
	}
	if v*2 != float64(int64(v*2)) {
		return Size{}, fmt.Errorf("size %q: value must be a half step", token)
	}

	switch suffix {
	case 'W':
		return Size{Cohort: Women, Value: v}, nil
	case 'C':
		switch {
		case v <= 7.5:
			return Size{Cohort: Infant, Value: v}, nil
		case v <= 13.5:
			return Size{Cohort: Toddler, Value: v}, nil
		default:
			return Size{}, fmt.Errorf("size %q: C sizes end at 13.5", token)
		}
	case 'Y':
		switch {
		case v <= 5.5:
			return Size{Cohort: Youth, Value: v}, nil
		case v <= 8:
			return Size{Cohort: BigKids, Value: v}, nil
		default:
			return Size{}, fmt.Errorf("size %q: Y sizes end at 8", token)
		}
	default:
		return Size{Cohort: Men, Value: v}, nil
	}
}

// DefaultTokens is the full size run assigned to a new product when the
// admin does not narrow it down.
func DefaultTokens() []string {
	var tokens []string
	appendRange := func(lo, hi float64, suffix string) {
		for v := lo; v <= hi; v += 0.5 {
			tokens = append(tokens, strconv.FormatFloat(v, 'f', -1, 64)+suffix)
		}
	}
	appendRange(1, 13.5, "C")
	appendRange(1, 8, "Y")
	appendRange(5, 12, "W")
	appendRange(7, 14, "")
	return tokens
}
