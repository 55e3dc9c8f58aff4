package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldType drives boundary coercion: the raw form value is converted to
// the declared type before any rule runs, and a value that cannot be
// coerced fails validation on that field instead of panicking anywhere.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeDate
	TypeDateTime
)

type RuleKind int

const (
	KindRequired RuleKind = iota
	KindMinLen
	KindMaxLen
	KindPattern
	KindRange
	KindOneOf
	KindPredicate
	KindAgeBetween
)

// Rule is one constraint on one field. Parameters not used by a kind are
// zero. Rules run in order and stop at the first failure for the field.
type Rule struct {
	Kind    RuleKind
	Min     float64
	Max     float64
	Re      *regexp.Regexp
	Allowed []string
	Check   func(v any) bool
	Message string
}

func Required(msg string) Rule { return Rule{Kind: KindRequired, Message: msg} }
func MinLen(n int, msg string) Rule {
	return Rule{Kind: KindMinLen, Min: float64(n), Message: msg}
}
func MaxLen(n int, msg string) Rule {
	return Rule{Kind: KindMaxLen, Max: float64(n), Message: msg}
}
func Match(re *regexp.Regexp, msg string) Rule { return Rule{Kind: KindPattern, Re: re, Message: msg} }
func Between(min, max float64, msg string) Rule {
	return Rule{Kind: KindRange, Min: min, Max: max, Message: msg}
}
func OneOf(allowed []string, msg string) Rule {
	return Rule{Kind: KindOneOf, Allowed: allowed, Message: msg}
}
func Satisfies(check func(v any) bool, msg string) Rule {
	return Rule{Kind: KindPredicate, Check: check, Message: msg}
}
func AgeBetween(min, max int, msg string) Rule {
	return Rule{Kind: KindAgeBetween, Min: float64(min), Max: float64(max), Message: msg}
}

type Field struct {
	Name  string
	Type  FieldType
	Rules []Rule
}

type CrossKind int

const (
	CrossFieldsEqual CrossKind = iota
	CrossTimeAfter
)

// CrossRule spans two fields and runs only after every per-field rule has
// passed. A failure attaches to Target.
type CrossRule struct {
	Kind    CrossKind
	A       string
	B       string
	Target  string
	Message string
}

type Schema struct {
	Fields []Field
	Cross  []CrossRule
}

// Result is the only way out of Validate: either OK with the coerced
// values, or a field-to-messages map. Fail-fast per field, accumulate
// across fields.
type Result struct {
	OK     bool
	Value  map[string]any
	Errors map[string][]string
}

func Validate(s Schema, input map[string]any) Result {
	values := make(map[string]any, len(s.Fields))
	errs := make(map[string][]string)

	for _, f := range s.Fields {
		raw, present := input[f.Name]
		if raw == nil {
			present = false
		}
		if str, ok := raw.(string); ok && strings.TrimSpace(str) == "" {
			present = false
		}

		if !present {
			if msg, required := requiredMessage(f); required {
				errs[f.Name] = append(errs[f.Name], msg)
			}
			continue
		}

		v, ok := coerce(raw, f.Type)
		if !ok {
			errs[f.Name] = append(errs[f.Name], coercionMessage(f.Type))
			continue
		}

		for _, r := range f.Rules {
			if r.Kind == KindRequired {
				continue
			}
			if !apply(r, v) {
				errs[f.Name] = append(errs[f.Name], r.Message)
				break
			}
		}
		if len(errs[f.Name]) == 0 {
			values[f.Name] = v
		}
	}

	if len(errs) == 0 {
		for _, cr := range s.Cross {
			if !applyCross(cr, values) {
				errs[cr.Target] = append(errs[cr.Target], cr.Message)
			}
		}
	}

	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}
	return Result{OK: true, Value: values}
}

func requiredMessage(f Field) (string, bool) {
	for _, r := range f.Rules {
		if r.Kind == KindRequired {
			return r.Message, true
		}
	}
	return "", false
}

func coercionMessage(t FieldType) string {
	switch t {
	case TypeInt:
		return "must be a whole number"
	case TypeFloat:
		return "must be a number"
	case TypeDate:
		return "must be a valid date (YYYY-MM-DD)"
	case TypeDateTime:
		return "must be a valid date and time"
	default:
		return "must be text"
	}
}

func coerce(raw any, t FieldType) (any, bool) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		return s, ok
	case TypeInt:
		switch v := raw.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			if v != float64(int(v)) {
				return nil, false
			}
			return int(v), true
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return n, err == nil
		}
		return nil, false
	case TypeFloat:
		switch v := raw.(type) {
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case float64:
			return v, true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			return f, err == nil
		}
		return nil, false
	case TypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		return d, err == nil
	case TypeDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		s = strings.TrimSpace(s)
		if dt, err := time.Parse(time.RFC3339, s); err == nil {
			return dt, true
		}
		dt, err := time.Parse("2006-01-02T15:04", s)
		return dt, err == nil
	}
	return nil, false
}

func apply(r Rule, v any) bool {
	switch r.Kind {
	case KindMinLen:
		s, ok := v.(string)
		return ok && utf8.RuneCountInString(s) >= int(r.Min)
	case KindMaxLen:
		s, ok := v.(string)
		return ok && utf8.RuneCountInString(s) <= int(r.Max)
	case KindPattern:
		s, ok := v.(string)
		return ok && r.Re.MatchString(s)
	case KindRange:
		f, ok := asFloat(v)
		return ok && f >= r.Min && f <= r.Max
	case KindOneOf:
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, a := range r.Allowed {
			if s == a {
				return true
			}
		}
		return false
	case KindPredicate:
		return r.Check(v)
	case KindAgeBetween:
		d, ok := v.(time.Time)
		if !ok {
			return false
		}
		// Calendar-year difference on purpose: the age policy counts
		// years, not elapsed days.
		age := time.Now().Year() - d.Year()
		return age >= int(r.Min) && age <= int(r.Max)
	}
	return true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func applyCross(cr CrossRule, values map[string]any) bool {
	a, okA := values[cr.A]
	b, okB := values[cr.B]
	if !okA || !okB {
		// A cross rule over an optional pair only fires when both sides
		// were supplied.
		return true
	}
	switch cr.Kind {
	case CrossFieldsEqual:
		return a == b
	case CrossTimeAfter:
		ta, okA := a.(time.Time)
		tb, okB := b.(time.Time)
		return okA && okB && tb.After(ta)
	}
	return true
}
