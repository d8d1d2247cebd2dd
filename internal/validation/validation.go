// Package validation holds the per-field rules applied to submitted forms
// before anything is written to the store.
//
// A Schema maps each field name to an ordered list of rules. Every field is
// checked; a field reports the message of its first failing rule.
package validation

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	Text Kind = iota
	Integer
	Decimal
	Boolean
)

// Rule is a validator/v10 tag checked against the coerced value.
type Rule struct {
	Tag     string
	Message string
}

type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	// Default replaces the value when the field is missing from the submission.
	Default  string
	Required string
	Rules    []Rule
}

type Schema []Field

var validate = validator.New()

// Validate coerces and checks raw against every field of the schema. On
// failure the returned Errors holds one message per offending field.
func (s Schema) Validate(raw map[string]string) (Values, Errors) {
	vals := make(Values, len(s))
	errs := Errors{}
	for _, f := range s {
		in, present := raw[f.Name]
		if !present && f.Default != "" {
			in = f.Default
		}
		in = strings.TrimSpace(in)

		if in == "" {
			if f.Optional {
				vals[f.Name] = zero(f.Kind)
				continue
			}
			errs[f.Name] = f.requiredMessage()
			continue
		}

		v, ok := coerce(f.Kind, in)
		if !ok {
			errs[f.Name] = coerceMessage(f.Kind)
			continue
		}
		vals[f.Name] = v

		for _, r := range f.Rules {
			if err := validate.Var(v, r.Tag); err != nil {
				errs[f.Name] = r.Message
				break
			}
		}
	}
	if len(errs) == 0 {
		return vals, nil
	}
	return vals, errs
}

func (f Field) requiredMessage() string {
	if f.Required != "" {
		return f.Required
	}
	return "Este campo es obligatorio"
}

func zero(k Kind) any {
	switch k {
	case Integer:
		return 0
	case Decimal:
		return 0.0
	case Boolean:
		return false
	default:
		return ""
	}
}

// plainDecimal is digits with an optional sign and one '.' or ',' separator.
// ParseFloat alone would also take hex floats, exponents, "inf" and "nan".
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)$`)

func coerce(k Kind, s string) (any, bool) {
	switch k {
	case Integer:
		n, err := strconv.Atoi(s)
		return n, err == nil
	case Decimal:
		if !plainDecimal.MatchString(s) {
			return nil, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case Boolean:
		return parseBool(s)
	default:
		return s, true
	}
}

func parseBool(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "on", "y", "yes", "si", "sí":
		return true, true
	case "off", "n", "no":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}

func coerceMessage(k Kind) string {
	switch k {
	case Integer:
		return "Debe ser un número entero"
	case Decimal:
		return "Debe ser un número válido"
	default:
		return "Valor inválido"
	}
}

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Values holds coerced field values keyed by field name.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}
