// Package validation collects field-level input failures in the shape
// the API envelope reports them: field, rule, and rule parameters.
package validation

import "regexp"

// EmailRX is the HTML5 email pattern, good enough for gating input
// (deliverability is not checked).
var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+\/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleInvalid   = "invalid"
)

type FieldError struct {
	Field  string
	Rule   string
	Params map[string]interface{}
}

type Validator struct {
	Errors []FieldError
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Check records a failure for field when ok is false.
func (v *Validator) Check(ok bool, field, rule string, params map[string]interface{}) {
	if !ok {
		v.Errors = append(v.Errors, FieldError{Field: field, Rule: rule, Params: params})
	}
}

func (v *Validator) Required(value, field string) {
	v.Check(value != "", field, RuleRequired, nil)
}

func (v *Validator) Email(value, field string) {
	v.Check(EmailRX.MatchString(value), field, RuleEmail, nil)
}

func (v *Validator) MinLength(value string, min int, field string) {
	v.Check(len([]rune(value)) >= min, field, RuleMinLength, map[string]interface{}{"min": min})
}

func (v *Validator) MaxLength(value string, max int, field string) {
	v.Check(len([]rune(value)) <= max, field, RuleMaxLength, map[string]interface{}{"max": max})
}
