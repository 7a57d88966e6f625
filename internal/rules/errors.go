package rules

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// RuleParseError reports a malformed ruleset or rule.
type RuleParseError struct {
	Ruleset string
	Rule    string
	Message string
	Pos     token.Pos
}

func (e *RuleParseError) Error() string {
	where := e.Ruleset
	if e.Rule != "" {
		where += "." + e.Rule
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// UnsafeRuleError reports a head variable that does not occur in the body.
type UnsafeRuleError struct {
	Ruleset  string
	Rule     string
	Variable string
}

func (e *UnsafeRuleError) Error() string {
	return fmt.Sprintf("%s.%s: head variable ?%s does not occur in the body", e.Ruleset, e.Rule, e.Variable)
}

// IsLoadError reports whether err is a ruleset parse or safety failure.
func IsLoadError(err error) bool {
	var pe *RuleParseError
	var ue *UnsafeRuleError
	return errors.As(err, &pe) || errors.As(err, &ue)
}
