package transform

import (
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// CastError reports a literal whose lexical form is invalid for the
// target datatype.
type CastError struct {
	Value    ir.Value
	Datatype ir.IRI
	Err      error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %s to <%s>: %v", ir.FormatTerm(e.Value), e.Datatype, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

type validator func(lexical string) error

func parseInt(bits int) validator {
	return func(s string) error {
		_, err := strconv.ParseInt(s, 10, bits)
		return err
	}
}

func parseFloat(bits int) validator {
	return func(s string) error {
		switch s {
		case "INF", "-INF", "+INF", "NaN":
			return nil
		}
		_, err := strconv.ParseFloat(s, bits)
		return err
	}
}

func parseTime(layouts ...string) validator {
	return func(s string) error {
		var err error
		for _, layout := range layouts {
			if _, err = time.Parse(layout, s); err == nil {
				return nil
			}
		}
		return err
	}
}

// validators lists the datatypes whose lexical space is checked. Casts to
// other datatypes retype the literal without validation.
var validators = map[ir.IRI]validator{
	vocab.XSDInteger: func(s string) error {
		if _, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10); !ok {
			return fmt.Errorf("invalid integer")
		}
		return nil
	},
	vocab.XSDInt:  parseInt(32),
	vocab.XSDLong: parseInt(64),
	vocab.XSDDecimal: func(s string) error {
		if strings.ContainsAny(s, "eEInN") {
			return fmt.Errorf("invalid decimal")
		}
		_, err := strconv.ParseFloat(s, 64)
		return err
	},
	vocab.XSDDouble: parseFloat(64),
	vocab.XSDFloat:  parseFloat(32),
	vocab.XSDBoolean: func(s string) error {
		switch s {
		case "true", "false", "1", "0":
			return nil
		}
		return fmt.Errorf("invalid boolean")
	},
	vocab.XSDDate:     parseTime("2006-01-02", "2006-01-02Z07:00"),
	vocab.XSDDateTime: parseTime(time.RFC3339Nano, "2006-01-02T15:04:05.999999999"),
	vocab.XSDAnyURI: func(s string) error {
		_, err := url.Parse(s)
		return err
	},
}

// cast retypes a literal. Other terms are returned unchanged.
func cast(v ir.Value, dt ir.IRI) (ir.Value, error) {
	lit, ok := v.(ir.Literal)
	if !ok {
		return v, nil
	}
	lexical := strings.TrimSpace(lit.Lexical)
	if validate := validators[dt]; validate != nil {
		if err := validate(lexical); err != nil {
			return nil, &CastError{Value: v, Datatype: dt, Err: err}
		}
	}
	if dt == vocab.XSDString {
		return ir.NewLiteral(lit.Lexical), nil
	}
	return ir.NewTypedLiteral(lexical, dt), nil
}
