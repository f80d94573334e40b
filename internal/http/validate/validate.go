// Package validate turns raw path/query/body values into typed, constraint
// checked parameters. Every violated constraint is reported; the caller sees
// all problems in one response, not just the first.
package validate

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("hash64", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) == 64 && hexPattern.MatchString(s)
	}); err != nil {
		panic(fmt.Sprintf("failed to register hash64 validation: %v", err))
	}

	if err := validate.RegisterValidation("pubkey", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return (len(s) == 66 || len(s) == 130) && hexPattern.MatchString(s)
	}); err != nil {
		panic(fmt.Sprintf("failed to register pubkey validation: %v", err))
	}

	if err := validate.RegisterValidation("hexstring", func(fl validator.FieldLevel) bool {
		return hexPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register hexstring validation: %v", err))
	}

	return validate
}

// Check runs the schema over already-coerced params and merges the coercion
// problems collected on the way in. Validation is all-or-nothing: any problem
// means no ValidatedParams and no upstream call.
func Check(v *validator.Validate, params any, coercionProblems []string) *gatewayerr.Error {
	problems := make([]string, 0, len(coercionProblems))
	problems = append(problems, coercionProblems...)

	if err := v.Struct(params); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return gatewayerr.Internal(err)
		}

		for _, fe := range validationErrors {
			problems = append(problems, message(fe))
		}
	}

	if len(problems) > 0 {
		return gatewayerr.Validation(problems)
	}

	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required (%s)", field, fe.Param())
	case "hash64":
		return fmt.Sprintf("%s must be a 64-character hex hash", field)
	case "pubkey":
		return fmt.Sprintf("%s must be a 66- or 130-character hex public key", field)
	case "hexstring":
		return fmt.Sprintf("%s must contain only hex characters", field)
	case "len":
		return fmt.Sprintf("%s must have length %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed constraint %s", field, fe.Tag())
	}
}

// Collector gathers type-coercion failures from raw string input so they can
// be reported together with schema violations.
type Collector struct {
	problems []string
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Problems() []string {
	return c.problems
}

// Add records a problem found by hand-rolled coercion the tag language
// cannot express.
func (c *Collector) Add(problem string) {
	c.problems = append(c.problems, problem)
}

// Int coerces a raw query/path value; an empty raw keeps the default.
func (c *Collector) Int(name, raw string, def int) int {
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		return def
	}

	return value
}

func (c *Collector) Int64(name, raw string, def int64) int64 {
	if raw == "" {
		return def
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		return def
	}

	return value
}

// Bool implements the boolean query policy: the literals "true" and "false"
// coerce, anything else (absent, "1", "no") resolves to the endpoint's
// documented default. This never produces a validation problem.
func (c *Collector) Bool(raw string, def bool) bool {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}
