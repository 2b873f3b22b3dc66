package rsmq

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	vtMin, vtMax           = 0, 259200
	delayMin, delayMax     = 0, 9_999_999
	maxsizeMin, maxsizeMax = 1024, 65536
	maxsizeUnlimited       = -1

	defaultVt      = 30
	defaultDelay   = 0
	defaultMaxsize = 65536
)

var (
	qnameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,160}$`)
	idRe    = regexp.MustCompile(`^[A-Za-z0-9:]{32}$`)
)

// validate wraps a single *validator.Validate, registered once per process
// with the custom tags RSMQ needs, built once and reused across calls —
// using Var-level validation since RSMQ operations take loose parameters
// rather than bound request structs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("qname", func(fl validator.FieldLevel) bool {
		return qnameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("rsmqid", func(fl validator.FieldLevel) bool {
		return idRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("maxsize", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n == maxsizeUnlimited || (n >= maxsizeMin && n <= maxsizeMax)
	})
	return v
}

func validateQname(op, qname string) error {
	if err := validate.Var(qname, "required,qname"); err != nil {
		return newInvalidValueError(op, "qname", qname)
	}
	return nil
}

func validateMessageID(op, id string) error {
	if err := validate.Var(id, "required,rsmqid"); err != nil {
		return newInvalidValueError(op, "id", id)
	}
	return nil
}

func validateVt(op string, vt int64) error {
	if err := validate.Var(vt, "gte=0,lte=259200"); err != nil {
		return newInvalidValueError(op, "vt", vt)
	}
	return nil
}

func validateDelay(op string, delay int64) error {
	if err := validate.Var(delay, "gte=0,lte=9999999"); err != nil {
		return newInvalidValueError(op, "delay", delay)
	}
	return nil
}

func validateSecondsHidden(op string, seconds int64) error {
	if err := validate.Var(seconds, "gte=0,lte=9999999"); err != nil {
		return newInvalidValueError(op, "seconds_hidden", seconds)
	}
	return nil
}

func validateMaxsize(op string, maxsize int64) error {
	if err := validate.Var(maxsize, "maxsize"); err != nil {
		return newInvalidValueError(op, "maxsize", maxsize)
	}
	return nil
}
