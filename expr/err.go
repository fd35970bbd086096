package expr

import (
	"github.com/ezrec/devcpu/translate"
)

var f = translate.From

// ErrEvaluation is returned for text that is not an integer arithmetic
// expression.
type ErrEvaluation struct {
	Text string
	Err  error // Interpreter error, if any.
}

func (err *ErrEvaluation) Error() string {
	if err.Err != nil {
		return f("'%v' is not a valid expression: %v", err.Text, err.Err)
	}
	return f("'%v' is not a valid expression", err.Text)
}

func (err *ErrEvaluation) Unwrap() error {
	return err.Err
}
