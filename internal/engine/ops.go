package engine

import (
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
)

// Ordering is the result of Compare.
type Ordering int

const (
	// LessThan means Y < X: the earlier-pushed operand is smaller.
	LessThan Ordering = -1

	// Equal means Y == X.
	Equal Ordering = 0

	// GreaterThan means Y > X.
	GreaterThan Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case LessThan:
		return "LessThan"
	case Equal:
		return "Equal"
	case GreaterThan:
		return "GreaterThan"
	default:
		return "Ordering(?)"
	}
}

// PushFromString parses decimal text and pushes the value.
// Validate-then-commit: the parse and the compact conversion both
// complete before the stack mutates; any failure leaves it untouched.
func (e *Engine) PushFromString(s string) error {
	if err := e.ready(); err != nil {
		return err
	}
	f, err := fp.ParseDecimal(s)
	if err != nil {
		e.record("push", "", "", err)
		return err
	}
	c, err := fp.EncodeFloat64(f)
	if err != nil {
		e.record("push", "", "", err)
		return err
	}
	e.stack.Push(c)
	e.record("push", "", renderCompact(c), nil)
	return nil
}

// PushFromInt converts an integer and pushes it. Same validate-then-
// commit contract as PushFromString.
func (e *Engine) PushFromInt(i int) error {
	if err := e.ready(); err != nil {
		return err
	}
	c, err := fp.EncodeFloat64(float64(i))
	if err != nil {
		e.record("push", "", "", err)
		return err
	}
	e.stack.Push(c)
	e.record("push", "", renderCompact(c), nil)
	return nil
}

// PullToString consumes the top of the stack and renders it. One value
// consumed, one shift.
func (e *Engine) PullToString(precision, width int, mode fp.Mode) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	if e.stack.Depth() < 1 {
		e.record("pull", "", "", ErrTooFewOperands)
		return "", ErrTooFewOperands
	}

	x, err := e.stack.ShiftOut()
	if err != nil {
		return "", e.invariant("pull", err)
	}

	var f float64
	if !x.IsZero() {
		f = fp.ToFloat64(fp.Decode(x))
	}
	s := fp.FormatDecimal(f, precision, width, mode)
	e.record("pull", "", s, nil)
	return s, nil
}

// Binary operations: Y = second-from-top (pushed earlier), X = top
// (pushed later), result = Y op X. Net effect -1.

func (e *Engine) Add() error { return e.binary(op.Add) }
func (e *Engine) Sub() error { return e.binary(op.Sub) }
func (e *Engine) Mul() error { return e.binary(op.Mul) }
func (e *Engine) Div() error { return e.binary(op.Div) }

// Unary operations: consume the top, produce one result. Net effect 0.

func (e *Engine) Sqrt() error   { return e.unary(op.Sqrt) }
func (e *Engine) Square() error { return e.unary(op.Sqr) }
func (e *Engine) Neg() error    { return e.unary(op.Neg) }
func (e *Engine) Sin() error    { return e.unary(op.Sin) }
func (e *Engine) Cos() error    { return e.unary(op.Cos) }
func (e *Engine) Tan() error    { return e.unary(op.Tan) }
func (e *Engine) Atan() error   { return e.unary(op.Atan) }
func (e *Engine) Ln() error     { return e.unary(op.Ln) }
func (e *Engine) Exp() error    { return e.unary(op.Exp) }

// Compare consumes Y and X and classifies Y - X without pushing anything.
// Net effect -2.
//
// It is composed from subtraction: the same consumption helper and the
// same backend compute Sub uses, so its classification agrees with the
// sign and zero of the value Sub would have pushed. The difference is
// captured into a local immediately after the backend returns and
// classified there; Compare performs zero shifts beyond the two the
// consumption already did. The historical defect was an extra shift here
// on top of the subtraction's own, which promoted stale slots into the
// live stack.
func (e *Engine) Compare() (Ordering, error) {
	if err := e.ready(); err != nil {
		return Equal, err
	}
	if e.stack.Depth() < 2 {
		e.record("compare", "", "", ErrTooFewOperands)
		return Equal, ErrTooFewOperands
	}
	preDepth := e.stack.Depth()
	preShifts := e.stack.Shifts()

	y, x, err := e.take2("compare")
	if err != nil {
		return Equal, err
	}

	diff, err := e.backend.Apply(op.Sub, x, &y)
	if err != nil {
		// Propagate the subtraction's error verbatim; restore the
		// operands so the error path consumes exactly what the
		// success path would have at this depth.
		e.stack.Push(y)
		e.stack.Push(x)
		e.record("compare", e.backend.Name(), "", err)
		if ierr := e.check("compare", preDepth, preShifts+2); ierr != nil {
			return Equal, ierr
		}
		return Equal, err
	}

	var ord Ordering
	switch {
	case diff.IsZero():
		ord = Equal
	case diff.Negative():
		ord = LessThan
	default:
		ord = GreaterThan
	}

	e.record("compare", e.backend.Name(), ord.String(), nil)
	if ierr := e.check("compare", preDepth-2, preShifts+2); ierr != nil {
		return Equal, ierr
	}
	return ord, nil
}

// Pow computes Y^X as exp(X * ln Y), with the zero and sign edge cases
// resolved before delegation. Sub-operation errors propagate verbatim.
// Net effect -1, like any binary operation.
func (e *Engine) Pow() error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.stack.Depth() < 2 {
		e.record("pow", "", "", ErrTooFewOperands)
		return ErrTooFewOperands
	}
	preDepth := e.stack.Depth()
	preShifts := e.stack.Shifts()

	y, x, err := e.take2("pow")
	if err != nil {
		return err
	}

	res, err := e.powCompute(y, x)
	if err != nil {
		e.stack.Push(y)
		e.stack.Push(x)
		e.record("pow", e.backend.Name(), "", err)
		if ierr := e.check("pow", preDepth, preShifts+2); ierr != nil {
			return ierr
		}
		return err
	}

	e.stack.Push(res)
	e.record("pow", e.backend.Name(), renderCompact(res), nil)
	return e.check("pow", preDepth-1, preShifts+2)
}

// powCompute runs the exp/mul/ln composition on local values only; the
// stack is not involved between the consumption and the final push.
func (e *Engine) powCompute(y, x fp.CompactFloat) (fp.CompactFloat, error) {
	one, err := fp.EncodeFloat64(1)
	if err != nil {
		return fp.Zero(), err
	}

	switch {
	case x.IsZero():
		// Y^0 == 1, including 0^0 by this engine's convention.
		return one, nil
	case y.IsZero():
		if x.Negative() {
			// 0^negative divides by zero. Let the backend produce
			// the fault so the error shape matches a direct Div on
			// the same path.
			_, err := e.backend.Apply(op.Div, y, &x)
			return fp.Zero(), err
		}
		return fp.Zero(), nil
	}

	lnY, err := e.backend.Apply(op.Ln, y, nil)
	if err != nil {
		return fp.Zero(), err
	}
	prod, err := e.backend.Apply(op.Mul, x, &lnY)
	if err != nil {
		return fp.Zero(), err
	}
	return e.backend.Apply(op.Exp, prod, nil)
}

// take2 consumes X (top) then Y (second-from-top): exactly two shifts
// for two consumed values. Underflow here means the depth validation and
// the stack disagree, which is an invariant violation, not a user error.
func (e *Engine) take2(opName string) (y, x fp.CompactFloat, err error) {
	x, err = e.stack.ShiftOut()
	if err != nil {
		return fp.Zero(), fp.Zero(), e.invariant(opName, err)
	}
	y, err = e.stack.ShiftOut()
	if err != nil {
		return fp.Zero(), fp.Zero(), e.invariant(opName, err)
	}
	return y, x, nil
}

func (e *Engine) binary(operation op.Op) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.stack.Depth() < 2 {
		e.record(operation.Name, "", "", ErrTooFewOperands)
		return ErrTooFewOperands
	}
	preDepth := e.stack.Depth()
	preShifts := e.stack.Shifts()

	y, x, err := e.take2(operation.Name)
	if err != nil {
		return err
	}

	res, err := e.backend.Apply(operation, x, &y)
	if err != nil {
		// Restore to pre-call depth and contents; the availability
		// flag is untouched even when err is a Timeout.
		e.stack.Push(y)
		e.stack.Push(x)
		e.record(operation.Name, e.backend.Name(), "", err)
		if ierr := e.check(operation.Name, preDepth, preShifts+2); ierr != nil {
			return ierr
		}
		return err
	}

	e.stack.Push(res)
	e.record(operation.Name, e.backend.Name(), renderCompact(res), nil)
	return e.check(operation.Name, preDepth-1, preShifts+2)
}

func (e *Engine) unary(operation op.Op) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.stack.Depth() < 1 {
		e.record(operation.Name, "", "", ErrTooFewOperands)
		return ErrTooFewOperands
	}
	preDepth := e.stack.Depth()
	preShifts := e.stack.Shifts()

	x, err := e.stack.ShiftOut()
	if err != nil {
		return e.invariant(operation.Name, err)
	}

	res, err := e.backend.Apply(operation, x, nil)
	if err != nil {
		e.stack.Push(x)
		e.record(operation.Name, e.backend.Name(), "", err)
		if ierr := e.check(operation.Name, preDepth, preShifts+1); ierr != nil {
			return ierr
		}
		return err
	}

	e.stack.Push(res)
	e.record(operation.Name, e.backend.Name(), renderCompact(res), nil)
	return e.check(operation.Name, preDepth, preShifts+1)
}

// check verifies the net stack effect of a completed call against its
// documented arity.
func (e *Engine) check(opName string, wantDepth int, wantShifts uint64) error {
	if e.stack.Depth() == wantDepth && e.stack.Shifts() == wantShifts {
		return nil
	}
	err := &InvariantError{
		Op:         opName,
		WantDepth:  wantDepth,
		GotDepth:   e.stack.Depth(),
		WantShifts: wantShifts,
		GotShifts:  e.stack.Shifts(),
	}
	e.log.Error("invariant violated", "err", err)
	return err
}

func (e *Engine) invariant(opName string, cause error) error {
	err := &InvariantError{
		Op:        opName,
		GotDepth:  e.stack.Depth(),
		WantDepth: -1,
	}
	e.log.Error("invariant violated", "err", err, "cause", cause)
	return err
}
