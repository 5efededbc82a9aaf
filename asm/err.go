package asm

import (
	"errors"
	"fmt"
)

var (
	ErrEquateSyntax    = errors.New("EQU syntax")
	ErrEquateDuplicate = errors.New("EQU duplicated")
	ErrLabelDuplicate  = errors.New("label duplicated")
	ErrOrgSyntax       = errors.New("ORG syntax")
	ErrDwSyntax        = errors.New("DW syntax")
	ErrDwRange         = errors.New("DW value exceeds 12 bits")
	ErrOperandMissing  = errors.New("operand missing")
	ErrOperandExtra    = errors.New("excessive operands")
	ErrMnemonicUnknown = errors.New("mnemonic unknown")
	ErrDestInvalid     = errors.New("destination must be W, F, 0, or 1")
	ErrTrisInvalid     = errors.New("TRIS operand must be GPIO or 1..7")
	ErrAddressOverflow = errors.New("program counter beyond flash")
)

// ErrLabelMissing reports a jump target that was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return fmt.Sprintf("label %v missing", string(el))
}

// ErrParseNumber reports a word that should have been numeric.
type ErrParseNumber string

func (ep ErrParseNumber) Error() string {
	return fmt.Sprintf("cannot parse number %q", string(ep))
}

// ErrParseExpression reports a $(...) expression that did not yield an
// integer.
type ErrParseExpression string

func (ep ErrParseExpression) Error() string {
	return fmt.Sprintf("cannot evaluate expression %q", string(ep))
}

// ErrSyntax wraps any assembly error with the offending line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return fmt.Sprintf("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
