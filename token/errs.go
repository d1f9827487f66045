package token

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

type ErrorKind int

const (
	TopLevelText ErrorKind = iota
	UnclosedPITag

	ExpectedElementName
	UnclosedElementTag
	UnclosedEmptyElementTag
	UnclosedEndTag
	UnclosedElementEOF
	UnmatchedEndTag

	ExpectedAttributeEq
	ExpectedAttributeValue
	UnclosedAttributeValue

	UnclosedComment
	UnclosedCData
	UnclosedUnknownSpecial
	DoctypeEOF
)

func (k ErrorKind) Message() string {
	switch k {
	case TopLevelText:
		return "top-level text is forbidden"
	case UnclosedPITag:
		return "unclosed processing instruction"
	case ExpectedElementName:
		return "expected element name"
	case UnclosedElementTag:
		return "expected a `>` or `/`"
	case UnclosedEmptyElementTag:
		return "expected a `>`"
	case UnclosedEndTag:
		return "expected a `>`"
	case UnclosedElementEOF:
		return "unclosed element"
	case UnmatchedEndTag:
		return "unmatched closing tag"
	case ExpectedAttributeEq:
		return "expected `=` after attribute name"
	case ExpectedAttributeValue:
		return "expected an attribute value enclosed in either `'` or `\"`"
	case UnclosedAttributeValue:
		return "unclosed attribute value"
	case UnclosedComment:
		return "unclosed comment"
	case UnclosedCData:
		return "unclosed cdata"
	case UnclosedUnknownSpecial:
		return "unclosed unknown <! tag"
	case DoctypeEOF:
		return "unexpected end of file in <!DOCTYPE"
	}
	return "unknown error"
}

func (k ErrorKind) String() string {
	return k.Message()
}

// Error is a span-located parse error.
type Error struct {
	Kind ErrorKind
	Span Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrParse, e.Kind.Message(), e.Span)
}

func (e *Error) Unwrap() error {
	return ErrParse
}
