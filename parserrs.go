package formula

import "strconv"

// TokenError is an error indicating a token that cannot appear where the
// parser found it. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the text of the token.
	Token string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Token))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// EOFError is an error indicating that the input ended where the parser
// required another token. It implements InputError.
type EOFError struct {
	// Col is the position just past the last token.
	Col int
}

func (err *EOFError) Error() string {
	return errpos(err.Col, "unexpected end of input")
}

func (err *EOFError) Pos() int {
	return err.Col
}

// RangeError is an error indicating a : between operands that do not form a
// range. It implements InputError.
type RangeError struct {
	// Col is the position of the colon.
	Col int
	// Reason describes the operand that was wrong.
	Reason string
}

func (err *RangeError) Error() string {
	return errpos(err.Col, "invalid range: "+err.Reason)
}

func (err *RangeError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an open parenthesis with no matching
// close parenthesis. It implements InputError.
type BracketError struct {
	// Col is the position of the open parenthesis.
	Col int
}

func (err *BracketError) Error() string {
	return errpos(err.Col, "unmatched parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SheetError is an error indicating a malformed sheet-qualified reference.
// It implements InputError.
type SheetError struct {
	// Col is the position of the token following the sheet name.
	Col int
	// Sheet is the sheet name.
	Sheet string
	// Marker is false if the sheet name was not followed by !, and true if
	// the token after the ! was not a reference, name, or number.
	Marker bool
}

func (err *SheetError) Error() string {
	if !err.Marker {
		return errpos(err.Col, "expected ! after sheet "+strconv.Quote(err.Sheet))
	}
	return errpos(err.Col, "invalid cross-sheet reference on sheet "+strconv.Quote(err.Sheet))
}

func (err *SheetError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid formula text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token or character that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*EOFError)(nil)
	_ InputError = (*RangeError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SheetError)(nil)
	_ InputError = (*LexError)(nil)
)
