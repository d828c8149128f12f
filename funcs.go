package formula

import "strconv"

// Func is a function callable from formulas. Calls are an extension point:
// the package defines no functions of its own, so every call is a
// *NotImplementedError until a Func is installed with SetFunc.
type Func interface {
	// Call evaluates the function. The arguments are evaluated left to right
	// before the call, and their number is one for which CanCall returned
	// true. pos is the cell that owns the formula.
	Call(pos CellPosition, args []Result) (Result, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

// Resolver supplies the values of single-cell references.
type Resolver interface {
	// Resolve returns the value of the cell named by ref, as seen from the
	// formula in the cell at pos. ref.Qualified is false for a reference to
	// the owning sheet.
	Resolve(pos CellPosition, ref *RefNode) (Result, error)
}

// ResolverFunc adapts an ordinary function to a Resolver.
type ResolverFunc func(pos CellPosition, ref *RefNode) (Result, error)

func (f ResolverFunc) Resolve(pos CellPosition, ref *RefNode) (Result, error) {
	return f(pos, ref)
}

type variadic struct {
	f        func(args []Result) (Result, error)
	min, max int
}

func (v variadic) Call(pos CellPosition, args []Result) (Result, error) {
	return v.f(args)
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

// Variadic wraps f into a Func accepting between min and max arguments,
// inclusive. If max is negative, there is no upper bound.
func Variadic(min, max int, f func(args []Result) (Result, error)) Func {
	return variadic{f: f, min: min, max: max}
}

// Monadic wraps a function of one value into a Func.
func Monadic(f func(x Result) (Result, error)) Func {
	return variadic{
		f:   func(args []Result) (Result, error) { return f(args[0]) },
		min: 1,
		max: 1,
	}
}

// Niladic wraps a function of zero values, generally a function which
// computes a constant, into a Func.
func Niladic(f func() Result) Func {
	return variadic{
		f:   func([]Result) (Result, error) { return f(), nil },
		min: 0,
		max: 0,
	}
}

// CallError is an error indicating a function call with the wrong number of
// arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}
