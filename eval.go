package formula

import (
	"strconv"
	"strings"
)

// Interpreter computes formulas. It reuses its lexer and parser between
// calls, so it is not safe to use an Interpreter concurrently; use Clone to
// get one per goroutine.
type Interpreter struct {
	lex   Lexer
	parse Parser
	names map[string]Result
	funcs map[string]Func
	res   Resolver
}

// NewInterpreter creates an interpreter with the given options applied in
// order.
func NewInterpreter(opts ...Option) *Interpreter {
	var it Interpreter
	return it.Clone(opts...)
}

// Clone creates a copy of an interpreter with the same names, functions, and
// resolver, and applies opts to it. The copy has its own scratch buffers.
func (it *Interpreter) Clone(opts ...Option) *Interpreter {
	n := Interpreter{res: it.res}
	if len(it.names) > 0 {
		n.names = make(map[string]Result, len(it.names))
		for k, v := range it.names {
			n.names[k] = v
		}
	}
	if len(it.funcs) > 0 {
		n.funcs = make(map[string]Func, len(it.funcs))
		for k, v := range it.funcs {
			n.funcs[k] = v
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.option(&n)
		}
	}
	return &n
}

// Set sets the value of a name. Returns it for chaining.
func (it *Interpreter) Set(name string, val Result) *Interpreter {
	if it.names == nil {
		it.names = make(map[string]Result)
	}
	it.names[name] = val
	return it
}

// Lookup returns the value of a name and whether it is defined.
func (it *Interpreter) Lookup(name string) (Result, bool) {
	v, ok := it.names[name]
	return v, ok
}

// Compute scans, parses, and evaluates a formula owned by the cell at pos.
func (it *Interpreter) Compute(formula string, pos CellPosition) (Result, error) {
	toks, err := it.lex.Scan(formula)
	if err != nil {
		return Result{}, err
	}
	n, err := it.parse.Parse(toks)
	if err != nil {
		return Result{}, err
	}
	return it.Eval(n, pos)
}

// Eval evaluates a parsed formula owned by the cell at pos.
func (it *Interpreter) Eval(n Node, pos CellPosition) (Result, error) {
	return it.eval(n, pos)
}

// Compute is a shortcut to compute a formula with a new Interpreter. It is
// safe to call concurrently.
func Compute(formula string, pos CellPosition, opts ...Option) (Result, error) {
	return NewInterpreter(opts...).Compute(formula, pos)
}

func (it *Interpreter) eval(n Node, pos CellPosition) (Result, error) {
	switch n := n.(type) {
	case *NumNode:
		return NumberResult(n.Value), nil
	case *StrNode:
		return StringResult(n.Value), nil
	case *BoolNode:
		return BoolResult(n.Value), nil
	case *SignedNode:
		x, err := it.eval(n.X, pos)
		if err != nil {
			return Result{}, err
		}
		sign := "+"
		if n.Sign < 0 {
			sign = "-"
		}
		switch x.Kind {
		case KindNumber:
			return NumberResult(n.Sign * x.Num), nil
		case KindString:
			// A sign on a string is kept as text rather than coerced.
			return StringResult(sign + x.Text), nil
		default:
			return Result{}, &TypeError{Op: sign, Kind: x.Kind}
		}
	case *BinaryNode:
		return it.binop(n, pos)
	case *VarNode:
		v, ok := it.names[n.Name]
		if !ok {
			return Result{}, &NameError{Name: n.Name}
		}
		return v, nil
	case *RefNode:
		if it.res == nil {
			return Result{}, &NotImplementedError{Node: n}
		}
		return it.res.Resolve(pos, n)
	case *CallNode:
		return it.call(n, pos)
	default:
		// Ranges have no single value.
		return Result{}, &NotImplementedError{Node: n}
	}
}

func (it *Interpreter) binop(n *BinaryNode, pos CellPosition) (Result, error) {
	l, err := it.eval(n.Left, pos)
	if err != nil {
		return Result{}, err
	}
	r, err := it.eval(n.Right, pos)
	if err != nil {
		return Result{}, err
	}
	switch n.Op {
	case TokenPlus, TokenMinus, TokenMul, TokenDiv:
		a, err := l.number(n.Op)
		if err != nil {
			return Result{}, err
		}
		b, err := r.number(n.Op)
		if err != nil {
			return Result{}, err
		}
		switch n.Op {
		case TokenPlus:
			return NumberResult(a + b), nil
		case TokenMinus:
			return NumberResult(a - b), nil
		case TokenMul:
			return NumberResult(a * b), nil
		default:
			return NumberResult(a / b), nil
		}
	case TokenEe, TokenNe, TokenGt, TokenLt, TokenGte, TokenLte:
		b, err := compare(n.Op, l, r)
		if err != nil {
			return Result{}, err
		}
		return BoolResult(b), nil
	case TokenAnd:
		return StringResult(l.String() + r.String()), nil
	default:
		return Result{}, &OperatorError{Op: n.Op}
	}
}

func (it *Interpreter) call(n *CallNode, pos CellPosition) (Result, error) {
	fn := it.funcs[strings.ToUpper(n.Name)]
	if fn == nil {
		return Result{}, &NotImplementedError{Node: n}
	}
	if !fn.CanCall(len(n.Args)) {
		return Result{}, &CallError{Func: n.Name, Len: len(n.Args)}
	}
	args := make([]Result, len(n.Args))
	for i, arg := range n.Args {
		v, err := it.eval(arg, pos)
		if err != nil {
			return Result{}, err
		}
		args[i] = v
	}
	return fn.Call(pos, args)
}

// CoercionError is an error from an arithmetic operand that is a string which
// does not parse as a number.
type CoercionError struct {
	// Text is the string that failed to convert.
	Text string
}

func (err *CoercionError) Error() string {
	return "cannot convert " + strconv.Quote(err.Text) + " to number"
}

// TypeError is an error from an operator applied to a value of the wrong
// kind, like a sign on a boolean.
type TypeError struct {
	// Op is the operator.
	Op string
	// Kind is the kind of the offending operand.
	Kind Kind
}

func (err *TypeError) Error() string {
	return "cannot apply " + err.Op + " to " + err.Kind.String()
}

// NotImplementedError is an error from evaluating a node that needs a
// collaborator the interpreter does not have: a reference without a
// Resolver, a call to a function that is not set, or any range.
type NotImplementedError struct {
	// Node is the node that could not be evaluated.
	Node Node
}

func (err *NotImplementedError) Error() string {
	what := "node"
	switch n := err.Node.(type) {
	case *RefNode:
		what = "cell reference " + n.String()
	case *CallNode:
		what = "call to " + n.Name
	case *RangeNode, *RowRangeNode, *ColRangeNode:
		what = "range " + n.String()
	case *UndeterminedRangeNode:
		what = "sheet-qualified name " + n.String()
	case nil:
		what = "nil node"
	}
	return "not implemented: evaluating " + what
}

// NameError is an error from a lookup for a name that is not defined in the
// interpreter.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined name: " + strconv.Quote(err.Name)
}

// OperatorError is an error from a BinaryNode whose operator is not a binary
// operator. The parser never creates one.
type OperatorError struct {
	Op TokenKind
}

func (err *OperatorError) Error() string {
	return "unknown binary operator " + err.Op.String()
}
