package formula

import "strings"

// Option is an option used when creating an Interpreter.
type Option interface {
	option(*Interpreter)
}

type (
	varopt struct {
		name string
		val  Result
	}
	varsopt map[string]Result
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt    map[string]Func
	resolveropt struct {
		r Resolver
	}
)

func (o varopt) option(it *Interpreter) {
	it.Set(o.name, o.val)
}

func (o varsopt) option(it *Interpreter) {
	for k, v := range o {
		it.Set(k, v)
	}
}

func (o funcopt) option(it *Interpreter) {
	it.setFunc(o.name, o.fn)
}

func (o funcsopt) option(it *Interpreter) {
	for k, v := range o {
		it.setFunc(k, v)
	}
}

func (o resolveropt) option(it *Interpreter) {
	it.res = o.r
}

// SetVar sets the value of a name in the interpreter.
func SetVar(name string, val Result) Option {
	return varopt{name, val}
}

// SetVars sets the values of any number of names in the interpreter.
func SetVars(vars map[string]Result) Option {
	return varsopt(vars)
}

// SetFunc makes a function callable by name. Function names are not case
// sensitive. To remove a function, pass nil for fn.
func SetFunc(name string, fn Func) Option {
	return funcopt{name, fn}
}

// SetFuncs makes a group of functions callable. Nil entries remove functions.
func SetFuncs(fns map[string]Func) Option {
	return funcsopt(fns)
}

// SetResolver installs the resolver for single-cell references. Without one,
// evaluating a reference is a *NotImplementedError.
func SetResolver(r Resolver) Option {
	return resolveropt{r}
}

func (it *Interpreter) setFunc(name string, fn Func) {
	name = strings.ToUpper(name)
	if fn == nil {
		delete(it.funcs, name)
		return
	}
	if it.funcs == nil {
		it.funcs = make(map[string]Func)
	}
	it.funcs[name] = fn
}
