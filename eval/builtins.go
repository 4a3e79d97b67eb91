package eval

import (
	"strings"

	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/ast"
	"github.com/broyeztony/sheets/value"
)

// builtin is one entry of the name->function table: an arity bound
// plus an implementation that receives unevaluated argument
// expressions, not values, so IF/IFERROR/CHOOSE can choose which
// branch to evaluate. MaxArgs of -1 means unbounded.
type builtin struct {
	MinArgs int
	MaxArgs int
	Fn      func(ctx EvalContext, args []ast.Expression) value.Value
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"AND":      {1, -1, boolReduce(func(acc, v bool) bool { return acc && v }, true)},
		"OR":       {1, -1, boolReduce(func(acc, v bool) bool { return acc || v }, false)},
		"XOR":      {1, -1, boolReduce(func(acc, v bool) bool { return acc != v }, false)},
		"NOT":      {1, 1, builtinNot},
		"IF":       {2, 3, builtinIf},
		"IFERROR":  {1, 2, builtinIfError},
		"CHOOSE":   {2, -1, builtinChoose},
		"ISBLANK":  {1, 1, builtinIsBlank},
		"ISERROR":  {1, 1, builtinIsError},
		"EXACT":    {2, 2, builtinExact},
		"INDIRECT": {1, 1, builtinIndirect},
		"VERSION":  {0, 0, builtinVersion},
	}
}

func boolReduce(combine func(acc, v bool) bool, seed bool) func(EvalContext, []ast.Expression) value.Value {
	return func(ctx EvalContext, args []ast.Expression) value.Value {
		acc := seed
		for _, a := range args {
			b, errVal, ok := value.CoerceBool(Evaluate(a, ctx))
			if !ok {
				return errVal
			}
			acc = combine(acc, b)
		}
		return value.Bool(acc)
	}
}

func builtinNot(ctx EvalContext, args []ast.Expression) value.Value {
	b, errVal, ok := value.CoerceBool(Evaluate(args[0], ctx))
	if !ok {
		return errVal
	}
	return value.Bool(!b)
}

func builtinIf(ctx EvalContext, args []ast.Expression) value.Value {
	cond, errVal, ok := value.CoerceBool(Evaluate(args[0], ctx))
	if !ok {
		return errVal
	}
	if cond {
		return Evaluate(args[1], ctx)
	}
	if len(args) == 3 {
		return Evaluate(args[2], ctx)
	}
	return value.Bool(false)
}

func builtinIfError(ctx EvalContext, args []ast.Expression) value.Value {
	v := Evaluate(args[0], ctx)
	if !v.IsError() {
		return v
	}
	if len(args) == 2 {
		return Evaluate(args[1], ctx)
	}
	return value.Text("")
}

func builtinChoose(ctx EvalContext, args []ast.Expression) value.Value {
	idxVal := Evaluate(args[0], ctx)
	if idxVal.IsError() {
		return idxVal
	}
	d, errVal, ok := value.CoerceNumber(idxVal)
	if !ok {
		return errVal
	}
	idx, err := d.Int64()
	if err != nil {
		return value.Err(value.Type, "CHOOSE index is not an integer")
	}
	choices := args[1:]
	if idx < 1 || int(idx) > len(choices) {
		return value.Err(value.Type, "CHOOSE index out of range")
	}
	return Evaluate(choices[idx-1], ctx)
}

func builtinIsBlank(ctx EvalContext, args []ast.Expression) value.Value {
	return value.Bool(Evaluate(args[0], ctx).IsEmpty())
}

func builtinIsError(ctx EvalContext, args []ast.Expression) value.Value {
	return value.Bool(Evaluate(args[0], ctx).IsError())
}

func builtinExact(ctx EvalContext, args []ast.Expression) value.Value {
	a := Evaluate(args[0], ctx)
	b := Evaluate(args[1], ctx)
	if errVal, found := value.FirstError(a, b); found {
		return errVal
	}
	at, errVal, ok := value.CoerceText(a)
	if !ok {
		return errVal
	}
	bt, errVal, ok := value.CoerceText(b)
	if !ok {
		return errVal
	}
	return value.Bool(at == bt)
}

// builtinIndirect parses the text-coerced argument as "SHEET!ADDR" or a
// bare "ADDR" (owning sheet) and performs a dynamic lookup. It never
// participates in the static reference extractor: the resulting
// dependency has no graph edge, so the caller must already know this
// cell may go stale.
func builtinIndirect(ctx EvalContext, args []ast.Expression) value.Value {
	v := Evaluate(args[0], ctx)
	if v.IsError() {
		return v
	}
	text, errVal, ok := value.CoerceText(v)
	if !ok {
		return errVal
	}
	var sheet *string
	addr := text
	if bang := strings.LastIndex(text, "!"); bang >= 0 {
		s := strings.Trim(text[:bang], "'")
		sheet = &s
		addr = text[bang+1:]
	}
	if _, err := address.Parse(addr); err != nil {
		return value.Err(value.BadRef, "INDIRECT: unparsable reference "+text)
	}
	return ctx.GetValue(sheet, addr)
}

func builtinVersion(ctx EvalContext, args []ast.Expression) value.Value {
	return value.Text(ctx.EngineVersion())
}
