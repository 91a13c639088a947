package hcl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions are callable from any expression in a workspace file.
var functions = map[string]function.Function{
	"coalesce":  stdlib.CoalesceFunc,
	"concat":    stdlib.ConcatFunc,
	"distinct":  stdlib.DistinctFunc,
	"flatten":   stdlib.FlattenFunc,
	"format":    stdlib.FormatFunc,
	"join":      stdlib.JoinFunc,
	"length":    stdlib.LengthFunc,
	"lower":     stdlib.LowerFunc,
	"replace":   stdlib.ReplaceFunc,
	"split":     stdlib.SplitFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"upper":     stdlib.UpperFunc,
}

func newEvalContext(locals map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(locals)},
		Functions: functions,
	}
}

// evalLocals evaluates local attributes in dependency order: a local is
// evaluated once every local it references has a value.
func evalLocals(attrs map[string]*hcl.Attribute) (map[string]cty.Value, error) {
	values := make(map[string]cty.Value, len(attrs))
	pending := make(map[string]*hcl.Attribute, len(attrs))
	for name, attr := range attrs {
		pending[name] = attr
	}

	for len(pending) > 0 {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)

		progressed := false
		for _, name := range names {
			attr := pending[name]
			if waitsOn(attr.Expr, pending) {
				continue
			}
			val, diags := attr.Expr.Value(newEvalContext(values))
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate local %q: %w", name, diags)
			}
			values[name] = val
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("locals reference each other in a cycle: %s", strings.Join(names, ", "))
		}
	}
	return values, nil
}

// waitsOn reports whether expr references a local that is still pending.
func waitsOn(expr hcl.Expression, pending map[string]*hcl.Attribute) bool {
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != "local" || len(traversal) < 2 {
			continue
		}
		if attr, ok := traversal[1].(hcl.TraverseAttr); ok {
			if _, waiting := pending[attr.Name]; waiting {
				return true
			}
		}
	}
	return false
}
