package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/kballard/go-shellquote"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeFlags evaluates a compiler_flags expression. A string is split
// with shell quoting rules ("-O2 -DNAME='a b'" gives two flags); anything
// else must convert to a list of strings. A missing or null value yields
// no flags.
func decodeFlags(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("compiler_flags must be known when the workspace is loaded")
	}

	if val.Type() == cty.String {
		flags, err := shellquote.Split(val.AsString())
		if err != nil {
			return nil, fmt.Errorf("cannot split compiler_flags %q: %w", val.AsString(), err)
		}
		return flags, nil
	}

	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("compiler_flags must be a string or a list of strings, got %s", val.Type().FriendlyName())
	}
	var flags []string
	if err := gocty.FromCtyValue(listVal, &flags); err != nil {
		return nil, fmt.Errorf("cannot decode compiler_flags: %w", err)
	}
	return flags, nil
}
