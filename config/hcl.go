package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/jonwraymond/vaultvars/varsource"
)

func parseHCL(data []byte, name string) (*hclsyntax.Body, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %w", name, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("config: parse %s: unexpected body type %T", name, file.Body)
	}
	return body, nil
}

// evalHCL evaluates body into a tree.
func evalHCL(ctx context.Context, body *hclsyntax.Body, r *varsource.Resolver) (map[string]any, error) {
	ectx := &hcl.EvalContext{Functions: sourceFunctions(ctx, r)}
	tree, diags := evalBody(body, ectx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: %w", diags)
	}
	return tree, nil
}

func evalBody(body *hclsyntax.Body, ectx *hcl.EvalContext) (map[string]any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, d := attr.Expr.Value(ectx)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported value",
				Detail:   err.Error(),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		out[name] = goVal
	}

	for _, block := range body.Blocks {
		inner, d := evalBody(block.Body, ectx)
		diags = append(diags, d...)
		insertBlock(out, block.Type, block.Labels, inner)
	}
	return out, diags
}

// evalSettings evaluates only the named settings of a top-level section.
// Other expressions in the section are not evaluated, so they may call
// functions the EvalContext does not define.
func evalSettings(ctx context.Context, body *hclsyntax.Body, r *varsource.Resolver, section string, keys []string) (map[string]any, error) {
	ectx := &hcl.EvalContext{Functions: sourceFunctions(ctx, r)}
	exprs := sectionExprs(body, section)

	var diags hcl.Diagnostics
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		expr, ok := exprs[key]
		if !ok {
			continue
		}
		val, d := expr.Value(ectx)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		v, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("config: %s.%s: %w", section, key, err)
		}
		out[key] = v
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: %w", diags)
	}
	return out, nil
}

// sectionExprs collects the setting expressions of a top-level section
// written either as an unlabeled block or as an object attribute.
func sectionExprs(body *hclsyntax.Body, section string) map[string]hclsyntax.Expression {
	exprs := make(map[string]hclsyntax.Expression)
	for _, block := range body.Blocks {
		if block.Type != section || len(block.Labels) > 0 {
			continue
		}
		for name, attr := range block.Body.Attributes {
			exprs[name] = attr.Expr
		}
	}

	attr, ok := body.Attributes[section]
	if !ok {
		return exprs
	}
	obj, ok := attr.Expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return exprs
	}
	for _, item := range obj.Items {
		if name := hcl.ExprAsKeyword(item.KeyExpr); name != "" {
			exprs[name] = item.ValueExpr
			continue
		}
		key, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() || !key.IsKnown() || key.IsNull() || key.Type() != cty.String {
			continue
		}
		exprs[key.AsString()] = item.ValueExpr
	}
	return exprs
}

// insertBlock nests a block under its type and labels. Repeated unlabeled
// blocks of one type become a list.
func insertBlock(out map[string]any, typ string, labels []string, value map[string]any) {
	if len(labels) == 0 {
		switch existing := out[typ].(type) {
		case nil:
			out[typ] = value
		case []any:
			out[typ] = append(existing, value)
		default:
			out[typ] = []any{existing, value}
		}
		return
	}

	next, ok := out[typ].(map[string]any)
	if !ok {
		next = make(map[string]any)
		out[typ] = next
	}
	insertBlock(next, labels[0], labels[1:], value)
}

// sourceFunctions exposes each resolver source as a one-argument HCL
// function, e.g. vault("secret/app.key").
func sourceFunctions(ctx context.Context, r *varsource.Resolver) map[string]function.Function {
	funcs := make(map[string]function.Function)
	if r == nil {
		return funcs
	}
	for _, name := range r.Names() {
		funcs[name] = sourceFunction(ctx, r, name)
	}
	return funcs
}

func sourceFunction(ctx context.Context, r *varsource.Resolver, name string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "address", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			var address string
			if err := gocty.FromCtyValue(args[0], &address); err != nil {
				return cty.NilVal, err
			}
			v, err := r.Resolve(ctx, varsource.Ref{Source: name, Address: address})
			if err != nil {
				return cty.NilVal, err
			}
			return goToCty(v)
		},
	})
}

// goToCty converts a JSON-compatible Go value through its JSON form.
func goToCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(data, ty)
}

// ctyToGo converts a cty value to plain Go values through its JSON form.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	data, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
