package expressivo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest names a tool and carries its decoded JSON params.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse holds either a result with its rendering or an error.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall dispatches req to the named tool. Failures are reported
// in ToolResponse.Error.
func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		e, err := FromJSON(val)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", key, err)
		}
		return e, nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getEnv := func(key string) (Env, error) {
		v, ok := req.Params[key]
		if !ok || v == nil {
			return Env{}, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be an object", key)
		}
		env := make(Env, len(raw))
		for name, val := range raw {
			f, ok := val.(float64)
			if !ok {
				return nil, fmt.Errorf("param %s.%s must be a number", key, name)
			}
			env[name] = f
		}
		return env, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: toJSON(e), String: String(e)}
	}

	switch req.Tool {
	case "render":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if _, err := NewVariable(v); err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Diff(e, v))

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		env, err := getEnv("env")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Simplify(e, env))

	case "equal":
		a, err := getExpr("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getExpr("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		eq := Equal(a, b)
		return ToolResponse{Result: eq, String: strconv.FormatBool(eq)}

	case "hash":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		h := fmt.Sprintf("%016x", Hash(e))
		return ToolResponse{Result: h, String: h}

	case "free_variables":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		names := FreeVariables(e)
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return ToolResponse{Error: "unknown tool: " + req.Tool}
}

// HandleBatch runs each request through HandleToolCall with at most
// limit calls in flight (limit <= 0 means no bound). Responses keep the
// order of reqs. Tool failures are reported per response; the returned
// error is non-nil only when ctx ends first.
func HandleBatch(ctx context.Context, reqs []ToolRequest, limit int) ([]ToolResponse, error) {
	out := make([]ToolResponse, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		i, req := i, req
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = HandleToolCall(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done after Wait; only the caller's ctx matters here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================
// Tool schema
// ============================================================

func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("render", "Render an expression in canonical form", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("diff", "Derivative d/dvar, unsimplified", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("simplify", "Substitute env bindings and fold constant operators", []string{"expr"}, map[string]string{"expr": "object", "env": "object"}),
		ts("equal", "Structural, order-sensitive equality", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}),
		ts("hash", "Structural hash as 16 hex digits", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("free_variables", "Sorted variable names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
