package expressivo

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as a nested {"type": ...} object.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(toJSON(e))
	return string(b), err
}

func toJSON(e Expr) map[string]interface{} {
	switch e := e.(type) {
	case *Number:
		return map[string]interface{}{"type": "number", "value": e.String()}
	case *Variable:
		return map[string]interface{}{"type": "variable", "name": e.name}
	case *Sum:
		return map[string]interface{}{"type": "sum", "left": toJSON(e.left), "right": toJSON(e.right)}
	case *Product:
		return map[string]interface{}{"type": "product", "left": toJSON(e.left), "right": toJSON(e.right)}
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

// ParseJSON decodes a single expression object.
func ParseJSON(data []byte) (Expr, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	return FromJSON(m)
}

// FromJSON builds an expression from its decoded JSON object. Leaves go
// through ParseNumber and NewVariable, so their errors are reported
// unchanged apart from the path prefix.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%s: %q must be a string", typ, field)
		}
		return s, nil
	}

	subExpr := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	operands := func() (Expr, Expr, error) {
		l, err := subExpr("left")
		if err != nil {
			return nil, nil, err
		}
		r, err := subExpr("right")
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	}

	switch typ {
	case "number":
		// numbers may arrive as JSON strings or as JSON numbers
		switch v := data["value"].(type) {
		case string:
			n, err := ParseNumber(v)
			if err != nil {
				return nil, err
			}
			return n, nil
		case float64:
			if n, ok := numFloat(v); ok {
				return n, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidLiteral, v)
		case nil:
			return nil, fmt.Errorf("number: missing 'value'")
		default:
			return nil, fmt.Errorf("number: 'value' must be a string or number")
		}

	case "variable":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		v, err := NewVariable(name)
		if err != nil {
			return nil, err
		}
		return v, nil

	case "sum":
		l, r, err := operands()
		if err != nil {
			return nil, err
		}
		return NewSum(l, r), nil

	case "product":
		l, r, err := operands()
		if err != nil {
			return nil, err
		}
		return NewProduct(l, r), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
