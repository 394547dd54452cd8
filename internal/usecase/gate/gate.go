package gate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/PaesslerAG/jsonpath"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// Evaluate applies the pipeline's gate rules against the scores document
// (the JSON file the evaluation stage writes). Every rule is evaluated even
// when earlier ones fail, so the report names all violated thresholds.
func Evaluate(rules []domain.GateRule, scores []byte) []domain.GateResult {
	if len(rules) == 0 {
		return nil
	}

	doc, err := parseJSON(scores)
	if err != nil {
		out := make([]domain.GateResult, 0, len(rules))
		for _, r := range rules {
			out = append(out, domain.GateResult{
				Name:    r.Name,
				Passed:  false,
				Message: "scores file is not valid JSON",
			})
		}
		return out
	}

	out := make([]domain.GateResult, 0, len(rules))
	for _, r := range rules {
		out = append(out, check(r, doc))
	}
	return out
}

func check(rule domain.GateRule, doc any) domain.GateResult {
	val, err := jsonpath.Get(rule.Path, doc)
	if err != nil {
		return domain.GateResult{
			Name:    rule.Name,
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", rule.Path, err),
		}
	}

	f, err := toFloat64(val)
	if err != nil {
		return domain.GateResult{
			Name:    rule.Name,
			Passed:  false,
			Message: fmt.Sprintf("jsonpath %q: %v", rule.Path, err),
		}
	}

	var passed bool
	switch rule.Op {
	case domain.GateGte:
		passed = f >= rule.Value
	case domain.GateLte:
		passed = f <= rule.Value
	case domain.GateEq:
		passed = f == rule.Value
	default:
		return domain.GateResult{
			Name:    rule.Name,
			Passed:  false,
			Message: fmt.Sprintf("unknown gate op %q", rule.Op),
		}
	}

	if passed {
		return domain.GateResult{
			Name:    rule.Name,
			Passed:  true,
			Message: fmt.Sprintf("%v %s %v", f, opSymbol(rule.Op), rule.Value),
		}
	}
	return domain.GateResult{
		Name:    rule.Name,
		Passed:  false,
		Message: fmt.Sprintf("expected %s %v, got %v", opSymbol(rule.Op), rule.Value, f),
	}
}

func opSymbol(op domain.GateOp) string {
	switch op {
	case domain.GateGte:
		return ">="
	case domain.GateLte:
		return "<="
	case domain.GateEq:
		return "=="
	default:
		return string(op)
	}
}

func toFloat64(val any) (float64, error) {
	// jsonpath can return a slice with one element for filter expressions.
	if arr, ok := val.([]any); ok {
		if len(arr) != 1 {
			return 0, fmt.Errorf("expected a single numeric value, got %d matches", len(arr))
		}
		return toFloat64(arr[0])
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
