// internal/domain/product/options.go
package product

import "strings"

// HasSelectableOptions reports whether the buyer must pick among variants
// before an add-to-cart / add-to-favorites mutation may proceed.
//
// Rules:
//   - nil product -> false
//   - any variant color -> true (short-circuit; attributes not inspected)
//   - otherwise true iff at least one attribute resolves to more than one
//     non-empty trimmed token
//
// Tokens are NOT deduplicated by value: "Red, Red, Blue" counts 3 options.
// Malformed attribute values (neither string nor list) count as no options.
//
// No side effects; safe to call on every read.
func HasSelectableOptions(p *Product) bool {
	if p == nil {
		return false
	}
	if len(p.VariantColorImages) > 0 {
		return true
	}
	for _, raw := range p.Attributes {
		if attributeOptionCount(raw) > 1 {
			return true
		}
	}
	return false
}

// AttributeOptions returns the selectable values per attribute, parsed the
// same way HasSelectableOptions counts them. Attributes that resolve to no
// tokens are omitted. Used by the catalog read model to surface the option
// picker payload.
func AttributeOptions(p *Product) map[string][]string {
	if p == nil || len(p.Attributes) == 0 {
		return nil
	}
	out := make(map[string][]string, len(p.Attributes))
	for name, raw := range p.Attributes {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tokens := attributeTokens(raw)
		if len(tokens) > 0 {
			out[name] = tokens
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func attributeOptionCount(raw any) int {
	return len(attributeTokens(raw))
}

func attributeTokens(raw any) []string {
	switch v := raw.(type) {
	case string:
		return SplitOptions(v)
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		// missing / malformed shape -> no options, never an error
		return nil
	}
}

// SplitOptions splits a comma separated attribute value into trimmed
// non-empty tokens, preserving order and repeats.
func SplitOptions(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
