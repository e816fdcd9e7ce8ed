package passmgr

import "strings"

// Invocation is a parsed pass-invocation surface form: `id` or
// `id(a0, a1, k=v, ...)`. All values are strings; escaping is not
// supported, matching the textual grammar (commas and parens may not
// appear inside an argument value).
type Invocation struct {
	ID         string
	Positional []string
	Keyword    map[string]string
}

// ParseInvocation parses one invocation surface string.
func ParseInvocation(s string) (Invocation, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open == -1 {
		if s == "" {
			return Invocation{}, ErrBadArguments
		}
		return Invocation{ID: s}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return Invocation{}, ErrBadArguments
	}
	id := strings.TrimSpace(s[:open])
	if id == "" {
		return Invocation{}, ErrBadArguments
	}
	body := strings.TrimSpace(s[open+1 : len(s)-1])
	inv := Invocation{ID: id}
	if body == "" {
		return inv, nil
	}
	for _, raw := range strings.Split(body, ",") {
		arg := strings.TrimSpace(raw)
		if arg == "" {
			return Invocation{}, ErrBadArguments
		}
		if eq := strings.IndexByte(arg, '='); eq != -1 {
			key := strings.TrimSpace(arg[:eq])
			val := strings.TrimSpace(arg[eq+1:])
			if key == "" {
				return Invocation{}, ErrBadArguments
			}
			if inv.Keyword == nil {
				inv.Keyword = map[string]string{}
			}
			inv.Keyword[key] = val
		} else {
			if len(inv.Keyword) > 0 {
				// positional after keyword is a shape error
				return Invocation{}, ErrBadArguments
			}
			inv.Positional = append(inv.Positional, arg)
		}
	}
	return inv, nil
}

// Resolve binds an invocation's positional and keyword arguments
// against a pass's formal parameter list, filling unbound formals with
// their defaults. The returned map is keyed by parameter name; the
// returned slice is the fully-resolved tuple in declaration order,
// used as the memoization key.
func Resolve(params []Param, inv Invocation) (map[string]string, []string, error) {
	bound := make(map[string]string, len(params))
	positionalParams := 0
	for _, p := range params {
		if p.Positional {
			positionalParams++
		}
	}
	if len(inv.Positional) > positionalParams {
		return nil, nil, ErrBadArguments
	}
	pi := 0
	for _, p := range params {
		if p.Positional && pi < len(inv.Positional) {
			bound[p.Name] = inv.Positional[pi]
			pi++
		}
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		seen[p.Name] = true
	}
	for k := range inv.Keyword {
		if !seen[k] {
			return nil, nil, ErrBadArguments
		}
	}
	for _, p := range params {
		if v, ok := inv.Keyword[p.Name]; ok {
			if _, already := bound[p.Name]; already {
				return nil, nil, ErrBadArguments
			}
			bound[p.Name] = v
		}
	}
	tuple := make([]string, len(params))
	for i, p := range params {
		if v, ok := bound[p.Name]; ok {
			tuple[i] = v
		} else {
			tuple[i] = p.Default
			bound[p.Name] = p.Default
		}
	}
	return bound, tuple, nil
}

func tupleKey(id string, tuple []string) string {
	var b strings.Builder
	b.WriteString(id)
	for _, v := range tuple {
		b.WriteByte('\x1f')
		b.WriteString(v)
	}
	return b.String()
}
