package event

import "strings"

// splitNames fans a registration name out into individual event names.
// Names are separated by any run of whitespace.
func splitNames(name string) []string {
	return strings.Fields(name)
}

// expandNames splits every entry of names and flattens the result.
func expandNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, splitNames(n)...)
	}
	return out
}

// unique drops repeated names, keeping the first occurrence of each.
func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// payload reduces an argument list to the single value a combinator records
// for one emission: nil for no arguments, the argument itself for one, and
// the whole list otherwise.
func payload(args []any) any {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	default:
		return append([]any(nil), args...)
	}
}
