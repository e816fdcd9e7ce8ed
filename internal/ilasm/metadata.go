package ilasm

import "strings"

// splitMetaBody parses the part of a metadata segment after its
// two-character sigil: "key: v1 v2 …" into the key and its
// whitespace-separated values. A body with no ':' is a bare key with
// no values.
func splitMetaBody(s string) (key string, values []string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, ':')
	if idx == -1 {
		return s, nil
	}
	key = strings.TrimSpace(s[:idx])
	rest := strings.TrimSpace(s[idx+1:])
	if rest == "" {
		return key, nil
	}
	return key, strings.Fields(rest)
}

func formatMeta(sigil byte, key string, values []string) string {
	if len(values) == 0 {
		return ";" + string(sigil) + "!" + key
	}
	return ";" + string(sigil) + "!" + key + ": " + strings.Join(values, " ")
}
