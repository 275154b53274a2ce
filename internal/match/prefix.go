package match

import "unicode/utf8"

// LongestCommonPrefix returns the longest prefix shared by all texts. The
// result never ends inside a multi-byte rune.
func LongestCommonPrefix(texts []string) string {
	if len(texts) == 0 {
		return ""
	}

	prefix := texts[0]
	for _, t := range texts[1:] {
		n := 0
		for n < len(prefix) && n < len(t) && prefix[n] == t[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			return ""
		}
	}

	for len(prefix) > 0 && !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
