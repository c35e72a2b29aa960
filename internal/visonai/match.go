package visonai

// indexIgnoreCase returns the index of substr in s, ignoring ASCII case.
// Bytes outside A-Z are compared as-is, so multi-byte characters only
// match themselves.
func indexIgnoreCase(s, substr string) int {
	sLower := toLower(s)
	substrLower := toLower(substr)

	for i := 0; i <= len(sLower)-len(substrLower); i++ {
		if sLower[i:i+len(substrLower)] == substrLower {
			return i
		}
	}

	return -1
}

func equalFoldASCII(a, b string) bool {
	return len(a) == len(b) && toLower(a) == toLower(b)
}

// toLower lowercases ASCII letters only.
func toLower(s string) string {
	result := make([]byte, len(s))
	for i := range len(s) {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			result[i] = c + 'a' - 'A'
		} else {
			result[i] = c
		}
	}

	return string(result)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && equalFoldASCII(s[:len(prefix)], prefix)
}
