package webindex

//////////////////////////////////////////////////

// Checks (roughly) if the given string is a valid YouTube channel ID.
func IsValidChannelID(s string) bool {
	return isValidID(s, 6, 64)
}

func isValidID(s string, minLen int, maxLen int) bool {
	if n := len(s); n < minLen || n > maxLen {
		return false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}
