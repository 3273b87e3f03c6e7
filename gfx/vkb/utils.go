package vkb

// safeString null-terminates a string for handoff to the Vulkan API.
// Strings that already carry a terminator pass through untouched, since
// window libraries disagree about providing one.
func safeString(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\x00' {
		return s
	}
	return s + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, len(sgs))
	for i, s := range sgs {
		safe[i] = safeString(s)
	}
	return safe
}

func containsString(sgs []string, want string) bool {
	for _, s := range sgs {
		if s == want {
			return true
		}
	}
	return false
}

// appendUnique appends the values not already present in dst. The API
// rejects requests that name the same extension twice.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !containsString(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
