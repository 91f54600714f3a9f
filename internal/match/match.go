// Package match implements redis-style glob matching for key patterns.
//
// Supported syntax: '*' (any run of characters), '?' (any single character),
// '[...]' character classes with ranges, and '\' to escape the next character.
// Unlike path.Match there is no separator character: '*' crosses ':' and '/'.
package match

// Match reports whether key matches the glob pattern.
// A malformed pattern (unterminated class or trailing escape) matches nothing.
func Match(pattern, key string) bool {
	return matchFrom(pattern, key, 0, 0)
}

func matchFrom(p, s string, pi, si int) bool {
	for pi < len(p) {
		switch p[pi] {
		case '*':
			// collapse consecutive stars
			for pi < len(p) && p[pi] == '*' {
				pi++
			}
			if pi == len(p) {
				return true
			}
			for i := si; i <= len(s); i++ {
				if matchFrom(p, s, pi, i) {
					return true
				}
			}
			return false
		case '?':
			if si >= len(s) {
				return false
			}
			pi++
			si++
		case '[':
			if si >= len(s) {
				return false
			}
			ok, next := matchClass(p, pi, s[si])
			if next < 0 || !ok {
				return false
			}
			pi = next
			si++
		case '\\':
			if pi+1 >= len(p) {
				return false
			}
			if si >= len(s) || s[si] != p[pi+1] {
				return false
			}
			pi += 2
			si++
		default:
			if si >= len(s) || s[si] != p[pi] {
				return false
			}
			pi++
			si++
		}
	}
	return si == len(s)
}

// matchClass evaluates a '[...]' class starting at p[pi]=='['.
// Returns whether c is in the class and the index just past ']'; next is -1
// when the class never closes.
func matchClass(p string, pi int, c byte) (ok bool, next int) {
	i := pi + 1
	negate := false
	if i < len(p) && p[i] == '^' {
		negate = true
		i++
	}
	matched := false
	first := true
	for i < len(p) {
		if p[i] == ']' && !first {
			if negate {
				matched = !matched
			}
			return matched, i + 1
		}
		first = false
		if p[i] == '\\' && i+1 < len(p) {
			i++
		}
		lo := p[i]
		hi := lo
		if i+2 < len(p) && p[i+1] == '-' && p[i+2] != ']' {
			hi = p[i+2]
			if hi == '\\' && i+3 < len(p) {
				hi = p[i+3]
				i++
			}
			i += 2
		}
		if lo <= c && c <= hi {
			matched = true
		}
		i++
	}
	return false, -1
}
