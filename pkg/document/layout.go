package document

import "strings"

// layout holds what the TOML grammar layer (go-toml) does not expose:
// the comment text attached to each key or section, and the order in
// which keys first appear in the source. Both are keyed by sanitized
// dotted paths.
type layout struct {
	comments map[string]string
	order    map[string][]string
	seen     map[string]bool
}

// scanLayout makes a single pass over the raw document text, associating
// comments with the key or section that follows them and recording
// first-appearance order of keys per parent.
//
// Comment rules:
//   - comment lines above a key/section accumulate and join with newlines
//   - an inline comment on the key's own line is appended last
//   - a blank line resets the accumulated comments
//   - comments with no trailing key are discarded
//   - lines inside multiline string literals are ignored
func scanLayout(content string) *layout {
	l := &layout{
		comments: make(map[string]string),
		order:    make(map[string][]string),
		seen:     make(map[string]bool),
	}
	if content == "" {
		return l
	}

	const (
		stateNone = iota
		stateMultiSingle
		stateMultiDouble
	)
	stringState := stateNone

	var pending []string
	var currentPath []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pending = nil
			continue
		}

		if stringState != stateNone {
			switch {
			case stringState == stateMultiSingle && strings.Contains(trimmed, "'''"):
				stringState = stateNone
			case stringState == stateMultiDouble && strings.Contains(trimmed, `"""`):
				stringState = stateNone
			}
			continue
		}

		// an odd number of delimiters opens a multiline literal
		if strings.Count(trimmed, `"""`)%2 == 1 {
			stringState = stateMultiDouble
			continue
		}
		if strings.Count(trimmed, "'''")%2 == 1 {
			stringState = stateMultiSingle
			continue
		}

		// section headers, [table] and [[array-of-tables]] alike
		if strings.HasPrefix(trimmed, "[") {
			end := strings.Index(trimmed, "]")
			if end < 0 {
				pending = nil
				continue
			}
			section := strings.Trim(trimmed[1:end], "[]")
			currentPath = splitKeyPath(section)
			l.recordOrder(nil, currentPath)

			all := append([]string(nil), pending...)
			if inline := inlineComment(trimmed, end); inline != "" {
				all = append(all, inline)
			}
			if len(all) > 0 {
				l.comments[strings.Join(currentPath, ".")] = strings.Join(all, "\n")
			}
			pending = nil
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			// empty comment lines survive as blank lines in the joined text
			pending = append(pending, strings.TrimSpace(trimmed[1:]))
			continue
		}

		if pos := strings.Index(trimmed, "="); pos >= 0 {
			keyPath := splitKeyPath(trimmed[:pos])
			full := append(append([]string(nil), currentPath...), keyPath...)
			l.recordOrder(currentPath, keyPath)

			all := append([]string(nil), pending...)
			if inline := inlineComment(trimmed, pos); inline != "" {
				all = append(all, inline)
			}
			if len(all) > 0 {
				l.comments[strings.Join(full, ".")] = strings.Join(all, "\n")
			}
			pending = nil
			continue
		}

		pending = nil
	}

	return l
}

// recordOrder registers each prefix of rel (relative to base) as a child
// of its parent, keeping first-appearance order.
func (l *layout) recordOrder(base, rel []string) {
	parent := append([]string(nil), base...)
	for _, seg := range rel {
		parentKey := strings.Join(parent, ".")
		childKey := parentKey + "\x00" + seg
		if !l.seen[childKey] {
			l.seen[childKey] = true
			l.order[parentKey] = append(l.order[parentKey], seg)
		}
		parent = append(parent, seg)
	}
}

// orderIndex returns the first-appearance index of name under parentPath,
// or -1 when the scanner never saw it (inline table contents, for one).
func (l *layout) orderIndex(parentPath, name string) int {
	for i, n := range l.order[parentPath] {
		if n == name {
			return i
		}
	}
	return -1
}

// commentFor returns the captured comment for a sanitized dotted path
func (l *layout) commentFor(path string) string {
	return l.comments[path]
}

// splitKeyPath splits a dotted key and sanitizes each segment
func splitKeyPath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ".") {
		seg = Sanitize(strings.TrimSpace(seg))
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// inlineComment extracts a comment appearing after afterPos on the line
func inlineComment(line string, afterPos int) string {
	pos := strings.Index(line, "#")
	if pos > afterPos {
		return strings.TrimSpace(line[pos+1:])
	}
	return ""
}
