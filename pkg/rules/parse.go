package rules

import (
	"bufio"
	"strings"

	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
)

// ParseBlocks parses the rules surface syntax into an ordered block list.
//
// The grammar is line-oriented:
//
//	[name]                   start a namespace block
//	some.path.*              inclusion pattern
//	!some.path.excluded      exclusion pattern
//	alias new = old.path     alias rule
//	# ...                    comment, ignored
//
// Lines before the first block header are an error, as are malformed
// headers and alias lines. Errors carry the offending line number.
func ParseBlocks(src string) ([]Block, error) {
	logger := logging.GetLogger("rules")

	var blocks []Block
	var current *Block
	lineNo := 0

	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fuseerr.Newf(fuseerr.ErrInvalidRule,
					"malformed block header on line %d", lineNo)
			}
			name := document.Sanitize(strings.TrimSpace(line[1 : len(line)-1]))
			if !document.ValidIdentifier(name) {
				return nil, fuseerr.Newf(fuseerr.ErrInvalidRule,
					"invalid block name %q on line %d", line, lineNo)
			}
			blocks = append(blocks, Block{Name: name})
			current = &blocks[len(blocks)-1]
			continue
		}

		if current == nil {
			return nil, fuseerr.Newf(fuseerr.ErrInvalidRule,
				"rule on line %d appears before any [block] header", lineNo)
		}

		if rest, ok := strings.CutPrefix(line, "alias "); ok {
			target, source, found := strings.Cut(rest, "=")
			if !found {
				return nil, fuseerr.Newf(fuseerr.ErrInvalidRule,
					"malformed alias on line %d, want 'alias name = dotted.path'", lineNo)
			}
			rule, err := NewAliasRule(strings.TrimSpace(target), strings.TrimSpace(source))
			if err != nil {
				return nil, fuseerr.Wrapf(err, fuseerr.ErrInvalidRule,
					"invalid alias on line %d", lineNo)
			}
			current.Aliases = append(current.Aliases, rule)
			continue
		}

		pattern, err := ParsePattern(line)
		if err != nil {
			return nil, fuseerr.Wrapf(err, fuseerr.ErrInvalidPattern,
				"invalid pattern on line %d", lineNo).WithBlock(current.Name)
		}
		current.Patterns = append(current.Patterns, pattern)
	}
	if err := scanner.Err(); err != nil {
		return nil, fuseerr.Wrap(err, fuseerr.ErrInvalidRule, "failed to read rules")
	}

	logger.Debug().Int("blocks", len(blocks)).Msg("Parsed rule blocks")
	return blocks, nil
}
