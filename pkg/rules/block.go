package rules

import (
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

// AliasRule binds one literal source path directly to a chosen output
// identifier at the owning block's root scope.
type AliasRule struct {
	Target string
	Source document.Path
}

// NewAliasRule validates and builds an alias rule. Batch (pattern-based)
// aliasing is unsupported: the source must be a wildcard-free path.
func NewAliasRule(target, source string) (AliasRule, error) {
	name := document.Sanitize(target)
	if !document.ValidIdentifier(name) {
		return AliasRule{}, fuseerr.Newf(fuseerr.ErrInvalidRule,
			"alias target %q is not a valid identifier", target)
	}
	path, err := document.ParsePath(source)
	if err != nil {
		return AliasRule{}, fuseerr.Wrapf(err, fuseerr.ErrInvalidRule,
			"alias %q has an invalid source path", target)
	}
	return AliasRule{Target: name, Source: path}, nil
}

// Block is a named group of pattern and alias rules producing one output
// namespace. Declaration order of both lists is semantically significant:
// patterns replay in order, and aliases resolve in order.
type Block struct {
	Name     string
	Patterns []Pattern
	Aliases  []AliasRule
}
