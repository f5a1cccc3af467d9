package binding

import (
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

// AliasEntry is one resolved alias: a direct binding of a source node
// under a chosen identifier at the block's root scope.
type AliasEntry struct {
	Target string
	Source document.Path
	Node   *document.Node
}

// ResolveAliases resolves the block's alias rules in declaration order,
// independently of pattern selection. existing seeds the occupied
// identifier set, normally the selection's top-level names; each resolved
// alias claims its target there, so later duplicates fail.
func ResolveAliases(block rules.Block, doc *document.Document, existing map[string]bool) ([]AliasEntry, error) {
	logger := logging.GetLogger("binding.alias")
	if existing == nil {
		existing = make(map[string]bool)
	}

	var entries []AliasEntry
	for _, rule := range block.Aliases {
		node, ok := doc.Resolve(rule.Source)
		if !ok {
			return nil, fuseerr.Newf(fuseerr.ErrUnresolvedAlias,
				"alias %q points at %s, which does not exist", rule.Target, rule.Source).
				WithBlock(block.Name).
				WithPath(rule.Source.String())
		}
		if existing[rule.Target] {
			return nil, fuseerr.Newf(fuseerr.ErrNameCollision,
				"identifier %q is already bound in block %q", rule.Target, block.Name).
				WithBlock(block.Name).
				WithPath(rule.Source.String())
		}
		existing[rule.Target] = true
		entries = append(entries, AliasEntry{Target: rule.Target, Source: rule.Source, Node: node})

		logger.Trace().
			Str("block", block.Name).
			Str("target", rule.Target).
			Str("source", rule.Source.String()).
			Msg("Alias resolved")
	}
	return entries, nil
}
