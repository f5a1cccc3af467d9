package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/orgrinrt/tomlfuse/pkg/binding"
	"github.com/orgrinrt/tomlfuse/pkg/config"
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/locate"
)

var (
	inspectRules string
	inspectDump  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [document.toml]",
	Short: "Show a document or its resolved binding tree",
	Long: `Inspect renders the parsed document as a tree. With --rules the
namespace blocks are applied first and the resolved binding tree is shown
instead, which is what generate would emit from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fuseerr.Wrap(err, fuseerr.ErrInternal, "cannot determine working directory")
		}

		settings, err := config.Load(cwd)
		if err != nil {
			return err
		}
		docArg := settings.Document
		if len(args) > 0 {
			docArg = args[0]
		}
		docPath, err := locate.FindDocument(docArg, cwd)
		if err != nil {
			return err
		}

		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			pterm.DisableColor()
		}

		if inspectRules != "" {
			rulesPath, err := locate.FindDocument(inspectRules, cwd)
			if err != nil {
				return err
			}
			tree, err := resolveTree(docPath, rulesPath)
			if err != nil {
				return err
			}
			if inspectDump {
				fmt.Fprint(cmd.OutOrStdout(), spew.Sdump(tree))
				return nil
			}
			return renderBindingTree(cmd, tree)
		}

		data, err := os.ReadFile(docPath)
		if err != nil {
			return fuseerr.Wrapf(err, fuseerr.ErrFileNotFound, "cannot read %s", docPath)
		}
		doc, err := document.Parse(data)
		if err != nil {
			return err
		}
		if inspectDump {
			fmt.Fprint(cmd.OutOrStdout(), spew.Sdump(doc))
			return nil
		}
		return renderDocument(cmd, docPath, doc)
	},
}

func renderDocument(cmd *cobra.Command, docPath string, doc *document.Document) error {
	root := pterm.TreeNode{Text: pterm.Bold.Sprint(docPath)}
	for _, child := range doc.Root.Children {
		root.Children = append(root.Children, documentNode(child))
	}
	return renderTree(cmd, root)
}

func documentNode(n *document.Node) pterm.TreeNode {
	node := pterm.TreeNode{Text: nodeLabel(n.Name, n.Kind, n.Value)}
	for _, child := range n.Children {
		node.Children = append(node.Children, documentNode(child))
	}
	return node
}

func renderBindingTree(cmd *cobra.Command, tree *binding.Tree) error {
	root := pterm.TreeNode{Text: pterm.Bold.Sprint("bindings")}
	for _, ns := range tree.Namespaces {
		root.Children = append(root.Children, bindingNode(ns))
	}
	return renderTree(cmd, root)
}

func bindingNode(e *binding.Entry) pterm.TreeNode {
	var value interface{}
	if e.Node != nil {
		value = e.Node.Value
	}
	node := pterm.TreeNode{Text: nodeLabel(e.Name, e.Kind(), value)}
	for _, child := range e.Children {
		node.Children = append(node.Children, bindingNode(child))
	}
	return node
}

func nodeLabel(name string, kind document.Kind, value interface{}) string {
	switch kind {
	case document.KindTable:
		return pterm.Cyan(name)
	case document.KindArray:
		return fmt.Sprintf("%s %s", name, pterm.Gray("[array]"))
	default:
		return fmt.Sprintf("%s = %v %s", name, value, pterm.Gray("("+kind.String()+")"))
	}
}

func renderTree(cmd *cobra.Command, root pterm.TreeNode) error {
	rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return fuseerr.Wrap(err, fuseerr.ErrInternal, "cannot render tree")
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRules, "rules", "", "Apply namespace blocks from this rules file first")
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "Dump the raw tree structure instead of rendering")
}
