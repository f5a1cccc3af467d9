package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orgrinrt/tomlfuse/pkg/binding"
	"github.com/orgrinrt/tomlfuse/pkg/config"
	"github.com/orgrinrt/tomlfuse/pkg/document"
	"github.com/orgrinrt/tomlfuse/pkg/emit"
	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
	"github.com/orgrinrt/tomlfuse/pkg/locate"
	"github.com/orgrinrt/tomlfuse/pkg/logging"
	"github.com/orgrinrt/tomlfuse/pkg/rules"
)

var (
	generateRules   string
	generateOutput  string
	generatePackage string
	generateStdout  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [document.toml]",
	Short: "Generate Go constants from a TOML document",
	Long: `Generate parses the document, applies the namespace blocks from the
rules file and writes the resulting constants as a Go source file.

The document path comes from the argument, the config file or the rules
file location, in that order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.generate")
		defer logging.LogDuration(time.Now(), "generate")

		cwd, err := os.Getwd()
		if err != nil {
			return fuseerr.Wrap(err, fuseerr.ErrInternal, "cannot determine working directory")
		}

		settings, err := config.Load(cwd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("rules") {
			settings.Rules = generateRules
		}
		if cmd.Flags().Changed("output") {
			settings.Output = generateOutput
		}
		if cmd.Flags().Changed("package") {
			settings.Package = generatePackage
		}
		docArg := settings.Document
		if len(args) > 0 {
			docArg = args[0]
		}

		docPath, err := locate.FindDocument(docArg, cwd)
		if err != nil {
			return err
		}
		rulesPath, err := locate.FindDocument(settings.Rules, cwd)
		if err != nil {
			return err
		}

		tree, err := resolveTree(docPath, rulesPath)
		if err != nil {
			return err
		}

		out, err := emit.Generate(tree, emit.Options{
			PackageName: settings.Package,
			Source:      docArg,
		})
		if err != nil {
			return err
		}

		if generateStdout || settings.Output == "" {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(settings.Output, out, 0o644); err != nil {
			return fuseerr.Wrapf(err, fuseerr.ErrEmitFailed, "cannot write %s", settings.Output)
		}
		logger.Info().
			Str("document", docPath).
			Str("output", settings.Output).
			Int("bytes", len(out)).
			Msg("Generated")
		return nil
	},
}

// resolveTree runs the full pipeline from file paths to a binding tree
func resolveTree(docPath, rulesPath string) (*binding.Tree, error) {
	docData, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fuseerr.Wrapf(err, fuseerr.ErrFileNotFound, "cannot read %s", docPath)
	}
	rulesData, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fuseerr.Wrapf(err, fuseerr.ErrFileNotFound, "cannot read %s", rulesPath)
	}

	doc, err := document.Parse(docData)
	if err != nil {
		return nil, err
	}
	blocks, err := rules.ParseBlocks(string(rulesData))
	if err != nil {
		return nil, err
	}
	return binding.Build(blocks, doc)
}

func init() {
	generateCmd.Flags().StringVar(&generateRules, "rules", config.DefaultRules, "Rules file with namespace blocks")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", config.DefaultOutput, "Output file path")
	generateCmd.Flags().StringVarP(&generatePackage, "package", "p", config.DefaultPackage, "Package name for the generated file")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "Write generated source to stdout instead of a file")
}
