package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chrisrhoden/buck"
	"github.com/chrisrhoden/buck/internal/buckfile"
	"github.com/chrisrhoden/buck/internal/rules"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "inspect build metadata",
}

var auditRulesCmd = &cobra.Command{
	Use:   "rules <build-file>",
	Short: "print the raw rules a build file declares, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditRules,
}

func init() {
	auditCmd.AddCommand(auditRulesCmd)
}

func runAuditRules(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}

	buildFile := filepath.ToSlash(filepath.Clean(args[0]))
	if !proj.fs.Exists(buildFile) {
		return buck.UserErrorf("no build file at %s", buildFile)
	}

	loader := buckfile.NewEvaluator(proj.fs, rules.NewRegistry())
	raw, err := loader.GetAllRules(cmd.Context(), buildFile, proj.cfg.DefaultIncludes)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding rules from %s: %w", buildFile, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
