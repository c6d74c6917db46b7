package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/seed"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow, color.Bold).SprintFunc()
	heading  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// ── seed ─────────────────────────────────────────────────────────────────────

var seedFlags struct {
	file string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data, or a YAML/JSON bundle, into the store",
	Example: `  docgraph seed
  docgraph seed --file bundles/site.yaml`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFlags.file, "file", "f", "", "bundle file (.yaml, .yml or .json); the built-in sample set when empty")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	var (
		bundle *seed.Bundle
		err    error
	)
	if seedFlags.file == "" {
		bundle, err = seed.Default()
	} else {
		bundle, err = seed.Load(seedFlags.file)
	}
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := seed.Apply(cmd.Context(), a.engine, bundle)
	if err != nil {
		return err
	}

	fmt.Println(heading("Seed complete"))
	for _, d := range report.Documents {
		fmt.Printf("  %s document %s (%d relationships created)\n", okMark("✓"), d.DocumentID, d.RelationshipsCreated)
	}
	if n := report.Created(); n > 0 {
		fmt.Printf("  %s %d nodes created\n", okMark("✓"), n)
	} else {
		fmt.Printf("  %s nothing new, data was already present\n", warnMark("•"))
	}
	return nil
}

// ── export ───────────────────────────────────────────────────────────────────

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print stored data as JSON",
}

var exportDocumentCmd = &cobra.Command{
	Use:   "document <document-id>",
	Short: "Export a document and everything reachable from it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) (any, error) {
			return a.engine.ExportDocument(cmd.Context(), args[0])
		})
	},
}

var exportMetadataCmd = &cobra.Command{
	Use:   "metadata <document-id>",
	Short: "Export the file metadata of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) (any, error) {
			return a.engine.ExportDocumentMetadata(cmd.Context(), args[0])
		})
	},
}

var exportSessionCmd = &cobra.Command{
	Use:   "session <session-id>",
	Short: "Export a processing session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) (any, error) {
			return a.engine.ExportSession(cmd.Context(), args[0])
		})
	},
}

var exportStandardCmd = &cobra.Command{
	Use:   "standard",
	Short: "Export the shared classifier and enricher configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) (any, error) {
			return a.engine.ExportSessionStandard(cmd.Context())
		})
	},
}

var exportEditsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Export every user edit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(a *app) (any, error) {
			return a.engine.ExportUserEdits(cmd.Context())
		})
	},
}

func init() {
	exportCmd.AddCommand(exportDocumentCmd, exportMetadataCmd, exportSessionCmd, exportStandardCmd, exportEditsCmd)
}

// withApp opens the store, runs fn and prints its result as indented JSON on stdout.
func withApp(cmd *cobra.Command, fn func(a *app) (any, error)) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := fn(a)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── wipe ─────────────────────────────────────────────────────────────────────

var wipeFlags struct {
	yes bool
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every node and relationship (irreversible)",
	Args:  cobra.NoArgs,
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVarP(&wipeFlags.yes, "yes", "y", false, "confirm deletion of all data")
}

func runWipe(cmd *cobra.Command, _ []string) error {
	if !wipeFlags.yes {
		return errors.New("refusing to delete all data without --yes")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.engine.DeleteAllData(cmd.Context())
	if err != nil {
		return err
	}
	stats, err := a.engine.GraphStats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(heading("Deleted"))
	labels := make([]models.Label, 0, len(report.Nodes))
	for l := range report.Nodes {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	for _, l := range labels {
		if n := report.Nodes[l]; n > 0 {
			fmt.Printf("  %-18s %d\n", l, n)
		}
	}
	fmt.Printf("  %-18s %d\n", "relationships", report.Relationships)

	if stats.Empty() {
		fmt.Printf("%s store is empty\n", okMark("✓"))
	} else {
		fmt.Printf("%s store still holds data\n", warnMark("!"))
	}
	return nil
}
