package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cperrin88/linkhash/pkg/hashes"
)

const collectionFilePerm = 0o644

// NewCollectionCmd creates the collection command with subcommands.
func NewCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage hash collection files",
		Long: `Create and extend hash collection files. A collection holds the
mandatory full-file hash of a download plus any partial hashes delivered for
its chunks, and round-trips through a JSON record.`,
	}

	cmd.AddCommand(
		newCollectionInitCmd(),
		newCollectionAddCmd(),
		newCollectionShowCmd(),
	)

	return cmd
}

func newCollectionInitCmd() *cobra.Command {
	var (
		full      string
		parLength int64
	)

	cmd := &cobra.Command{
		Use:   "init FILE",
		Short: "Create a collection file from a full hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCollectionInit(args[0], full, parLength)
		},
	}

	cmd.Flags().StringVar(&full, "full", "", "full-file hash as <algorithm>:<hex> (required)")
	cmd.Flags().Int64Var(&parLength, "par-length", 0, "chunk size in bytes covered by each partial hash")
	_ = cmd.MarkFlagRequired("full")

	return cmd
}

func newCollectionAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add FILE HASH...",
		Short: "Append partial hashes to a collection file",
		Long: `Append one or more partial hashes, given as <algorithm>:<hex>, to an
existing collection file. Insertion order is chunk order.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCollectionAdd(args[0], args[1:])
		},
	}

	return cmd
}

func newCollectionShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Display a collection file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCollectionShow(args[0])
		},
	}

	return cmd
}

func runCollectionInit(path, fullToken string, parLength int64) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	full, err := hashes.Parse(fullToken)
	if err != nil {
		return fmt.Errorf("parsing --full: %w", err)
	}

	coll, err := hashes.NewCollection(full)
	if err != nil {
		return err
	}
	if parLength != 0 {
		if err := coll.SetPartialLength(parLength); err != nil {
			return err
		}
	}

	return writeCollection(path, coll)
}

func runCollectionAdd(path string, tokens []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	coll, err := readCollection(path)
	if err != nil {
		return err
	}

	for _, token := range tokens {
		partial, err := hashes.Parse(token)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", token, err)
		}
		if err := coll.Add(partial); err != nil {
			return err
		}
	}

	return writeCollection(path, coll)
}

func runCollectionShow(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	coll, err := readCollection(path)
	if err != nil {
		return err
	}

	rec := coll.Record()
	if cfg.Settings.OutputFormat == "json" {
		return render(coll, "json")
	}
	if cfg.Settings.OutputFormat == "yaml" {
		type yamlRecord struct {
			Full      string   `yaml:"full"`
			ParLength int64    `yaml:"parLength"`
			Partials  []string `yaml:"partials"`
		}
		out := yamlRecord{Full: rec.Full.String(), ParLength: rec.ParLength}
		for _, p := range rec.Partials {
			out.Partials = append(out.Partials, p.String())
		}
		return render(out, "yaml")
	}

	fmt.Printf("Full:       %s\n", rec.Full)
	fmt.Printf("Par length: %d\n", rec.ParLength)
	if len(rec.Partials) == 0 {
		fmt.Println("Partials:   none")
		return nil
	}
	fmt.Printf("Partials:   %d\n", len(rec.Partials))
	fmt.Println(strings.Repeat("-", 24))
	for i, p := range rec.Partials {
		fmt.Printf("%4d  %s\n", i, p)
	}
	return nil
}

func readCollection(path string) (*hashes.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection file: %w", err)
	}
	var coll hashes.Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &coll, nil
}

func writeCollection(path string, coll *hashes.Collection) error {
	data, err := json.MarshalIndent(coll, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing collection: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), collectionFilePerm); err != nil {
		return fmt.Errorf("writing collection file: %w", err)
	}
	return nil
}
