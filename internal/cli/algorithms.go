package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cperrin88/linkhash/pkg/hashes"
)

// NewAlgorithmsCmd creates the algorithms command.
func NewAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported hash algorithms",
		Long: `List the supported hash algorithms with their digest lengths and
negotiation weights. Algorithms absent from the negotiation list are still
accepted from embedded link fingerprints.`,
		RunE: func(*cobra.Command, []string) error {
			return runAlgorithms()
		},
	}
}

func runAlgorithms() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	negotiatedTokens := map[string]bool{}
	for _, p := range hashes.PreferredOrder() {
		negotiatedTokens[p.Token] = true
	}

	type row struct {
		Name       string  `json:"name" yaml:"name"`
		HexLength  int     `json:"hexLength" yaml:"hexLength"`
		Weight     float64 `json:"weight" yaml:"weight"`
		Negotiated bool    `json:"negotiated" yaml:"negotiated"`
	}
	rows := make([]row, 0, len(hashes.Algorithms()))
	for _, alg := range hashes.Algorithms() {
		rows = append(rows, row{
			Name:       alg.Name,
			HexLength:  alg.HexLength,
			Weight:     alg.Weight,
			Negotiated: negotiatedTokens[alg.Name],
		})
	}

	if cfg.Settings.OutputFormat != "table" {
		return render(rows, cfg.Settings.OutputFormat)
	}

	fmt.Printf("%-10s %-10s %-8s %s\n", "ALGORITHM", "HEXLENGTH", "WEIGHT", "NEGOTIATED")
	fmt.Println(strings.Repeat("-", 44))
	for _, r := range rows {
		negotiated := "no"
		if r.Negotiated {
			negotiated = "yes"
		}
		fmt.Printf("%-10s %-10d %-8v %s\n", r.Name, r.HexLength, r.Weight, negotiated)
	}
	return nil
}

// NewDigestHeaderCmd creates the digest-header command.
func NewDigestHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest-header",
		Short: "Print the digest negotiation header value",
		Long: `Print the quality-weighted algorithm list sent to remote digest
sources, e.g. as a Want-Digest request header.`,
		Run: func(*cobra.Command, []string) {
			fmt.Println(hashes.WantDigest())
		},
	}
}
