package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/vitrine/internal/config"
	vlog "github.com/runger/vitrine/internal/log"
	"github.com/runger/vitrine/internal/manifest"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Summarize a site build without showing it",
	Long: `Load a site build's content.json and print what the viewer
would play: every unit with its variation count and style, plus any
artwork files the manifest references but the disk is missing.

Exits non-zero only when the manifest itself is unreadable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir := cfg.Site.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	man, err := manifest.Load(dir, vlog.Discard())
	if err != nil {
		return err
	}

	fmt.Printf("%sSite:%s %s\n", colorBold, colorReset, dir)
	fmt.Printf("%d units playable, %d excluded\n\n", len(man.Units), man.Excluded)

	totalVariations := 0
	totalMissing := 0
	for i := range man.Units {
		u := &man.Units[i]
		missing := countMissing(u)
		totalVariations += len(u.Variations)
		totalMissing += missing

		label := u.Title
		if u.Author != "" {
			label += " · " + u.Author
		}
		line := fmt.Sprintf("  %s%-24s%s %-40s %2d variations  %s",
			colorCyan, u.Slug, colorReset,
			runewidth.Truncate(label, 40, "…"),
			len(u.Variations), u.StyleName)
		if missing > 0 {
			line += fmt.Sprintf("  %s%d missing%s", colorYellow, missing, colorReset)
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d variations total", totalVariations)
	if totalMissing > 0 {
		fmt.Printf(", %s%d image files missing%s", colorYellow, totalMissing, colorReset)
	}
	fmt.Println()
	return nil
}

// countMissing stats each variation's resolved image path.
func countMissing(u *manifest.Unit) int {
	missing := 0
	for i := range u.Variations {
		if _, err := os.Stat(u.Variations[i].AbsPath); err != nil {
			missing++
		}
	}
	return missing
}
