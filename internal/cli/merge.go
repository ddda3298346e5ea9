package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/typekeep/internal/preserve"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	mergeWriteFlag bool
	mergeDiffFlag  bool
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <fresh> <artifact>",
	Short: "Restore previously captured types into a freshly generated artifact",
	Long: `Merge reads a freshly generated artifact ("-" for standard input) and the
previous artifacts next to <artifact>. Every target that was real before and
is a stub in the fresh output gets its previous type back.

By default the merged text is printed. Use --write to replace <artifact>
with it, or --diff to show what the merge changed relative to the fresh text.

Examples:
  # Preview the merge
  typekeep merge /tmp/api.d.ts convex/_generated/api.d.ts --diff

  # Regenerate in place
  codegen --stdout | typekeep merge - convex/_generated/api.d.ts --write
`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().BoolVarP(&mergeWriteFlag, "write", "w", false, "write the merged artifact over <artifact>")
	mergeCmd.Flags().BoolVarP(&mergeDiffFlag, "diff", "d", false, "print a line diff of fresh against merged")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fresh, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	p := preserve.New(afero.NewOsFs(), cfg, logger)
	return executeMerge(cmd.OutOrStdout(), p, fresh, args[1], mergeWriteFlag, mergeDiffFlag)
}

// executeMerge merges fresh into the artifact at dest, then prints the
// merged text, a diff of it, or writes it over dest.
func executeMerge(out io.Writer, p *preserve.Preserver, fresh, dest string, write, diff bool) error {
	dir, name := filepath.Split(dest)
	dir = filepath.Clean(dir)

	merged, _, _ := p.Merge(dir, fresh)
	if diff {
		fmt.Fprint(out, lineDiff(fresh, merged))
	}
	if !write {
		if !diff {
			fmt.Fprint(out, merged)
		}
		return nil
	}

	outcome, err := p.WriteArtifact(dir, name, fresh)
	if err != nil {
		return err
	}

	restored := "none"
	if len(outcome.Spliced) > 0 {
		restored = strings.Join(outcome.Spliced, ", ")
	}
	if outcome.Changed {
		fmt.Fprintf(out, "✓ Wrote %s (restored: %s)\n", outcome.Path, restored)
	} else {
		fmt.Fprintf(out, "✓ %s is up to date (restored: %s)\n", outcome.Path, restored)
	}
	return nil
}
