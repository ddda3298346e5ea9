package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/mvp-joe/typekeep/internal/syntax"
	"github.com/spf13/cobra"
)

// ErrUnknownTarget is returned when --target names a binding the
// configuration has no sentinels for and --sentinel is not given.
var ErrUnknownTarget = errors.New("unknown target")

// ErrNoAnnotation is returned when the annotation command finds no
// explicitly annotated binding.
var ErrNoAnnotation = errors.New("no annotation found")

var (
	targetFlags   []string
	sentinelFlags []string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <artifact>",
	Short: "Print the real declaration of each target in an artifact",
	Long: `Extract reads a generated artifact ("-" for standard input) and prints
the normalized ambient declaration of every target whose type is real.
Stub and missing targets print nothing and are reported on stderr.

Examples:
  # Extract the configured targets
  typekeep extract convex/_generated/api.d.ts

  # Extract a single binding with an explicit sentinel
  typekeep extract api.ts --target components --sentinel AnyComponents
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// kindCmd represents the kind command
var kindCmd = &cobra.Command{
	Use:   "kind <artifact>",
	Short: "Classify each target of an artifact as real, stub or not found",
	Args:  cobra.ExactArgs(1),
	RunE:  runKind,
}

// annotationCmd represents the annotation command
var annotationCmd = &cobra.Command{
	Use:   "annotation <declaration>",
	Short: "Print only the type annotation of a declaration",
	Long: `Annotation reads a declaration ("-" for standard input), typically the
output of 'typekeep extract', and prints the type of the target binding
without the "export declare const name:" prefix or the trailing semicolon.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotation,
}

func init() {
	for _, cmd := range []*cobra.Command{extractCmd, kindCmd, annotationCmd} {
		cmd.Flags().StringSliceVarP(&targetFlags, "target", "t", nil, "target binding names (default: configured targets)")
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{extractCmd, kindCmd} {
		cmd.Flags().StringSliceVarP(&sentinelFlags, "sentinel", "s", nil, "sentinel type names (default: configured sentinels)")
	}
}

// selectPolicy narrows the configured policy to targets, or overrides the
// sentinels of every selected target when sentinels is non-empty.
func selectPolicy(cfg *config.Config, targets, sentinels []string) (declaration.Policy, error) {
	configured := cfg.Policy()
	if len(targets) == 0 {
		targets = configured.Targets()
	}

	policy := make(declaration.Policy, len(targets))
	for _, target := range targets {
		if len(sentinels) > 0 {
			policy[target] = declaration.NewSentinelSet(sentinels...)
			continue
		}
		set, ok := configured[target]
		if !ok {
			return nil, fmt.Errorf("%w: %s (configure it or pass --sentinel)", ErrUnknownTarget, target)
		}
		policy[target] = set
	}
	return policy, nil
}

func commandInput(cmd *cobra.Command, args []string) (string, declaration.Policy, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", nil, err
	}
	policy, err := selectPolicy(cfg, targetFlags, sentinelFlags)
	if err != nil {
		return "", nil, err
	}
	text, err := readInput(cmd, args[0])
	if err != nil {
		return "", nil, err
	}
	return text, policy, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, policy, err := commandInput(cmd, args)
	if err != nil {
		return err
	}
	executeExtract(cmd.OutOrStdout(), args[0], text, policy)
	return nil
}

// executeExtract prints the declaration of every Real target, in target order.
func executeExtract(out io.Writer, path, text string, policy declaration.Policy) map[string]declaration.Result {
	results := declaration.ClassifyAll(syntax.ParseDialect(text, syntax.DialectFor(path)), policy)
	for _, target := range policy.Targets() {
		result := results[target]
		if result.Kind != declaration.Real {
			logger.Info("no real declaration", "target", target, "kind", result.Kind)
			continue
		}
		fmt.Fprintln(out, result.Declaration)
	}
	return results
}

func runKind(cmd *cobra.Command, args []string) error {
	text, policy, err := commandInput(cmd, args)
	if err != nil {
		return err
	}
	executeKind(cmd.OutOrStdout(), args[0], text, policy)
	return nil
}

// executeKind prints one "target: kind" line per target.
func executeKind(out io.Writer, path, text string, policy declaration.Policy) {
	results := declaration.ClassifyAll(syntax.ParseDialect(text, syntax.DialectFor(path)), policy)
	for _, target := range policy.Targets() {
		fmt.Fprintf(out, "%s: %s\n", target, results[target].Kind)
	}
}

func runAnnotation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targets := targetFlags
	if len(targets) == 0 {
		targets = cfg.TargetNames()
	}
	text, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	return executeAnnotation(cmd.OutOrStdout(), text, targets)
}

// executeAnnotation prints the annotation of the first target found in text.
func executeAnnotation(out io.Writer, text string, targets []string) error {
	for _, target := range targets {
		if annotation, ok := declaration.ExtractAnnotation(text, target); ok {
			fmt.Fprintln(out, annotation)
			return nil
		}
	}
	return fmt.Errorf("%w for %v", ErrNoAnnotation, targets)
}
