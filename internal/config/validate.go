package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrNoTargets indicates an empty target list
	ErrNoTargets = errors.New("no targets configured")

	// ErrInvalidTarget indicates a target name that is not an identifier
	ErrInvalidTarget = errors.New("invalid target name")

	// ErrDuplicateTarget indicates a target configured more than once
	ErrDuplicateTarget = errors.New("duplicate target")

	// ErrEmptySentinels indicates a target without sentinel names
	ErrEmptySentinels = errors.New("empty sentinel set")

	// ErrInvalidSentinel indicates a sentinel that is not a type name
	ErrInvalidSentinel = errors.New("invalid sentinel name")

	// ErrInvalidArtifacts indicates missing or clashing artifact file names
	ErrInvalidArtifacts = errors.New("invalid artifact names")

	// ErrInvalidPattern indicates a discovery glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateTargets(cfg.Targets); err != nil {
		errs = append(errs, err)
	}

	if err := validateArtifacts(&cfg.Artifacts); err != nil {
		errs = append(errs, err)
	}

	if err := validateDiscovery(&cfg.Discovery); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateTargets(targets []TargetConfig) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: at least one target required", ErrNoTargets)
	}

	var errs []error
	seen := make(map[string]bool, len(targets))

	for _, target := range targets {
		if !identifierPattern.MatchString(target.Name) {
			errs = append(errs, fmt.Errorf("%w: '%s'", ErrInvalidTarget, target.Name))
			continue
		}
		if seen[target.Name] {
			errs = append(errs, fmt.Errorf("%w: '%s'", ErrDuplicateTarget, target.Name))
		}
		seen[target.Name] = true

		if len(target.Sentinels) == 0 {
			errs = append(errs, fmt.Errorf("%w: target '%s' needs at least one sentinel", ErrEmptySentinels, target.Name))
		}
		for _, sentinel := range target.Sentinels {
			if !identifierPattern.MatchString(sentinel) {
				errs = append(errs, fmt.Errorf("%w: '%s' for target '%s'", ErrInvalidSentinel, sentinel, target.Name))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateArtifacts(cfg *ArtifactsConfig) error {
	var errs []error

	ambient := strings.TrimSpace(cfg.Ambient)
	runtime := strings.TrimSpace(cfg.Runtime)

	if ambient == "" {
		errs = append(errs, fmt.Errorf("%w: ambient is required", ErrInvalidArtifacts))
	}
	if runtime == "" {
		errs = append(errs, fmt.Errorf("%w: runtime is required", ErrInvalidArtifacts))
	}
	if ambient != "" && ambient == runtime {
		errs = append(errs, fmt.Errorf("%w: ambient and runtime must differ, both are '%s'", ErrInvalidArtifacts, ambient))
	}
	for _, name := range []string{ambient, runtime} {
		if strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Errorf("%w: '%s' must be a file name, not a path", ErrInvalidArtifacts, name))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateDiscovery(cfg *DiscoveryConfig) error {
	var errs []error

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
