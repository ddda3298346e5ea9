package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/spf13/afero"
)

// errOutsideRoot is returned for paths that escape the project root.
var errOutsideRoot = errors.New("path is outside the project root")

// parseToolArguments validates and extracts the arguments map from an MCP tool request.
// Returns the arguments map or an error result if validation fails.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// resolvePath joins a relative path onto root and rejects escapes.
func resolvePath(root, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}
	return path, nil
}

// readSource returns the "text" argument, or the contents of the file named
// by the "path" argument. The second result is the path used for dialect
// selection.
func (p *Project) readSource(argsMap map[string]interface{}) (string, string, error) {
	text, err := parseStringArg(argsMap, "text", false)
	if err != nil {
		return "", "", err
	}
	path, err := parseStringArg(argsMap, "path", false)
	if err != nil {
		return "", "", err
	}

	if path == "" {
		if text == "" {
			return "", "", errors.New("either path or text is required")
		}
		return text, "", nil
	}

	resolved, err := resolvePath(p.Root, path)
	if err != nil {
		return "", "", err
	}
	data, err := afero.ReadFile(p.FS, resolved)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), resolved, nil
}

// policyFor narrows the configured policy to targets when given.
func (p *Project) policyFor(targets []string) (declaration.Policy, error) {
	configured := p.Config.Policy()
	if len(targets) == 0 {
		return configured, nil
	}

	policy := make(declaration.Policy, len(targets))
	for _, target := range targets {
		set, ok := configured[target]
		if !ok {
			return nil, fmt.Errorf("unknown target: %s", target)
		}
		policy[target] = set
	}
	return policy, nil
}

// TargetResult is the JSON form of one classified target.
type TargetResult struct {
	Target      string `json:"target"`
	Kind        string `json:"kind"`
	Declaration string `json:"declaration,omitempty"`
}

// toTargetResults flattens results in target order.
func toTargetResults(policy declaration.Policy, results map[string]declaration.Result) []TargetResult {
	out := make([]TargetResult, 0, len(results))
	for _, target := range policy.Targets() {
		result := results[target]
		out = append(out, TargetResult{
			Target:      target,
			Kind:        result.Kind.String(),
			Declaration: result.Declaration,
		})
	}
	return out
}
