package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/mvp-joe/typekeep/internal/preserve"
	"github.com/mvp-joe/typekeep/internal/syntax"
)

// ExtractResponse is the JSON response of the typekeep_extract tool.
type ExtractResponse struct {
	Path    string         `json:"path,omitempty"`
	Ambient bool           `json:"ambient"`
	Results []TargetResult `json:"results"`
}

// AnnotationResponse is the JSON response of the typekeep_annotation tool.
type AnnotationResponse struct {
	Target     string `json:"target"`
	Annotation string `json:"annotation"`
}

// AmbientResponse is the JSON response of the typekeep_is_ambient tool.
type AmbientResponse struct {
	Path    string `json:"path,omitempty"`
	Ambient bool   `json:"ambient"`
}

// DirectoryStatus is one artifact directory in a typekeep_status response.
type DirectoryStatus struct {
	Dir     string         `json:"dir"`
	Source  string         `json:"source,omitempty"`
	Results []TargetResult `json:"results"`
}

// StatusResponse is the JSON response of the typekeep_status tool.
type StatusResponse struct {
	Directories []DirectoryStatus `json:"directories"`
	Total       int               `json:"total"`
}

// AddExtractTool registers the typekeep_extract tool with an MCP server.
func AddExtractTool(s *server.MCPServer, project *Project) {
	tool := mcp.NewTool(
		"typekeep_extract",
		mcp.WithDescription(`Classify the declared type of exported bindings in a generated TypeScript artifact.

Each target is reported as "real" (with its normalized ambient declaration),
"stub" (a placeholder type such as AnyComponents) or "not found".

Pass either a project-relative path or the artifact text.`),
		mcp.WithString("path",
			mcp.Description("Artifact path relative to the project root (e.g., 'convex/_generated/api.d.ts')")),
		mcp.WithString("text",
			mcp.Description("Artifact text, used when path is not given")),
		mcp.WithArray("targets",
			mcp.Description("Target binding names (default: all configured targets)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(project))
}

func createExtractHandler(project *Project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		policy, err := project.policyFor(parseArrayArg(argsMap, "targets"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text, path, err := project.readSource(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		doc := syntax.ParseDialect(text, syntax.DialectFor(path))
		return marshalToolResponse(&ExtractResponse{
			Path:    path,
			Ambient: declaration.IsAmbientDocument(doc),
			Results: toTargetResults(policy, declaration.ClassifyAll(doc, policy)),
		})
	}
}

// AddAnnotationTool registers the typekeep_annotation tool with an MCP server.
func AddAnnotationTool(s *server.MCPServer, project *Project) {
	tool := mcp.NewTool(
		"typekeep_annotation",
		mcp.WithDescription("Return only the type annotation of a declaration, without the 'export declare const name:' prefix or trailing semicolon."),
		mcp.WithString("declaration",
			mcp.Required(),
			mcp.Description("Declaration text, typically the declaration of a typekeep_extract result")),
		mcp.WithString("target",
			mcp.Description("Binding name (default: first configured target)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createAnnotationHandler(project))
}

func createAnnotationHandler(project *Project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		decl, err := parseStringArg(argsMap, "declaration", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := parseStringArg(argsMap, "target", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if target == "" {
			names := project.Config.TargetNames()
			if len(names) == 0 {
				return mcp.NewToolResultError("no targets configured"), nil
			}
			target = names[0]
		}

		annotation, ok := declaration.ExtractAnnotation(decl, target)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no annotated binding named %s", target)), nil
		}

		return marshalToolResponse(&AnnotationResponse{Target: target, Annotation: annotation})
	}
}

// AddAmbientTool registers the typekeep_is_ambient tool with an MCP server.
func AddAmbientTool(s *server.MCPServer, project *Project) {
	tool := mcp.NewTool(
		"typekeep_is_ambient",
		mcp.WithDescription("Report whether an artifact holds at least one top-level exported ambient (declare) variable. Text in comments and strings does not count."),
		mcp.WithString("path",
			mcp.Description("Artifact path relative to the project root")),
		mcp.WithString("text",
			mcp.Description("Artifact text, used when path is not given")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createAmbientHandler(project))
}

func createAmbientHandler(project *Project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		text, path, err := project.readSource(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		doc := syntax.ParseDialect(text, syntax.DialectFor(path))
		return marshalToolResponse(&AmbientResponse{Path: path, Ambient: declaration.IsAmbientDocument(doc)})
	}
}

// AddStatusTool registers the typekeep_status tool with an MCP server.
func AddStatusTool(s *server.MCPServer, project *Project) {
	tool := mcp.NewTool(
		"typekeep_status",
		mcp.WithDescription("Classify every target in each artifact directory of the project. Directories are discovered with the configured globs unless given."),
		mcp.WithArray("dirs",
			mcp.Description("Artifact directories relative to the project root (default: discovered)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createStatusHandler(project))
}

func createStatusHandler(project *Project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		var dirs []string
		for _, dir := range parseArrayArg(argsMap, "dirs") {
			resolved, err := resolvePath(project.Root, dir)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			dirs = append(dirs, resolved)
		}

		if len(dirs) == 0 {
			cfg := project.Config
			discovery, err := preserve.NewDiscovery(project.FS, project.Root, cfg.Discovery.Include, cfg.Discovery.Ignore)
			if err != nil {
				return nil, fmt.Errorf("failed to compile discovery patterns: %w", err)
			}
			if dirs, err = discovery.Discover(); err != nil {
				return nil, fmt.Errorf("failed to discover artifact directories: %w", err)
			}
		}

		policy := project.Preserver.Policy()
		response := &StatusResponse{Directories: []DirectoryStatus{}}
		for _, status := range project.Preserver.Status(dirs) {
			response.Directories = append(response.Directories, DirectoryStatus{
				Dir:     status.Dir,
				Source:  status.Source,
				Results: toTargetResults(policy, status.Results),
			})
		}
		response.Total = len(response.Directories)

		return marshalToolResponse(response)
	}
}
