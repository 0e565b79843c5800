package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/output"
	"github.com/mj1618/droid-cli/internal/source"
	"github.com/mj1618/droid-cli/internal/store"
)

// extractResult is the extract tool's response.
type extractResult struct {
	ID       string         `yaml:"id"`
	Snapshot model.Snapshot `yaml:"snapshot"`
}

func (r extractResult) FormatAgent() string {
	return "id: " + r.ID + "\n" + output.FormatAgentString(r.Snapshot)
}

// render serializes v as YAML or in the agent listing.
func render(v interface{}, format string) (*mcp.CallToolResult, error) {
	var (
		text string
		err  error
	)
	switch format {
	case "", "yaml":
		text, err = output.YAMLString(v)
	case "agent":
		if f, ok := v.(output.AgentFormatter); ok {
			text = f.FormatAgent()
		} else {
			text, err = output.YAMLString(v)
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (use yaml or agent)", format)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	doc := stringParam(params, "xml", "")
	path := stringParam(params, "path", "")

	var src source.Source
	switch {
	case doc != "" && path != "":
		return mcp.NewToolResultError("pass either xml or path, not both"), nil
	case doc != "":
		src = source.BytesSource{Label: stringParam(params, "name", "inline"), Data: []byte(doc)}
	case path != "":
		file, err := s.checkPath(path)
		if err != nil {
			s.log.Warn("rejected extract path", slog.String("path", path), slog.Any("error", err))
			return mcp.NewToolResultError(err.Error()), nil
		}
		src = source.FileSource{Path: file}
	default:
		return mcp.NewToolResultError("xml or path is required"), nil
	}

	filter, err := source.ParseFilter(listParam(params, "kind"), stringParam(params, "text", ""), stringParam(params, "bbox", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	root, err := src.ReadTree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := src.Name()
	if path != "" {
		name = stringParam(params, "name", filepath.Base(path))
	}
	res := s.extractor.Extract(*root, name)

	// The full snapshot is stored so later diffs are not skewed by filters.
	id, err := s.store.Put(ctx, &res.Snapshot)
	if err != nil {
		s.log.Error("store snapshot", slog.String("source", name), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("store snapshot: %v", err)), nil
	}
	s.log.Info("extracted snapshot",
		slog.String("id", id),
		slog.String("source", name),
		slog.Int("buttons", res.Snapshot.ButtonCount),
		slog.Int("inputs", res.Snapshot.InputCount))

	return render(extractResult{ID: id, Snapshot: filter.Apply(res.Snapshot)}, stringParam(params, "format", ""))
}

func (s *Server) lookup(ctx context.Context, id string) (*model.Snapshot, *mcp.CallToolResult) {
	if id == "" {
		return nil, mcp.NewToolResultError("id is required")
	}
	snap, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("snapshot %s not found or expired", id))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return snap, nil
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	id := stringParam(params, "id", "")
	snap, errResult := s.lookup(ctx, id)
	if errResult != nil {
		return errResult, nil
	}
	return render(extractResult{ID: id, Snapshot: *snap}, stringParam(params, "format", ""))
}

func (s *Server) handleDiff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	from, errResult := s.lookup(ctx, stringParam(params, "from", ""))
	if errResult != nil {
		return errResult, nil
	}
	to, errResult := s.lookup(ctx, stringParam(params, "to", ""))
	if errResult != nil {
		return errResult, nil
	}
	return render(model.DiffSnapshots(*from, *to), stringParam(params, "format", ""))
}
