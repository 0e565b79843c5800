// Package source locates the accessibility dumps a command operates on.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/uitree"
)

// ErrNoInput is returned when a command is given nothing to read.
var ErrNoInput = errors.New("no input documents")

// Stdin is the argument naming standard input.
const Stdin = "-"

// Source yields one accessibility tree.
type Source interface {
	// Name identifies the document in snapshots and error messages.
	Name() string
	// ReadTree decodes the document.
	ReadTree(ctx context.Context) (*model.Node, error)
}

// FileSource reads a dump from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) ReadTree(ctx context.Context) (*model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uitree.DecodeFile(s.Path)
}

// ReaderSource reads a dump from a stream such as stdin.
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

func (s ReaderSource) Name() string { return s.Label }

func (s ReaderSource) ReadTree(ctx context.Context) (*model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uitree.DecodeNamed(s.Reader, s.Label)
}

// BytesSource wraps an in-memory document, as received over MCP.
type BytesSource struct {
	Label string
	Data  []byte
}

func (s BytesSource) Name() string { return s.Label }

func (s BytesSource) ReadTree(ctx context.Context) (*model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uitree.DecodeBytes(s.Data, s.Label)
}

// dumpExtensions are the files picked up when a directory is given.
var dumpExtensions = []string{".xml", ".json"}

// Resolve turns command arguments into sources. "-" reads stdin, a
// directory expands to the dumps it contains (not recursive), anything else
// is a file path.
func Resolve(args []string, stdin io.Reader) ([]Source, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}
	var sources []Source
	usedStdin := false
	for _, arg := range args {
		if arg == Stdin {
			if usedStdin {
				return nil, fmt.Errorf("stdin given more than once")
			}
			usedStdin = true
			sources = append(sources, ReaderSource{Label: "stdin", Reader: stdin})
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			sources = append(sources, FileSource{Path: arg})
			continue
		}
		files, err := dumpsIn(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			sources = append(sources, FileSource{Path: f})
		}
	}
	if len(sources) == 0 {
		return nil, ErrNoInput
	}
	return sources, nil
}

// dumpsIn lists dump files in dir, skipping snapshots written by convert.
func dumpsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isDump(e.Name()) || isConvertOutput(e.Name(), names) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// isConvertOutput reports whether name is the snapshot convert writes next
// to an XML dump: "screen.json" beside "screen.xml".
func isConvertOutput(name string, siblings map[string]bool) bool {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".json") {
		return false
	}
	return siblings[strings.TrimSuffix(name, ext)+".xml"]
}

func isDump(name string) bool {
	if strings.HasSuffix(name, ".snapshot.json") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range dumpExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
