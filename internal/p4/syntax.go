package p4

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FileSyntax selects how depot paths are presented to the caller.
type FileSyntax int

const (
	SyntaxClientRelative FileSyntax = iota
	SyntaxLocal
	SyntaxDepot
	SyntaxClient
)

var ErrPathNotUnderStream = errors.New("path not under client stream")

func (s FileSyntax) String() string {
	switch s {
	case SyntaxLocal:
		return "local"
	case SyntaxDepot:
		return "depot"
	case SyntaxClient:
		return "client"
	default:
		return "relative"
	}
}

// FileSyntaxFromString maps a config/flag value to a FileSyntax. Unknown
// values fall back to SyntaxClientRelative.
func FileSyntaxFromString(raw string) FileSyntax {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SyntaxLocal.String():
		return SyntaxLocal
	case SyntaxDepot.String():
		return SyntaxDepot
	case SyntaxClient.String():
		return SyntaxClient
	default:
		return SyntaxClientRelative
	}
}

// ExtractSyntaxFlags removes the host-level -localsyntax and -depotsyntax
// switches from args. The last switch wins. The returned slice never aliases
// args.
func ExtractSyntaxFlags(args []string, fallback FileSyntax) ([]string, FileSyntax) {
	rest := make([]string, 0, len(args))
	syntax := fallback
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "-localsyntax":
			syntax = SyntaxLocal
		case "-depotsyntax":
			syntax = SyntaxDepot
		default:
			rest = append(rest, arg)
		}
	}
	return rest, syntax
}

// TranslatePath rewrites a depot path into the requested syntax. Client
// relative and local forms require depotPath to live under info.ClientStream;
// otherwise ErrPathNotUnderStream is returned.
func TranslatePath(depotPath string, syntax FileSyntax, info ClientInfo) (string, error) {
	switch syntax {
	case SyntaxClientRelative:
		rel, err := streamRelative(depotPath, info.ClientStream)
		if err != nil {
			return "", err
		}
		return filepath.FromSlash(rel), nil
	case SyntaxLocal:
		rel, err := streamRelative(depotPath, info.ClientStream)
		if err != nil {
			return "", err
		}
		abs, err := filepath.Abs(filepath.Join(info.ClientRoot, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", depotPath, err)
		}
		return abs, nil
	default:
		return depotPath, nil
	}
}

func streamRelative(depotPath, stream string) (string, error) {
	stream = strings.TrimSuffix(stream, "/")
	if stream == "" || !strings.HasPrefix(depotPath, stream+"/") {
		return "", fmt.Errorf("%s (stream %q): %w", depotPath, stream, ErrPathNotUnderStream)
	}
	return depotPath[len(stream)+1:], nil
}
