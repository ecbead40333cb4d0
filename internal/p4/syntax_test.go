package p4

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestTranslatePath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/home/bob/ws")
	info := ClientInfo{ClientStream: "//depot/main", ClientRoot: root}

	tests := []struct {
		name    string
		path    string
		syntax  FileSyntax
		want    string
		wantErr error
	}{
		{name: "depot_unchanged", path: "//depot/main/a/b.c", syntax: SyntaxDepot, want: "//depot/main/a/b.c"},
		{name: "client_unchanged", path: "//depot/main/a/b.c", syntax: SyntaxClient, want: "//depot/main/a/b.c"},
		{name: "relative", path: "//depot/main/a/b.c", syntax: SyntaxClientRelative, want: filepath.Join("a", "b.c")},
		{name: "local", path: "//depot/main/a/b.c", syntax: SyntaxLocal, want: filepath.Join(root, "a", "b.c")},
		{name: "local_resolves_dots", path: "//depot/main/a/../b.c", syntax: SyntaxLocal, want: filepath.Join(root, "b.c")},
		{name: "outside_stream", path: "//depot/dev/a.c", syntax: SyntaxClientRelative, wantErr: ErrPathNotUnderStream},
		{name: "sibling_prefix", path: "//depot/mainline/a.c", syntax: SyntaxLocal, wantErr: ErrPathNotUnderStream},
		{name: "depot_outside_stream_ok", path: "//depot/dev/a.c", syntax: SyntaxDepot, want: "//depot/dev/a.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := TranslatePath(tt.path, tt.syntax, info)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("TranslatePath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TranslatePath() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("TranslatePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslatePathEmptyStream(t *testing.T) {
	t.Parallel()

	_, err := TranslatePath("//depot/main/a.c", SyntaxClientRelative, ClientInfo{})
	if !errors.Is(err, ErrPathNotUnderStream) {
		t.Fatalf("expected ErrPathNotUnderStream without a client stream, got %v", err)
	}
}

// Root joined with the client relative form is the local form.
func TestTranslatePathLocalMatchesRelative(t *testing.T) {
	t.Parallel()

	info := ClientInfo{ClientStream: "//streams/dev/", ClientRoot: filepath.FromSlash("/ws")}
	for _, p := range []string{"//streams/dev/x", "//streams/dev/a/b/c.txt", "//streams/dev/a/./d"} {
		rel, err := TranslatePath(p, SyntaxClientRelative, info)
		if err != nil {
			t.Fatal(err)
		}
		local, err := TranslatePath(p, SyntaxLocal, info)
		if err != nil {
			t.Fatal(err)
		}
		want, err := filepath.Abs(filepath.Join(info.ClientRoot, rel))
		if err != nil {
			t.Fatal(err)
		}
		if local != want {
			t.Fatalf("%s: local %q != root+relative %q", p, local, want)
		}
	}
}

func TestExtractSyntaxFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantArgs   []string
		wantSyntax FileSyntax
	}{
		{name: "none", args: []string{"-c", "123"}, wantArgs: []string{"-c", "123"}, wantSyntax: SyntaxClientRelative},
		{name: "local", args: []string{"-LocalSyntax", "..."}, wantArgs: []string{"..."}, wantSyntax: SyntaxLocal},
		{name: "depot", args: []string{"-depotsyntax"}, wantArgs: []string{}, wantSyntax: SyntaxDepot},
		{name: "last_wins", args: []string{"-depotsyntax", "-localsyntax"}, wantArgs: []string{}, wantSyntax: SyntaxLocal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orig := slices.Clone(tt.args)
			gotArgs, gotSyntax := ExtractSyntaxFlags(tt.args, SyntaxClientRelative)
			if !slices.Equal(gotArgs, tt.wantArgs) || gotSyntax != tt.wantSyntax {
				t.Fatalf("ExtractSyntaxFlags() = %q, %v; want %q, %v", gotArgs, gotSyntax, tt.wantArgs, tt.wantSyntax)
			}
			if !slices.Equal(tt.args, orig) {
				t.Fatalf("input mutated: %q", tt.args)
			}
		})
	}
}

func TestFileSyntaxFromString(t *testing.T) {
	t.Parallel()

	for _, s := range []FileSyntax{SyntaxClientRelative, SyntaxLocal, SyntaxDepot, SyntaxClient} {
		if got := FileSyntaxFromString(s.String()); got != s {
			t.Errorf("round trip %v -> %v", s, got)
		}
	}
	if got := FileSyntaxFromString("bogus"); got != SyntaxClientRelative {
		t.Errorf("unknown syntax = %v", got)
	}
}
