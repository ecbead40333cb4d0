package p4

import (
	"path/filepath"
	"testing"
)

func TestParseOpened(t *testing.T) {
	t.Parallel()

	info := ClientInfo{ClientStream: "//depot/proj", ClientRoot: filepath.FromSlash("/ws/proj")}
	lines := []string{
		"//depot/proj/file.cpp#4 - edit default change (text)",
		"//depot/proj/lib/util.h#1 - add change 1234 (text)",
		"//depot/proj/old.txt#7 - delete change 99 (text)",
		"//depot/proj/gone.txt#2 - move/delete default change (text)",
		"//depot/other/x.c#3 - edit default change (text)",
		"//depot/proj/nochange.c#1 - edit change (text)",
		"garbage",
		"",
	}

	tests := []struct {
		name   string
		syntax FileSyntax
		paths  []string
	}{
		{
			name:   "relative",
			syntax: SyntaxClientRelative,
			paths: []string{
				"file.cpp",
				filepath.FromSlash("lib/util.h"),
				"old.txt",
				"gone.txt",
				"//depot/other/x.c",
			},
		},
		{
			name:   "depot",
			syntax: SyntaxDepot,
			paths: []string{
				"//depot/proj/file.cpp",
				"//depot/proj/lib/util.h",
				"//depot/proj/old.txt",
				"//depot/proj/gone.txt",
				"//depot/other/x.c",
			},
		},
		{
			name:   "local",
			syntax: SyntaxLocal,
			paths: []string{
				mustAbs(t, filepath.FromSlash("/ws/proj/file.cpp")),
				mustAbs(t, filepath.FromSlash("/ws/proj/lib/util.h")),
				mustAbs(t, filepath.FromSlash("/ws/proj/old.txt")),
				mustAbs(t, filepath.FromSlash("/ws/proj/gone.txt")),
				"//depot/other/x.c",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseOpened(lines, tt.syntax, info)
			if len(got) != len(tt.paths) {
				t.Fatalf("expected %d files, got %d: %+v", len(tt.paths), len(got), got)
			}
			for i, want := range tt.paths {
				if got[i].FilePath != want {
					t.Errorf("file %d path = %q, want %q", i, got[i].FilePath, want)
				}
			}
		})
	}

	got := ParseOpened(lines, SyntaxDepot, info)
	if got[0] != (OpenedFile{FilePath: "//depot/proj/file.cpp", Revision: 4, ChangeList: DefaultChangeList, Action: "edit"}) {
		t.Fatalf("default change file = %+v", got[0])
	}
	if got[1].ChangeList != 1234 || got[1].Action != "add" || got[1].Revision != 1 {
		t.Fatalf("numbered change file = %+v", got[1])
	}
	if got[3].Action != "move/delete" {
		t.Fatalf("move/delete action = %q", got[3].Action)
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}
