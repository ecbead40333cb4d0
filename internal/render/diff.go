package render

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/thiagokokada/p4x/internal/p4"
)

// ClientInfoDiff returns a unified diff between two ClientInfo values, or ""
// when they are equal.
func ClientInfoDiff(before, after p4.ClientInfo) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        clientInfoText(before),
		B:        clientInfoText(after),
		FromFile: "cached",
		ToFile:   "p4 info",
		Context:  0,
	})
}

func clientInfoText(info p4.ClientInfo) []string {
	lines := make([]string, 0, 7)
	for _, kv := range clientInfoLines(info) {
		lines = append(lines, fmt.Sprintf("%s: %s\n", kv[0], kv[1]))
	}
	return lines
}
