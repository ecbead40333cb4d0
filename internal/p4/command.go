package p4

import (
	"slices"
	"strings"
)

// CommandKind is the closed set of p4 commands with dedicated handling.
// Everything else is CommandOther and passes through untouched.
type CommandKind uint8

const (
	CommandOther CommandKind = iota
	CommandInfo
	CommandChanges
	CommandFileLog
	CommandOpened
)

func (k CommandKind) String() string {
	switch k {
	case CommandInfo:
		return "info"
	case CommandChanges:
		return "changes"
	case CommandFileLog:
		return "filelog"
	case CommandOpened:
		return "opened"
	default:
		return "other"
	}
}

func ParseCommandKind(command string) CommandKind {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "info":
		return CommandInfo
	case "changes", "changelists":
		return CommandChanges
	case "filelog":
		return CommandFileLog
	case "opened":
		return CommandOpened
	default:
		return CommandOther
	}
}

// MyFlag is the convenience switch of p4 changes that limits the listing to
// the session's own user and client.
const MyFlag = "-my"

func hasMyFlag(args []string) bool {
	return slices.Contains(args, MyFlag)
}

// expandMyFlag replaces the -my switch with "-u <user> -c <client>" at the
// position of its first occurrence, so the filter flags still precede any file
// arguments. Repeated -my tokens are dropped.
func expandMyFlag(args []string, info ClientInfo) []string {
	out := make([]string, 0, len(args)+3)
	expanded := false
	for _, arg := range args {
		if arg != MyFlag {
			out = append(out, arg)
			continue
		}
		if !expanded {
			out = append(out, "-u", info.UserName, "-c", info.ClientName)
			expanded = true
		}
	}
	return out
}
