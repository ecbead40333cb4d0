package p4

import "context"

// ParseStructured converts the raw output of res into typed records. Commands
// without a parser come back as RawLines.
//
// For info the session cache wins: a cached ClientInfo is returned as is,
// otherwise the parsed one is stored into the session.
func ParseStructured(ctx context.Context, res ExecutionResult) Output {
	inv := res.Invocation
	switch ParseCommandKind(inv.Command) {
	case CommandInfo:
		if inv.Session == nil {
			return ParseClientInfo(res.Output)
		}
		if info, ok := inv.Session.ClientInfo(ctx); ok {
			return info
		}
		info := ParseClientInfo(res.Output)
		inv.Session.SetClientInfo(ctx, info)
		return info
	case CommandChanges:
		return ParseChanges(res.Output, inv.Args)
	case CommandFileLog:
		return ParseFileLog(res.Output, inv.Args)
	case CommandOpened:
		var info ClientInfo
		if inv.Session != nil {
			info, _ = inv.Session.ClientInfo(ctx)
		}
		return ParseOpened(res.Output, inv.Syntax, info)
	case CommandOther:
		return RawLines(res.Output)
	default:
		return RawLines(res.Output)
	}
}
