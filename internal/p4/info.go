package p4

import "regexp"

type infoField struct {
	re  *regexp.Regexp
	set func(*ClientInfo, string)
}

// p4 info prints "Label: value" lines whose order and set vary between
// server versions, so each label is matched on its own.
var infoFields = []infoField{
	{
		re:  regexp.MustCompile(`(?i)^user\sname:\s([0-9a-zA-Z_\-.@]*)`),
		set: func(c *ClientInfo, v string) { c.UserName = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^client\sname:\s([0-9a-zA-Z_\-.@]*)`),
		set: func(c *ClientInfo, v string) { c.ClientName = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^client\shost:\s([0-9a-zA-Z_\-.@]*)`),
		set: func(c *ClientInfo, v string) { c.ClientHost = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^client\sroot:\s([0-9a-zA-Z_\-.@\\:/]*)`),
		set: func(c *ClientInfo, v string) { c.ClientRoot = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^client\sstream:\s([0-9a-zA-Z_\-./]*)`),
		set: func(c *ClientInfo, v string) { c.ClientStream = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^client\saddress:\s(.*)`),
		set: func(c *ClientInfo, v string) { c.ClientAddress = v },
	},
	{
		re:  regexp.MustCompile(`(?i)^server\saddress:\s(.*)`),
		set: func(c *ClientInfo, v string) { c.ServerAddress = v },
	},
}

// ParseClientInfo extracts workspace metadata from p4 info output. Missing
// labels leave the matching field empty and unknown lines are ignored.
func ParseClientInfo(lines []string) ClientInfo {
	var info ClientInfo
	for _, line := range lines {
		if line == "" {
			continue
		}
		for _, f := range infoFields {
			if m := f.re.FindStringSubmatch(line); m != nil {
				f.set(&info, m[1])
				break
			}
		}
	}
	return info
}
