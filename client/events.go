// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"strings"

	"github.com/goshuirc/irc/eventmgr"
	"github.com/goshuirc/irc/ircfmt"
	"github.com/goshuirc/irc/ircmsg"
)

const ctcpDelim = '\x01'
const ctcpQuote = '\\'

// namedEvent pairs a dispatch name with the event's info map. One wire
// message usually becomes one event, but CTCP-bearing messages fan out.
type namedEvent struct {
	Name string
	Info eventmgr.InfoMap
}

// verbParamMap names positional parameters per verb. An attribute starting
// with "escaped_" is run through the formatting escape before being set.
// The source, target and channel attributes are later resolved to live
// User, Channel or Server records.
var verbParamMap = map[string]map[int][]string{
	"target": {
		0: {
			"privmsg", "pubmsg", "privnotice", "pubnotice", "ctcp",
			"umode", "cmode", "nosuchservice", "ctcp_reply",
			"targettoofast",
		},
		1: {"cmodeis"},
	},
	"new_nick": {
		0: {"nick"},
	},
	"nick": {
		0: {"welcome"},
	},
	"user": {
		1: {"kick"},
	},
	"escaped_message": {
		0: {
			"info", "endofinfo",
			"motdstart", "motd", "endofmotd",
			"youreoper",
			"adminloc1", "adminloc2", "adminemail",
			"quit",
		},
		1: {
			"privmsg", "pubmsg", "privnotice", "pubnotice",
			"nosuchnick", "nosuchserver", "nosuchchannel", "nosuchservice",
			"targettoofast", "welcome",
		},
		2: {"kick"},
	},
	"channel": {
		0: {"cannotsendtochan", "topic", "cmode", "kick"},
		1: {"endofnames", "cmodeis", "chancreatetime"},
		2: {"namreply"},
	},
	"topic": {
		1: {"topic"},
	},
	"names": {
		3: {"namreply"},
	},
	"timestamp": {
		2: {"chancreatetime"},
	},
	"escaped_reason": {
		1: {"cannotsendtochan"},
	},
	"channels": {
		0: {"join", "part"},
	},
}

// IsChannel reports whether a name looks like a channel under the
// server's advertised CHANTYPES.
func (sc *ServerConnection) IsChannel(name string) bool {
	return len(name) > 0 && strings.IndexByte(sc.Features.ChanTypes(), name[0]) > -1
}

// IsServer reports whether a name looks like a server hostname.
func (sc *ServerConnection) IsServer(name string) bool {
	return ircmsg.ValidateHostname(name)
}

// IsNick reports whether a name is (assumed to be) a nick.
func (sc *ServerConnection) IsNick(name string) bool {
	return !sc.IsChannel(name) && !sc.IsServer(name)
}

func cloneInfo(info eventmgr.InfoMap) eventmgr.InfoMap {
	out := make(eventmgr.InfoMap, len(info))
	for key, value := range info {
		out[key] = value
	}
	return out
}

// ctcpDequote reverses CTCP quoting: \a is the delimiter byte, a doubled
// quote is itself, any other escaped character passes through literally.
func ctcpDequote(in string) string {
	var out []byte
	for i := 0; i < len(in); i++ {
		if in[i] != ctcpQuote {
			out = append(out, in[i])
			continue
		}
		i++
		if i >= len(in) {
			break
		}
		switch in[i] {
		case 'a':
			out = append(out, ctcpDelim)
		case ctcpQuote:
			out = append(out, ctcpQuote)
		default:
			out = append(out, in[i])
		}
	}
	return string(out)
}

// ctcpUnpack splits a message event on the CTCP delimiter. Even segments
// stay normal message events (empty ones are dropped), odd segments become
// ctcp or ctcp_reply events with the verb and text dequoted.
func ctcpUnpack(base eventmgr.InfoMap) []namedEvent {
	verb, _ := base["verb"].(string)
	params, _ := base["params"].([]string)
	if len(params) < 2 {
		return []namedEvent{{verb, base}}
	}

	var events []namedEvent
	segments := strings.Split(params[1], string(ctcpDelim))

	for i, segment := range segments {
		info := cloneInfo(base)

		if i%2 == 0 {
			if segment == "" {
				continue
			}
			info["params"] = []string{params[0], ctcpDequote(segment)}
		} else {
			if verb == "privnotice" || verb == "pubnotice" {
				info["verb"] = "ctcp_reply"
			} else {
				info["verb"] = "ctcp"
			}

			segment = strings.TrimLeft(segment, " ")
			ctcpVerb, ctcpText := segment, ""
			if idx := strings.Index(segment, " "); idx > -1 {
				ctcpVerb, ctcpText = segment[:idx], segment[idx+1:]
			}
			info["ctcp_verb"] = strings.ToLower(ctcpDequote(ctcpVerb))
			info["ctcp_text"] = ctcpDequote(ctcpText)
		}

		name, _ := info["verb"].(string)
		events = append(events, namedEvent{name, info})
	}

	return events
}

// translateMessage turns one decoded message into the ordered list of
// events it gives rise to: numeric resolution, verb refinement, CTCP
// unpacking, positional attribute extraction, mode parsing, NAMES
// handling, and resolution of raw names into tracked entities. Unknown
// verbs pass through with whatever attributes apply.
func (sc *ServerConnection) translateMessage(direction string, msg ircmsg.Message) []namedEvent {
	verb := strings.ToLower(msg.Verb)
	if name, isNumeric := numericNames[verb]; isNumeric {
		verb = name
	}

	if len(msg.Params) > 0 {
		switch verb {
		case "privmsg":
			if sc.IsChannel(msg.Params[0]) {
				verb = "pubmsg"
			}
		case "notice":
			verb = "privnotice"
			if sc.IsChannel(msg.Params[0]) {
				verb = "pubnotice"
			}
		case "mode":
			verb = "umode"
			if sc.IsChannel(msg.Params[0]) {
				verb = "cmode"
			}
		}
	}

	params := make([]string, len(msg.Params))
	copy(params, msg.Params)

	base := eventmgr.InfoMap{
		"server":    sc,
		"direction": direction,
		"verb":      verb,
		"source":    msg.Source,
		"tags":      msg.Tags,
		"params":    params,
	}

	events := []namedEvent{{verb, base}}
	switch verb {
	case "privmsg", "pubmsg", "privnotice", "pubnotice":
		events = ctcpUnpack(base)
	}

	// the list can grow while we walk it (action synthesis)
	for i := 0; i < len(events); i++ {
		name := events[i].Name
		info := events[i].Info
		params, _ := info["params"].([]string)

		for attr, positions := range verbParamMap {
			escaped := strings.HasPrefix(attr, "escaped_")
			target := strings.TrimPrefix(attr, "escaped_")

			for position, verbs := range positions {
				if len(params) <= position || !containsString(verbs, name) {
					continue
				}
				value := params[position]
				if escaped {
					value = ircfmt.Escape(value)
				}
				info[target] = value
			}
		}

		switch name {
		case "welcome":
			// servers with a low NICKLEN may silently truncate our nick
			if nick, ok := info["nick"].(string); ok && nick != "" && sc.Nick != nil {
				sc.Nick.Set(nick)
			}

		case "ctcp":
			if ctcpVerb, _ := info["ctcp_verb"].(string); ctcpVerb == "action" {
				action := cloneInfo(info)
				action["verb"] = "action"
				action["message"], _ = info["ctcp_text"].(string)
				events = append(events, namedEvent{"action", action})
			}

		case "umode":
			if len(params) > 1 {
				sc.attachModes(info, params[1:])
			}

		case "cmode":
			if len(params) > 1 {
				sc.attachModes(info, params[1:])
			}

		case "cmodeis":
			if len(params) > 2 {
				sc.attachModes(info, params[2:])
			} else {
				info["modestring"] = ""
				info["modes"] = []ModeChange(nil)
			}

		case "namreply":
			sc.handleNamreply(info, params)
		}

		sc.resolveEntities(info)
		sc.attachFromTo(info)
	}

	return events
}

func (sc *ServerConnection) attachModes(info eventmgr.InfoMap, modeParams []string) {
	changes, err := ParseModes(modeParams, sc.Features.ChanModes(), sc.Features.PrefixModes())
	if err != nil {
		return
	}
	info["modestring"] = strings.TrimSpace(strings.Join(modeParams, " "))
	info["modes"] = changes
}

// handleNamreply records the NAMES membership on the channel, stripping
// privilege prefixes off each name before treating it as a nickmask.
func (sc *ServerConnection) handleNamreply(info eventmgr.InfoMap, params []string) {
	if len(params) < 3 {
		return
	}
	channel := sc.Info.CreateChannel(params[2])

	var names []string
	if len(params) > 3 {
		names = strings.Fields(params[3])
	}

	prefixChars := sc.Features.PrefixChars()
	channelPrefixes := make(map[string]string)
	var niceNames []string

	for _, name := range names {
		prefixes := ""
		for len(name) > 0 && strings.IndexByte(prefixChars, name[0]) > -1 {
			prefixes += string(name[0])
			name = name[1:]
		}
		if name == "" {
			continue
		}

		user := sc.Info.CreateUser(name)
		channel.AddUser(user.Nick.String(), prefixes)
		if !user.ChannelNames.Contains(channel.Name.String()) {
			user.ChannelNames.Append(channel.Name.String())
		}
		channelPrefixes[user.Nick.String()] = prefixes
		niceNames = append(niceNames, name)
	}

	info["users"] = strings.Join(niceNames, ",")
	info["prefixes"] = channelPrefixes
}

// resolveEntities replaces raw name strings with tracked entities: a
// channel-typed name becomes a Channel, a valid hostname a Server, and
// anything else a User.
func (sc *ServerConnection) resolveEntities(info eventmgr.InfoMap) {
	for _, attr := range []string{"source", "target", "channel"} {
		name, _ := info[attr].(string)
		if name == "" {
			continue
		}
		if sc.IsChannel(name) {
			info[attr] = sc.Info.CreateChannel(name)
		} else if strings.Contains(name, ".") && sc.IsServer(name) {
			info[attr] = sc.Info.CreateServer(name)
		} else {
			info[attr] = sc.Info.CreateUser(name)
		}
	}

	if names, ok := info["channels"].(string); ok && names != "" {
		var channels []*Channel
		for _, name := range strings.Split(names, ",") {
			channels = append(channels, sc.Info.CreateChannel(name))
		}
		info["channels"] = channels
	}

	if names, ok := info["users"].(string); ok && names != "" {
		var users []*User
		for _, name := range strings.Split(names, ",") {
			users = append(users, sc.Info.CreateUser(name))
		}
		info["users"] = users
	}

	if name, ok := info["user"].(string); ok && name != "" {
		info["user"] = sc.Info.CreateUser(name)
	}
}

// attachFromTo sets the from_to convenience attribute: the entity a bot
// would reply to. Omitted when that entity is a server.
func (sc *ServerConnection) attachFromTo(info eventmgr.InfoMap) {
	verb, _ := info["verb"].(string)
	direction, _ := info["direction"].(string)

	switch verb {
	case "privmsg", "privnotice":
		if direction == "in" {
			info["from_to"] = info["source"]
		} else {
			info["from_to"] = info["target"]
		}
	case "pubmsg", "pubnotice":
		info["from_to"] = info["target"]
	default:
		return
	}

	switch value := info["from_to"].(type) {
	case *Server:
		delete(info, "from_to")
	case string:
		// an unresolved (empty) source never becomes a from_to
		if value == "" {
			delete(info, "from_to")
		}
	case nil:
		delete(info, "from_to")
	}
}
