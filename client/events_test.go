// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/goshuirc/irc/eventmgr"
	"github.com/goshuirc/irc/ircmsg"
)

func newTestConnection(t *testing.T) (*ServerConnection, *[]string) {
	t.Helper()
	sc := NewServerConnection("test", zerolog.Nop())
	if err := sc.SetUserInfo("coolguy", "cg", "Cool Guy"); err != nil {
		t.Fatal(err)
	}
	sent := new([]string)
	sc.RegisterEvent("out", "raw", func(event eventmgr.InfoMap) {
		*sent = append(*sent, event["data"].(string))
	}, -100)
	return sc, sent
}

func mustParse(t *testing.T, line string) ircmsg.Message {
	t.Helper()
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine(%q): %v", line, err)
	}
	return msg
}

func TestVerbRefinement(t *testing.T) {
	sc, _ := newTestConnection(t)

	tests := []struct {
		line string
		want string
	}{
		{":dan!d@h PRIVMSG #chat :hi", "pubmsg"},
		{":dan!d@h PRIVMSG coolguy :hi", "privmsg"},
		{":dan!d@h NOTICE #chat :hi", "pubnotice"},
		{":dan!d@h NOTICE coolguy :hi", "privnotice"},
		{":dan!d@h MODE #chat +m", "cmode"},
		{":dan!d@h MODE dan +i", "umode"},
		{":server.example.com 001 coolguy :Welcome", "welcome"},
		{":server.example.com 421 coolguy FOO :Unknown command", "unknowncommand"},
	}

	for _, test := range tests {
		events := sc.translateMessage("in", mustParse(t, test.line))
		if len(events) == 0 {
			t.Errorf("%q: no events", test.line)
			continue
		}
		if events[0].Name != test.want {
			t.Errorf("%q: got event %q, want %q", test.line, events[0].Name, test.want)
		}
	}
}

func TestUnmappedNumericPassesThrough(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":server.example.com 742 coolguy :whatever"))
	if len(events) != 1 || events[0].Name != "742" {
		t.Errorf("unmapped numeric: got %v", events[0].Name)
	}
}

func TestCtcpActionUnpacking(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":dan!d@h PRIVMSG #chat :\x01ACTION waves\x01"))

	var names []string
	var action eventmgr.InfoMap
	for _, event := range events {
		names = append(names, event.Name)
		if event.Name == "action" {
			action = event.Info
		}
	}

	// one ctcp event plus the synthesized action, no plain message
	for _, name := range names {
		if name == "pubmsg" {
			t.Errorf("empty segments should not become message events: %v", names)
		}
	}
	if action == nil {
		t.Fatalf("no action event: %v", names)
	}
	if action["message"] != "waves" {
		t.Errorf("action message: got %q, want \"waves\"", action["message"])
	}
}

func TestCtcpMixedSegments(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":dan!d@h PRIVMSG coolguy :hello \x01VERSION\x01 there"))

	var gotPlain, gotCtcp int
	for _, event := range events {
		switch event.Name {
		case "privmsg":
			gotPlain++
		case "ctcp":
			gotCtcp++
			if event.Info["ctcp_verb"] != "version" {
				t.Errorf("ctcp_verb: got %q", event.Info["ctcp_verb"])
			}
		}
	}
	if gotPlain != 2 || gotCtcp != 1 {
		t.Errorf("got %d plain and %d ctcp events, want 2 and 1", gotPlain, gotCtcp)
	}
}

func TestCtcpReplyFromNotice(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":dan!d@h NOTICE coolguy :\x01VERSION someclient 1.0\x01"))

	if len(events) != 1 || events[0].Name != "ctcp_reply" {
		t.Fatalf("got %v", events)
	}
	if events[0].Info["ctcp_text"] != "someclient 1.0" {
		t.Errorf("ctcp_text: got %q", events[0].Info["ctcp_text"])
	}
}

func TestCtcpDequote(t *testing.T) {
	tests := []struct{ in, want string }{
		{`hello`, "hello"},
		{`back\\slash`, `back\slash`},
		{`delim\a!`, "delim\x01!"},
		{`unknown\belse`, "unknownbelse"},
		{`trailing\`, "trailing"},
	}
	for _, test := range tests {
		if got := ctcpDequote(test.in); got != test.want {
			t.Errorf("ctcpDequote(%q): got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestEntityResolution(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":dan!d@example.com PRIVMSG #chat :hi"))

	info := events[0].Info
	source, ok := info["source"].(*User)
	if !ok {
		t.Fatalf("source not resolved to a user: %T", info["source"])
	}
	if source.Nick.String() != "dan" || source.Host.String() != "example.com" {
		t.Errorf("source fields: %q %q", source.Nick.String(), source.Host.String())
	}
	if _, ok := info["target"].(*Channel); !ok {
		t.Errorf("target not resolved to a channel: %T", info["target"])
	}
}

func TestServerSourceResolution(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":irc.example.com NOTICE coolguy :*** Looking up your hostname..."))

	if _, ok := events[0].Info["source"].(*Server); !ok {
		t.Errorf("source not resolved to a server: %T", events[0].Info["source"])
	}
	// server-sourced notices carry no from_to
	if _, exists := events[0].Info["from_to"]; exists {
		t.Error("from_to should be omitted for server sources")
	}
}

func TestFromTo(t *testing.T) {
	sc, _ := newTestConnection(t)

	events := sc.translateMessage("in", mustParse(t, ":dan!d@h PRIVMSG coolguy :hi"))
	if user, ok := events[0].Info["from_to"].(*User); !ok || user.Nick.String() != "dan" {
		t.Errorf("incoming privmsg from_to: got %v", events[0].Info["from_to"])
	}

	events = sc.translateMessage("in", mustParse(t, ":dan!d@h PRIVMSG #chat :hi"))
	if channel, ok := events[0].Info["from_to"].(*Channel); !ok || channel.Name.String() != "#chat" {
		t.Errorf("pubmsg from_to: got %v", events[0].Info["from_to"])
	}

	events = sc.translateMessage("out", ircmsg.MakeMessage(nil, "", "PRIVMSG", "dan", "hi"))
	if user, ok := events[0].Info["from_to"].(*User); !ok || user.Nick.String() != "dan" {
		t.Errorf("outgoing privmsg from_to: got %v", events[0].Info["from_to"])
	}
}

func TestWelcomeAdoptsNick(t *testing.T) {
	sc, _ := newTestConnection(t)
	sc.translateMessage("in", mustParse(t, ":server.example.com 001 coolgu :Welcome to the network coolgu"))

	if sc.Nick.String() != "coolgu" {
		t.Errorf("nick after welcome: got %q, want truncated \"coolgu\"", sc.Nick.String())
	}
}

func TestCmodeEventCarriesModes(t *testing.T) {
	sc, _ := newTestConnection(t)
	sc.Features.Ingest("CHANMODES=beI,k,l,imnpst")
	events := sc.translateMessage("in", mustParse(t, ":dan!d@h MODE #chat +bo *!*@spam.example coolguy"))

	info := events[0].Info
	changes, ok := info["modes"].([]ModeChange)
	if !ok {
		t.Fatalf("modes missing: %v", info["modes"])
	}
	want := []ModeChange{
		{'+', 'b', "*!*@spam.example", true},
		{'+', 'o', "coolguy", true},
	}
	if len(changes) != 2 || changes[0] != want[0] || changes[1] != want[1] {
		t.Errorf("modes: got %+v", changes)
	}
	if info["modestring"] != "+bo *!*@spam.example coolguy" {
		t.Errorf("modestring: got %q", info["modestring"])
	}
}

func TestNamreply(t *testing.T) {
	sc, _ := newTestConnection(t)
	sc.translateMessage("in", mustParse(t, ":server.example.com 353 coolguy = #chat :@dan +sam coolguy"))

	channel := sc.Info.LookupChannel("#chat")
	if channel == nil {
		t.Fatal("namreply should create the channel")
	}
	if channel.UserNicks.Len() != 3 {
		t.Fatalf("members: got %d, want 3", channel.UserNicks.Len())
	}

	prefixes, _ := channel.Prefixes.Get("dan")
	if prefixes != "@" {
		t.Errorf("dan's prefixes: got %q, want \"@\"", prefixes)
	}
	prefixes, _ = channel.Prefixes.Get("coolguy")
	if prefixes != "" {
		t.Errorf("coolguy's prefixes: got %q, want none", prefixes)
	}
	if sc.Info.LookupUser("sam") == nil {
		t.Error("namreply should create member users")
	}
}

func TestEscapedMessageAttribute(t *testing.T) {
	sc, _ := newTestConnection(t)
	events := sc.translateMessage("in", mustParse(t, ":dan!d@h PRIVMSG #chat :\x02bold\x02 move"))

	if events[0].Info["message"] != "$bbold$b move" {
		t.Errorf("escaped message: got %q", events[0].Info["message"])
	}
}
