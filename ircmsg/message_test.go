package ircmsg

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input    string
		expected Message
	}{
		{
			"PRIVMSG kaniini :this is a test message!",
			Message{nil, "", "PRIVMSG", []string{"kaniini", "this is a test message!"}},
		},
		{
			":irc.tortois.es 001 kaniini :Welcome to IRC, kaniini!",
			Message{nil, "irc.tortois.es", "001", []string{"kaniini", "Welcome to IRC, kaniini!"}},
		},
		{
			"@foo=bar :src PRIVMSG #chan :hi",
			Message{map[string]TagValue{"foo": MakeTagValue("bar")}, "src", "PRIVMSG", []string{"#chan", "hi"}},
		},
		{
			"@a=b;c :src  JOIN  #chan",
			Message{map[string]TagValue{"a": MakeTagValue("b"), "c": NoTagValue()}, "src", "JOIN", []string{"#chan"}},
		},
		{
			"@time=12\\:34\\s56 PING",
			Message{map[string]TagValue{"time": MakeTagValue("12;34 56")}, "", "PING", nil},
		},
		{
			// rest-of-line rule without a colon on the final token
			"MODE #chan +o  alice",
			Message{nil, "", "MODE", []string{"#chan", "+o", "alice"}},
		},
		{
			"capab ",
			Message{nil, "", "CAPAB", nil},
		},
		{
			"PRIVMSG #chan ::leading colon",
			Message{nil, "", "PRIVMSG", []string{"#chan", ":leading colon"}},
		},
	}

	for _, tt := range tests {
		msg, err := ParseLine(tt.input)
		if err != nil {
			t.Errorf("ParseLine(%q) returned error: %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(msg, tt.expected) {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tt.input, msg, tt.expected)
		}
	}
}

func TestParseLineEmpty(t *testing.T) {
	for _, input := range []string{"", " ", "  "} {
		if _, err := ParseLine(input); err != ErrorLineIsEmpty {
			t.Errorf("ParseLine(%q) err = %v, want ErrorLineIsEmpty", input, err)
		}
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		msg      Message
		expected string
	}{
		{
			MakeMessage(nil, "kaniini!~kaniini@localhost", "PRIVMSG", "kaniini", "hello world!"),
			":kaniini!~kaniini@localhost PRIVMSG kaniini :hello world!",
		},
		{
			MakeMessage(nil, "", "NICK", "newnick"),
			"NICK newnick",
		},
		{
			MakeMessage(map[string]TagValue{"account": MakeTagValue("ka niini")}, "", "PRIVMSG", "#chan", "hi"),
			"@account=ka\\sniini PRIVMSG #chan hi",
		},
		{
			// empty param forces trailing form
			MakeMessage(nil, "", "TOPIC", "#chan", ""),
			"TOPIC #chan :",
		},
	}

	for _, tt := range tests {
		line, err := tt.msg.Line()
		if err != nil {
			t.Errorf("Line() returned error: %v", err)
			continue
		}
		if line != tt.expected {
			t.Errorf("Line() = %q, want %q", line, tt.expected)
		}
	}
}

// round-trip: parse(serialize(m)) reproduces verb, source, tags and params
func TestRoundTrip(t *testing.T) {
	messages := []Message{
		MakeMessage(nil, "", "PRIVMSG", "#chan", "two words"),
		MakeMessage(nil, "nick!u@h", "JOIN", "#chan"),
		MakeMessage(map[string]TagValue{"x": MakeTagValue("y;z"), "flag": NoTagValue()}, "serv.example.com", "005", "nick", "PREFIX=(ov)@+", "are supported"),
		MakeMessage(nil, "", "AUTHENTICATE", "+"),
	}

	for _, msg := range messages {
		line, err := msg.Line()
		if err != nil {
			t.Fatalf("Line() error: %v", err)
		}
		parsed, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q) error: %v", line, err)
		}
		if parsed.Verb != msg.Verb || parsed.Source != msg.Source {
			t.Errorf("round trip of %q lost verb/source: %+v", line, parsed)
		}
		if !reflect.DeepEqual(parsed.Params, msg.Params) {
			t.Errorf("round trip of %q lost params: %v != %v", line, parsed.Params, msg.Params)
		}
		if len(msg.Tags) > 0 && !reflect.DeepEqual(parsed.Tags, msg.Tags) {
			t.Errorf("round trip of %q lost tags: %v != %v", line, parsed.Tags, msg.Tags)
		}
	}
}

func TestTagEscaping(t *testing.T) {
	tests := []struct {
		raw     string
		escaped string
	}{
		{"", ""},
		{"simple", "simple"},
		{"with space", "with\\sspace"},
		{"semi;colon", "semi\\:colon"},
		{"back\\slash", "back\\\\slash"},
		{"cr\rlf\n", "cr\\rlf\\n"},
	}

	for _, tt := range tests {
		if got := EscapeTagValue(tt.raw); got != tt.escaped {
			t.Errorf("EscapeTagValue(%q) = %q, want %q", tt.raw, got, tt.escaped)
		}
		if got := UnescapeTagValue(tt.escaped); got != tt.raw {
			t.Errorf("UnescapeTagValue(%q) = %q, want %q", tt.escaped, got, tt.raw)
		}
	}

	// unknown escapes pass the escaped character through
	if got := UnescapeTagValue("\\x\\"); got != "x" {
		t.Errorf("UnescapeTagValue(\"\\\\x\\\\\") = %q, want \"x\"", got)
	}
}

func TestParseNickMask(t *testing.T) {
	tests := []struct {
		mask string
		nick string
		user string
		host string
	}{
		{"nick!user@host", "nick", "user", "host"},
		{"nick!user", "nick", "user", ""},
		{"nick@host", "nick", "", "host"},
		{"nick", "nick", "", ""},
		{"irc.example.com", "irc.example.com", "", ""},
	}

	for _, tt := range tests {
		nm := ParseNickMask(tt.mask)
		if nm.Nick != tt.nick || nm.User != tt.user || nm.Host != tt.host {
			t.Errorf("ParseNickMask(%q) = %+v", tt.mask, nm)
		}
	}
}

func TestValidateHostname(t *testing.T) {
	valid := []string{"irc.example.com", "a.b", "tolsun.oulu.fi"}
	invalid := []string{"nodots", "", "-bad.example.com", "bad-.example.com", "under_score.com", "double..dot"}

	for _, host := range valid {
		if !ValidateHostname(host) {
			t.Errorf("ValidateHostname(%q) = false, want true", host)
		}
	}
	for _, host := range invalid {
		if ValidateHostname(host) {
			t.Errorf("ValidateHostname(%q) = true, want false", host)
		}
	}
}
