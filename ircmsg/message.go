// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package ircmsg converts raw IRC protocol lines to and from native
// message structs, including IRCv3 message tags.
package ircmsg

import (
	"errors"
	"strings"
)

// ErrorLineIsEmpty is returned when an empty line, or a line containing no
// verb, is parsed.
var ErrorLineIsEmpty = errors.New("line is empty")

// TagValue represents the value of a message tag. Tags with no value
// ("@tag" rather than "@tag=val") have HasValue set to false.
type TagValue struct {
	HasValue bool
	Value    string
}

// MakeTagValue returns a TagValue with the given value.
func MakeTagValue(value string) TagValue {
	return TagValue{
		HasValue: true,
		Value:    value,
	}
}

// NoTagValue returns a TagValue without a value.
func NoTagValue() TagValue {
	return TagValue{}
}

// Message represents one parsed IRC protocol line.
//
// Verb keeps whatever casing and form arrived on the wire: numerics stay as
// their original three-digit text so serialization is faithful.
type Message struct {
	Tags   map[string]TagValue
	Source string
	Verb   string
	Params []string
}

// MakeMessage assembles a Message from the given attributes.
func MakeMessage(tags map[string]TagValue, source string, verb string, params ...string) Message {
	return Message{
		Tags:   tags,
		Source: source,
		Verb:   verb,
		Params: params,
	}
}

var tagUnescapes = map[byte]string{
	'\\': "\\",
	':':  ";",
	's':  " ",
	'r':  "\r",
	'n':  "\n",
}

var tagEscapes = []struct {
	char    string
	escaped string
}{
	{"\\", "\\\\"},
	{";", "\\:"},
	{" ", "\\s"},
	{"\r", "\\r"},
	{"\n", "\\n"},
}

// UnescapeTagValue unescapes a raw tag value from the wire.
func UnescapeTagValue(in string) string {
	var out strings.Builder
	for i := 0; i < len(in); i++ {
		if in[i] == '\\' {
			i++
			if i >= len(in) {
				// a trailing backslash escapes nothing
				break
			}
			unescaped, exists := tagUnescapes[in[i]]
			if exists {
				out.WriteString(unescaped)
			} else {
				out.WriteByte(in[i])
			}
		} else {
			out.WriteByte(in[i])
		}
	}
	return out.String()
}

// EscapeTagValue escapes a tag value for the wire.
func EscapeTagValue(in string) string {
	for _, esc := range tagEscapes {
		in = strings.Replace(in, esc.char, esc.escaped, -1)
	}
	return in
}

// ParseLine parses a raw IRC line (without trailing CR/LF) into a Message.
func ParseLine(line string) (Message, error) {
	var message Message

	tokens := strings.Split(line, " ")

	if len(tokens) > 0 && strings.HasPrefix(tokens[0], "@") {
		message.Tags = make(map[string]TagValue)
		for _, tag := range strings.Split(tokens[0][1:], ";") {
			if tag == "" {
				continue
			}
			if idx := strings.Index(tag, "="); idx > -1 {
				message.Tags[tag[:idx]] = MakeTagValue(UnescapeTagValue(tag[idx+1:]))
			} else {
				message.Tags[tag] = NoTagValue()
			}
		}
		tokens = tokens[1:]
	}

	// skip space runs between the tag block and the rest of the line
	for len(tokens) > 0 && tokens[0] == "" {
		tokens = tokens[1:]
	}

	if len(tokens) > 0 && strings.HasPrefix(tokens[0], ":") {
		message.Source = tokens[0][1:]
		tokens = tokens[1:]
		for len(tokens) > 0 && tokens[0] == "" {
			tokens = tokens[1:]
		}
	}

	if len(tokens) == 0 || tokens[0] == "" {
		return message, ErrorLineIsEmpty
	}

	message.Verb = strings.ToUpper(tokens[0])
	tokens = tokens[1:]

	for len(tokens) > 0 {
		token := tokens[0]
		if token == "" && len(tokens) > 1 {
			// consecutive spaces between params, tolerated per RFC1459
			tokens = tokens[1:]
			continue
		}
		if strings.HasPrefix(token, ":") {
			// trailing param: the rest of the line, spaces included
			message.Params = append(message.Params, strings.Join(tokens, " ")[1:])
			break
		}
		if token != "" {
			message.Params = append(message.Params, token)
		}
		tokens = tokens[1:]
	}

	return message, nil
}

// Line returns the wire form of the message, without trailing CR/LF.
func (msg *Message) Line() (string, error) {
	var line strings.Builder

	if msg.Verb == "" {
		return "", ErrorLineIsEmpty
	}

	if len(msg.Tags) > 0 {
		line.WriteByte('@')
		first := true
		for name, value := range msg.Tags {
			if !first {
				line.WriteByte(';')
			}
			first = false
			line.WriteString(name)
			if value.HasValue {
				line.WriteByte('=')
				line.WriteString(EscapeTagValue(value.Value))
			}
		}
		line.WriteByte(' ')
	}

	if msg.Source != "" {
		line.WriteByte(':')
		line.WriteString(msg.Source)
		line.WriteByte(' ')
	}

	line.WriteString(msg.Verb)

	for _, param := range msg.Params {
		line.WriteByte(' ')
		if param == "" || strings.Contains(param, " ") || strings.HasPrefix(param, ":") {
			// only one trailing param is legal, serialization stops here
			line.WriteByte(':')
			line.WriteString(param)
			break
		}
		line.WriteString(param)
	}

	return line.String(), nil
}
