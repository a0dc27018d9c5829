// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import "strings"

// CapModifiers are the flags a server may attach to an advertised
// capability with leading '-', '~' and '=' characters.
type CapModifiers struct {
	Disabled    bool
	Sticky      bool
	AckRequired bool
}

// Capability is one server-advertised capability.
type Capability struct {
	Name      string
	Value     string
	HasValue  bool
	Modifiers CapModifiers
	// Mechanisms holds the parsed value of the sasl cap.
	Mechanisms []string
}

// Capabilities tracks IRCv3 capability negotiation state: what the server
// advertises, what we want, and what has been acknowledged.
type Capabilities struct {
	Available map[string]Capability
	wanted    []string
	enabled   []string
}

// NewCapabilities returns negotiation state for the given wanted caps.
func NewCapabilities(wanted []string) *Capabilities {
	caps := &Capabilities{
		Available: make(map[string]Capability),
	}
	for _, name := range wanted {
		caps.Want(name)
	}
	return caps
}

// Want adds a capability to the wanted set.
func (caps *Capabilities) Want(name string) {
	name = strings.ToLower(name)
	for _, existing := range caps.wanted {
		if existing == name {
			return
		}
	}
	caps.wanted = append(caps.wanted, name)
}

// Wanted returns the wanted cap names in request order.
func (caps *Capabilities) Wanted() []string {
	out := make([]string, len(caps.wanted))
	copy(out, caps.wanted)
	return out
}

// Enabled returns the acknowledged cap names in ack order.
func (caps *Capabilities) Enabled() []string {
	out := make([]string, len(caps.enabled))
	copy(out, caps.enabled)
	return out
}

// IsEnabled reports whether the named cap has been acknowledged.
func (caps *Capabilities) IsEnabled(name string) bool {
	name = strings.ToLower(name)
	for _, existing := range caps.enabled {
		if existing == name {
			return true
		}
	}
	return false
}

func (caps *Capabilities) enable(name string) {
	name = strings.ToLower(name)
	if caps.IsEnabled(name) {
		return
	}
	caps.enabled = append(caps.enabled, name)
}

func (caps *Capabilities) disable(name string) {
	name = strings.ToLower(name)
	for i, existing := range caps.enabled {
		if existing == name {
			caps.enabled = append(caps.enabled[:i], caps.enabled[i+1:]...)
			return
		}
	}
}

// parseCapToken splits one advertised cap token into name, value and
// modifiers.
func parseCapToken(token string) Capability {
	var capability Capability

modifiers:
	for len(token) > 0 {
		switch token[0] {
		case '-':
			capability.Modifiers.Disabled = true
		case '~':
			capability.Modifiers.AckRequired = true
		case '=':
			capability.Modifiers.Sticky = true
		default:
			break modifiers
		}
		token = token[1:]
	}

	if idx := strings.Index(token, "="); idx > -1 {
		capability.Name = strings.ToLower(token[:idx])
		capability.Value = token[idx+1:]
		capability.HasValue = capability.Value != ""
	} else {
		capability.Name = strings.ToLower(token)
	}

	if capability.Name == "sasl" && capability.HasValue {
		capability.Mechanisms = strings.Split(strings.ToLower(capability.Value), ",")
	}

	return capability
}

// Ingest processes a CAP subcommand (LS, ACK or NAK) with the caps it
// names. Multi-line LS continuation is handled by the caller; Ingest only
// sees the cap list itself.
func (caps *Capabilities) Ingest(subcmd string, params []string) {
	if len(params) == 0 {
		return
	}

	switch strings.ToLower(subcmd) {
	case "ls", "new":
		for _, token := range strings.Fields(params[0]) {
			capability := parseCapToken(token)
			if capability.Name == "" {
				continue
			}
			caps.Available[capability.Name] = capability
		}

	case "ack":
		for _, token := range strings.Fields(params[0]) {
			if strings.HasPrefix(token, "-") {
				caps.disable(token[1:])
			} else {
				caps.enable(parseCapToken(token).Name)
			}
		}

	case "nak":
		for _, token := range strings.Fields(params[0]) {
			caps.disable(parseCapToken(token).Name)
		}

	case "del":
		for _, token := range strings.Fields(params[0]) {
			name := parseCapToken(token).Name
			delete(caps.Available, name)
			caps.disable(name)
		}
	}
}

// ToEnable returns the caps we should request: wanted and available but
// not yet enabled, in want order.
func (caps *Capabilities) ToEnable() []string {
	var out []string
	for _, name := range caps.wanted {
		if _, available := caps.Available[name]; available && !caps.IsEnabled(name) {
			out = append(out, name)
		}
	}
	return out
}

// SASLMechanismOK reports whether the server's advertised sasl value
// permits the given mechanism. An absent value permits everything.
func (caps *Capabilities) SASLMechanismOK(mechanism string) bool {
	capability, exists := caps.Available["sasl"]
	if !exists || len(capability.Mechanisms) == 0 {
		return true
	}
	mechanism = strings.ToLower(mechanism)
	for _, mech := range capability.Mechanisms {
		if mech == mechanism {
			return true
		}
	}
	return false
}
