// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"errors"
	"strings"
)

// ModeChange is one applied mode: a direction ('+' or '-'), a mode letter,
// and an optional parameter.
type ModeChange struct {
	Direction byte
	Mode      byte
	Param     string
	HasParam  bool
}

var errBadModeString = errors.New("first mode param must start with + or -")

// ParseModes parses a MODE parameter list into an ordered list of mode
// changes. Parameters are consumed left to right: a mode letter takes one
// if it is a list-type mode, an always-has-param mode, a PREFIX privilege
// mode, or a set-only-param mode being set.
func ParseModes(params []string, chanmodes [4]string, prefixModes string) ([]ModeChange, error) {
	if len(params) == 0 || len(params[0]) == 0 || (params[0][0] != '+' && params[0][0] != '-') {
		return nil, errBadModeString
	}

	modeString := params[0]
	args := params[1:]

	var changes []ModeChange
	direction := modeString[0]
	for i := 0; i < len(modeString); i++ {
		char := modeString[i]
		if char == '+' || char == '-' {
			direction = char
			continue
		}

		takesParam := strings.IndexByte(chanmodes[0], char) > -1 ||
			strings.IndexByte(chanmodes[1], char) > -1 ||
			strings.IndexByte(prefixModes, char) > -1 ||
			(strings.IndexByte(chanmodes[2], char) > -1 && direction == '+')

		change := ModeChange{
			Direction: direction,
			Mode:      char,
		}
		if takesParam && len(args) > 0 {
			change.Param = args[0]
			change.HasParam = true
			args = args[1:]
		}
		changes = append(changes, change)
	}

	return changes, nil
}
