// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package ircmsg

import "strings"

// NickMask is a parsed nick[!user][@host] identity string.
type NickMask struct {
	Nick string
	User string
	Host string
}

// ParseNickMask splits a mask of the form nick[!user][@host].
func ParseNickMask(mask string) NickMask {
	var nm NickMask

	if idx := strings.Index(mask, "!"); idx > -1 {
		nm.Nick = mask[:idx]
		rest := mask[idx+1:]
		if at := strings.Index(rest, "@"); at > -1 {
			nm.User = rest[:at]
			nm.Host = rest[at+1:]
		} else {
			nm.User = rest
		}
	} else if idx := strings.Index(mask, "@"); idx > -1 {
		nm.Nick = mask[:idx]
		nm.Host = mask[idx+1:]
	} else {
		nm.Nick = mask
	}

	return nm
}

// Userhost returns the user@host form of the mask.
func (nm NickMask) Userhost() string {
	return nm.User + "@" + nm.Host
}

// String returns the canonical nick!user@host form of the mask.
func (nm NickMask) String() string {
	return nm.Nick + "!" + nm.User + "@" + nm.Host
}

func hostnameCharOK(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9') || c == '-'
}

// ValidateHostname reports whether the given name looks like a server
// hostname rather than a nick.
func ValidateHostname(hostname string) bool {
	if !strings.Contains(hostname, ".") || len(hostname) < 1 || len(hostname) > 253 {
		return false
	}
	for _, part := range strings.Split(hostname, ".") {
		if len(part) < 1 || len(part) > 63 || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
		for i := 0; i < len(part); i++ {
			if !hostnameCharOK(part[i]) {
				return false
			}
		}
	}
	return true
}
