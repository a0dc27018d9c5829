// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"strconv"
	"strings"

	"github.com/goshuirc/irc/ircmap"
)

// PrefixPair binds a channel privilege mode letter (e.g. 'o') to its nick
// prefix character (e.g. '@').
type PrefixPair struct {
	Mode   byte
	Prefix byte
}

// Features ingests ISUPPORT (numeric 005) tokens and provides access to
// them. Well-known features are parsed into structured values, everything
// else is stored as a string, boolean true, or integer.
type Features struct {
	features map[string]interface{}
	mapper   *ircmap.CaseMapper
}

// NewFeatures returns a feature table primed with the RFC1459 basics.
func NewFeatures(mapper *ircmap.CaseMapper) *Features {
	f := &Features{
		features: make(map[string]interface{}),
		mapper:   mapper,
	}
	f.Ingest("PREFIX=(ov)@+", "CHANTYPES=#")
	return f
}

// limitToNumber parses a TARGMAX/CHANLIMIT limit. Signed numbers are
// accepted; anything non-numeric means unlimited, represented as nil.
func limitToNumber(limit string) *int {
	n, err := strconv.Atoi(limit)
	if err != nil {
		return nil
	}
	return &n
}

// Ingest processes ISUPPORT tokens. A leading '-' removes a feature.
func (f *Features) Ingest(tokens ...string) {
	for _, token := range tokens {
		if strings.HasPrefix(token, "-") {
			delete(f.features, strings.ToLower(token[1:]))
			continue
		}

		name := token
		var rawValue string
		hasValue := false
		if idx := strings.Index(token, "="); idx > -1 {
			name = token[:idx]
			rawValue = token[idx+1:]
			hasValue = true
		}
		name = strings.ToLower(name)

		var value interface{} = true
		if hasValue {
			value = rawValue
		}

		switch name {
		case "prefix":
			if pairs, ok := parsePrefix(rawValue); ok {
				value = pairs
			}

		case "chanmodes":
			groups := strings.Split(rawValue, ",")
			var chanmodes [4]string
			for i := 0; i < len(groups) && i < 4; i++ {
				chanmodes[i] = groups[i]
			}
			value = chanmodes

		case "targmax":
			maxes := make(map[string]*int)
			for _, pair := range strings.Split(rawValue, ",") {
				idx := strings.Index(pair, ":")
				if idx < 0 {
					continue
				}
				maxes[strings.ToLower(pair[:idx])] = limitToNumber(pair[idx+1:])
			}
			value = maxes

		case "chanlimit":
			limits := make(map[byte]*int)
			for _, pair := range strings.Split(rawValue, ",") {
				idx := strings.Index(pair, ":")
				if idx < 0 {
					continue
				}
				limit := limitToNumber(pair[idx+1:])
				for i := 0; i < idx; i++ {
					limits[pair[i]] = limit
				}
			}
			value = limits

		default:
			if hasValue {
				if n, err := strconv.Atoi(rawValue); err == nil && !strings.HasPrefix(rawValue, "+") && !strings.HasPrefix(rawValue, "-") {
					value = n
				}
			}
		}

		f.features[name] = value

		// the server sets our casemapping, exactly once
		if name == "casemapping" && hasValue {
			f.features[name] = strings.ToLower(rawValue)
			f.mapper.SetMapping(rawValue)
		}
	}
}

// parsePrefix parses "(modes)chars". The wire order is highest privilege
// first; the returned pairs run lowest to highest.
func parsePrefix(value string) ([]PrefixPair, bool) {
	if !strings.HasPrefix(value, "(") {
		return nil, false
	}
	idx := strings.Index(value, ")")
	if idx < 0 {
		return nil, false
	}
	modes := value[1:idx]
	chars := value[idx+1:]
	if len(modes) != len(chars) {
		return nil, false
	}

	pairs := make([]PrefixPair, 0, len(modes))
	for i := len(modes) - 1; i >= 0; i-- {
		pairs = append(pairs, PrefixPair{Mode: modes[i], Prefix: chars[i]})
	}
	return pairs, true
}

// Get returns the raw value for a feature name.
func (f *Features) Get(name string) (interface{}, bool) {
	value, exists := f.features[strings.ToLower(name)]
	return value, exists
}

// Has reports whether a feature is present.
func (f *Features) Has(name string) bool {
	_, exists := f.features[strings.ToLower(name)]
	return exists
}

// GetString returns a feature value as a string, or "" if absent or not a
// string.
func (f *Features) GetString(name string) string {
	if value, exists := f.Get(name); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt returns an integer feature value.
func (f *Features) GetInt(name string) (int, bool) {
	if value, exists := f.Get(name); exists {
		if n, ok := value.(int); ok {
			return n, true
		}
	}
	return 0, false
}

// Prefixes returns the privilege pairs ordered lowest to highest.
func (f *Features) Prefixes() []PrefixPair {
	if value, exists := f.Get("prefix"); exists {
		if pairs, ok := value.([]PrefixPair); ok {
			return pairs
		}
	}
	return nil
}

// PrefixModes returns the privilege mode letters (e.g. "vo").
func (f *Features) PrefixModes() string {
	var modes []byte
	for _, pair := range f.Prefixes() {
		modes = append(modes, pair.Mode)
	}
	return string(modes)
}

// PrefixChars returns the nick prefix characters (e.g. "+@").
func (f *Features) PrefixChars() string {
	var chars []byte
	for _, pair := range f.Prefixes() {
		chars = append(chars, pair.Prefix)
	}
	return string(chars)
}

// ChanModes returns the four CHANMODES groups: list-type, always-param,
// param-when-set, no-param.
func (f *Features) ChanModes() [4]string {
	if value, exists := f.Get("chanmodes"); exists {
		if groups, ok := value.([4]string); ok {
			return groups
		}
	}
	return [4]string{}
}

// ChanTypes returns the channel name prefix characters.
func (f *Features) ChanTypes() string {
	if types := f.GetString("chantypes"); types != "" {
		return types
	}
	return "#"
}
