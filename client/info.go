// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"strings"

	"github.com/goshuirc/irc/eventmgr"
	"github.com/goshuirc/irc/ircmap"
	"github.com/goshuirc/irc/ircmsg"
)

// Info tracks the users, channels and servers seen on a connection.
// Records are created on first reference and updated in place; lookups
// fold names with the connection's casemapping.
type Info struct {
	sc *ServerConnection

	users    *ircmap.Map
	channels *ircmap.Map
	servers  *ircmap.Map
}

func NewInfo(sc *ServerConnection) *Info {
	return &Info{
		sc:       sc,
		users:    sc.Mapper.NewMap(),
		channels: sc.Mapper.NewMap(),
		servers:  sc.Mapper.NewMap(),
	}
}

// CreateUser returns the user record for a nickmask, creating it if this
// is the first reference. Newly seen user and host fields overwrite old
// ones; absent fields leave the record alone.
func (info *Info) CreateUser(nickmask string) *User {
	nm := ircmsg.ParseNickMask(nickmask)
	if existing, exists := info.users.Get(nm.Nick); exists {
		user := existing.(*User)
		user.Nick.Set(nm.Nick)
		if nm.User != "" {
			user.User.Set(nm.User)
		}
		if nm.Host != "" {
			user.Host.Set(nm.Host)
		}
		return user
	}

	user := newUser(info.sc, nickmask)
	if info.sc.Nick != nil && user.Nick.Equal(info.sc.Nick.String()) {
		user.IsMe = true
	}
	info.users.Set(nm.Nick, user)
	return user
}

// LookupUser returns the user record for a nick, or nil.
func (info *Info) LookupUser(nick string) *User {
	if value, exists := info.users.Get(nick); exists {
		return value.(*User)
	}
	return nil
}

// CreateChannel returns the channel record for a name, creating it if
// this is the first reference.
func (info *Info) CreateChannel(name string) *Channel {
	if existing, exists := info.channels.Get(name); exists {
		return existing.(*Channel)
	}
	channel := newChannel(info.sc, name)
	info.channels.Set(name, channel)
	return channel
}

// CreateChannels creates records for every named channel.
func (info *Info) CreateChannels(names ...string) {
	for _, name := range names {
		info.CreateChannel(name)
	}
}

// LookupChannel returns the channel record for a name, or nil.
func (info *Info) LookupChannel(name string) *Channel {
	if value, exists := info.channels.Get(name); exists {
		return value.(*Channel)
	}
	return nil
}

// CreateServer returns the server record for a name, creating it if this
// is the first reference.
func (info *Info) CreateServer(name string) *Server {
	if existing, exists := info.servers.Get(name); exists {
		return existing.(*Server)
	}
	server := &Server{sc: info.sc, Name: name}
	info.servers.Set(name, server)
	return server
}

// LookupServer returns the server record for a name, or nil.
func (info *Info) LookupServer(name string) *Server {
	if value, exists := info.servers.Get(name); exists {
		return value.(*Server)
	}
	return nil
}

// RenameUser moves a user record to a new nick, updating every channel
// membership that points at it.
func (info *Info) RenameUser(oldNick, newNick string) {
	user := info.LookupUser(oldNick)
	if user == nil {
		return
	}
	info.users.Delete(oldNick)
	user.Nick.Set(newNick)
	info.users.Set(newNick, user)

	for _, channel := range user.Channels() {
		if channel.UserNicks.Contains(oldNick) {
			prefixes, _ := channel.Prefixes.Get(oldNick)
			channel.RemoveUser(oldNick)
			prefixStr, _ := prefixes.(string)
			channel.AddUser(newNick, prefixStr)
		}
	}
}

// registerHandlers attaches the tracker to the event pipeline.
func (info *Info) registerHandlers(events *eventmgr.EventManager) {
	events.Attach("in", "join", info.handleJoin, -10)
	events.Attach("out", "join", info.handleJoin, -10)
	events.Attach("in", "part", info.handlePart, -10)
	events.Attach("out", "part", info.handlePart, -10)
	events.Attach("in", "kick", info.handleKick, -10)
	events.Attach("in", "quit", info.handleQuit, -10)
	events.Attach("in", "nick", info.handleNick, -10)
	events.Attach("in", "cmode", info.handleCmode, -10)
	events.Attach("in", "cmodeis", info.handleCmode, -10)
	events.Attach("in", "topic", info.handleTopic, -10)
}

func eventUser(info eventmgr.InfoMap) *User {
	if user, ok := info["source"].(*User); ok {
		return user
	}
	return nil
}

func eventChannels(info eventmgr.InfoMap) []*Channel {
	if channels, ok := info["channels"].([]*Channel); ok {
		return channels
	}
	return nil
}

func (info *Info) handleJoin(event eventmgr.InfoMap) {
	user := eventUser(event)
	if user == nil {
		return
	}
	for _, channel := range eventChannels(event) {
		channel.AddUser(user.Nick.String(), "")
		if !user.ChannelNames.Contains(channel.Name.String()) {
			user.ChannelNames.Append(channel.Name.String())
		}
		if user.IsMe {
			channel.Joined = true
			// the server replies with cmodeis, keeping our mode view fresh
			channel.RequestModes()
		}
	}
}

func (info *Info) handlePart(event eventmgr.InfoMap) {
	user := eventUser(event)
	if user == nil {
		return
	}
	for _, channel := range eventChannels(event) {
		channel.RemoveUser(user.Nick.String())
		user.ChannelNames.Remove(channel.Name.String())
		if user.IsMe {
			channel.Joined = false
		}
	}
}

func (info *Info) handleKick(event eventmgr.InfoMap) {
	channel, _ := event["channel"].(*Channel)
	target, _ := event["user"].(*User)
	if channel == nil || target == nil {
		return
	}
	channel.RemoveUser(target.Nick.String())
	target.ChannelNames.Remove(channel.Name.String())
	if target.IsMe {
		channel.Joined = false
	}
}

func (info *Info) handleQuit(event eventmgr.InfoMap) {
	user := eventUser(event)
	if user == nil {
		return
	}
	// memberships go, the user record itself stays around
	for _, channel := range user.Channels() {
		channel.RemoveUser(user.Nick.String())
	}
	user.ChannelNames.Clear()
}

func (info *Info) handleNick(event eventmgr.InfoMap) {
	user := eventUser(event)
	newNick, _ := event["new_nick"].(string)
	if user == nil || newNick == "" {
		return
	}
	info.RenameUser(user.Nick.String(), newNick)
}

func (info *Info) handleCmode(event eventmgr.InfoMap) {
	channel, _ := event["channel"].(*Channel)
	changes, _ := event["modes"].([]ModeChange)
	if channel == nil {
		return
	}

	listModes := info.sc.Features.ChanModes()[0]
	prefixModes := info.sc.Features.PrefixModes()

	for _, change := range changes {
		mode := string(change.Mode)

		if strings.IndexByte(prefixModes, change.Mode) > -1 {
			info.applyPrefixChange(channel, change)
			continue
		}

		if strings.IndexByte(listModes, change.Mode) > -1 {
			entries, _ := channel.Modes[mode].([]string)
			if change.Direction == '+' {
				if !containsString(entries, change.Param) {
					entries = append(entries, change.Param)
				}
			} else {
				entries = removeString(entries, change.Param)
			}
			channel.Modes[mode] = entries
			continue
		}

		if change.Direction == '+' {
			if change.HasParam {
				channel.Modes[mode] = change.Param
			} else {
				channel.Modes[mode] = true
			}
		} else {
			delete(channel.Modes, mode)
		}
	}
}

// applyPrefixChange grants or revokes a privilege prefix on a channel
// member, keeping the prefix string ordered highest privilege first.
func (info *Info) applyPrefixChange(channel *Channel, change ModeChange) {
	if !change.HasParam {
		return
	}
	var prefixChar byte
	for _, pair := range info.sc.Features.Prefixes() {
		if pair.Mode == change.Mode {
			prefixChar = pair.Prefix
			break
		}
	}
	if prefixChar == 0 {
		return
	}

	current := ""
	if existing, exists := channel.Prefixes.Get(change.Param); exists {
		current, _ = existing.(string)
	}

	if change.Direction == '+' {
		if strings.IndexByte(current, prefixChar) == -1 {
			current = orderPrefixes(current+string(prefixChar), info.sc.Features.PrefixChars())
		}
	} else {
		var kept []byte
		for i := 0; i < len(current); i++ {
			if current[i] != prefixChar {
				kept = append(kept, current[i])
			}
		}
		current = string(kept)
	}
	channel.Prefixes.Set(change.Param, current)
}

// orderPrefixes sorts a prefix string highest privilege first, given the
// PREFIX chars ordered lowest to highest.
func orderPrefixes(prefixes, lowestFirst string) string {
	var out []byte
	for i := len(lowestFirst) - 1; i >= 0; i-- {
		if strings.IndexByte(prefixes, lowestFirst[i]) > -1 {
			out = append(out, lowestFirst[i])
		}
	}
	return string(out)
}

func (info *Info) handleTopic(event eventmgr.InfoMap) {
	channel, _ := event["channel"].(*Channel)
	topic, _ := event["topic"].(string)
	if channel == nil {
		return
	}
	channel.Modes["topic"] = topic
}

func containsString(list []string, s string) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	for i, existing := range list {
		if existing == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
