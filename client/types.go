// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"github.com/goshuirc/irc/ircmap"
	"github.com/goshuirc/irc/ircmsg"
)

// User is an IRC user seen on this connection. Users are created on first
// reference and never proactively removed, so a record may go stale.
type User struct {
	sc *ServerConnection

	Nick *ircmap.String
	User *ircmap.String
	Host *ircmap.String

	// ChannelNames holds the folded names of channels we share with them.
	ChannelNames *ircmap.List

	// IsMe marks the connection's own user.
	IsMe bool
}

func newUser(sc *ServerConnection, nickmask string) *User {
	nm := ircmsg.ParseNickMask(nickmask)
	return &User{
		sc:           sc,
		Nick:         sc.Mapper.NewString(nm.Nick),
		User:         sc.Mapper.NewString(nm.User),
		Host:         sc.Mapper.NewString(nm.Host),
		ChannelNames: sc.Mapper.NewList(),
	}
}

// Userhost returns the user@host form of the user's identity.
func (u *User) Userhost() string {
	return u.User.String() + "@" + u.Host.String()
}

// Nickmask returns the nick!user@host form of the user's identity.
func (u *User) Nickmask() string {
	return u.Nick.String() + "!" + u.Userhost()
}

// Channels returns the live channel records we share with this user,
// looked up through the tracker so no ownership cycle exists.
func (u *User) Channels() []*Channel {
	var channels []*Channel
	for _, name := range u.ChannelNames.Values() {
		if channel := u.sc.Info.LookupChannel(name); channel != nil {
			channels = append(channels, channel)
		}
	}
	return channels
}

// Msg sends the user a PRIVMSG.
func (u *User) Msg(message string) error {
	return u.sc.Msg(u.Nick.String(), message)
}

// Me sends the user a CTCP ACTION.
func (u *User) Me(message string) error {
	return u.sc.Ctcp(u.Nick.String(), "ACTION", message)
}

// Ctcp sends the user a CTCP request.
func (u *User) Ctcp(verb, argument string) error {
	return u.sc.Ctcp(u.Nick.String(), verb, argument)
}

// CtcpReply sends the user a CTCP reply.
func (u *User) CtcpReply(verb, argument string) error {
	return u.sc.CtcpReply(u.Nick.String(), verb, argument)
}

// Channel is an IRC channel seen on this connection. A channel record is
// created when the channel is first referenced, whether or not we ever
// join it; Joined distinguishes the two.
type Channel struct {
	sc *ServerConnection

	Name   *ircmap.String
	Joined bool

	// UserNicks holds the folded nicks present in the channel.
	UserNicks *ircmap.List
	// Prefixes maps folded nick to their privilege prefix string ("@+").
	Prefixes *ircmap.Map
	// Modes maps mode letter to true, a parameter string, or a list of
	// accumulated entries for list-type modes.
	Modes map[string]interface{}
}

func newChannel(sc *ServerConnection, name string) *Channel {
	return &Channel{
		sc:        sc,
		Name:      sc.Mapper.NewString(name),
		UserNicks: sc.Mapper.NewList(),
		Prefixes:  sc.Mapper.NewMap(),
		Modes:     make(map[string]interface{}),
	}
}

// Users returns the live user records present in the channel.
func (c *Channel) Users() []*User {
	var users []*User
	for _, nick := range c.UserNicks.Values() {
		if user := c.sc.Info.LookupUser(nick); user != nil {
			users = append(users, user)
		}
	}
	return users
}

// AddUser records a user in the channel with the given privilege prefixes.
func (c *Channel) AddUser(nick string, prefixes string) {
	if !c.UserNicks.Contains(nick) {
		c.UserNicks.Append(nick)
	}
	c.Prefixes.Set(nick, prefixes)
}

// RemoveUser removes a user from the channel.
func (c *Channel) RemoveUser(nick string) {
	c.UserNicks.Remove(nick)
	c.Prefixes.Delete(nick)
}

// Msg sends the channel a PRIVMSG.
func (c *Channel) Msg(message string) error {
	return c.sc.Msg(c.Name.String(), message)
}

// Me sends the channel a CTCP ACTION.
func (c *Channel) Me(message string) error {
	return c.sc.Ctcp(c.Name.String(), "ACTION", message)
}

// Ctcp sends the channel a CTCP request.
func (c *Channel) Ctcp(verb, argument string) error {
	return c.sc.Ctcp(c.Name.String(), verb, argument)
}

// CtcpReply sends the channel a CTCP reply.
func (c *Channel) CtcpReply(verb, argument string) error {
	return c.sc.CtcpReply(c.Name.String(), verb, argument)
}

// RequestModes asks the server for the channel's current modes.
func (c *Channel) RequestModes() error {
	return c.sc.Send(nil, "", "MODE", c.Name.String())
}

// Server is a remote peer identified by hostname in a message source; it
// is not the local connection.
type Server struct {
	sc   *ServerConnection
	Name string
}
