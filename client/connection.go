// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goshuirc/irc/eventmgr"
	"github.com/goshuirc/irc/ircfmt"
	"github.com/goshuirc/irc/ircmap"
	"github.com/goshuirc/irc/ircmsg"
)

// defaultWantedCaps are the IRCv3 capabilities we request when the server
// offers them.
var defaultWantedCaps = []string{
	"account-notify",
	"account-tag",
	"away-notify",
	"cap-notify",
	"chghost",
	"extended-join",
	"invite-notify",
	"metadata",
	"monitor",
	"multi-prefix",
	"sasl",
	"server-time",
	"userhost-in-names",
}

var (
	errNoUserInfo         = errors.New("client: user info must be set before connecting")
	errAlreadyRegistered  = errors.New("client: user info cannot change after registration")
	errConnectionNotReady = errors.New("client: not connected")
)

// ServerConnection manages a single connection to an IRC server: the
// socket, capability and feature negotiation, SASL, registration, and the
// tracked state behind it. All message handling is sequential; handlers
// never run concurrently for the same connection.
type ServerConnection struct {
	// Name is the label this connection is known by, e.g. "libera".
	Name    string
	Reactor *Reactor

	Mapper   *ircmap.CaseMapper
	Events   *eventmgr.EventManager
	Features *Features
	Caps     *Capabilities
	Info     *Info

	Nick *ircmap.String
	User string
	Real string

	// Password is sent as PASS during registration when non-empty.
	Password string
	// SASL enables authentication during capability negotiation.
	SASL *SASLConfig
	// NickServPassword identifies to NickServ once the connection is Ready.
	NickServPassword string
	// JoinDelay postpones autojoins after Ready, for servers that throttle
	// immediate post-registration joins.
	JoinDelay time.Duration

	Connected  bool
	Ready      bool
	registered bool

	socket           *Socket
	scram            *scramClient
	autojoinChannels []string
	// deferredJoins hands delayed autojoins back to the read loop, so
	// tracker state is only ever touched from one goroutine.
	deferredJoins chan []string
	logger        zerolog.Logger
}

// NewServerConnection builds an unconnected server connection. The logger
// is shared with the socket and the event manager.
func NewServerConnection(name string, logger zerolog.Logger) *ServerConnection {
	sc := &ServerConnection{
		Name:          name,
		Mapper:        ircmap.NewCaseMapper(),
		Events:        eventmgr.NewEventManager(),
		Caps:          NewCapabilities(defaultWantedCaps),
		deferredJoins: make(chan []string, 1),
		logger:        logger.With().Str("server", name).Logger(),
	}
	sc.Events.SetLogger(sc.logger)
	sc.Features = NewFeatures(sc.Mapper)
	sc.Info = NewInfo(sc)
	sc.Info.registerHandlers(sc.Events)

	sc.Events.Attach("in", "cap", sc.handleCap, -20)
	sc.Events.Attach("in", "features", sc.handleFeatures, -20)
	sc.Events.Attach("in", "endofmotd", sc.handleEndOfMotd, -20)
	sc.Events.Attach("in", "nomotd", sc.handleEndOfMotd, -20)
	sc.Events.Attach("in", "ping", sc.handlePing, -20)
	sc.Events.Attach("in", "nick", sc.handleNick, -20)
	sc.Events.Attach("in", "authenticate", sc.handleAuthenticate, -20)
	sc.Events.Attach("in", "saslsuccess", sc.handleSASLSuccess, -20)
	sc.Events.Attach("in", "saslfail", sc.handleSASLFail, -20)

	return sc
}

// SetUserInfo sets the nick, username and realname used at registration.
// It fails once registration has started, since servers reject changes.
func (sc *ServerConnection) SetUserInfo(nick, user, real string) error {
	if sc.registered {
		return errAlreadyRegistered
	}
	if user == "" {
		user = "*"
	}
	if real == "" {
		real = "*"
	}
	sc.Nick = sc.Mapper.NewString(nick)
	sc.User = user
	sc.Real = real
	return nil
}

// Connect dials the server and starts capability negotiation. It returns
// once the socket is up; the handshake continues on the read loop.
func (sc *ServerConnection) Connect(host string, port int, useTLS bool, tlsConfig *tls.Config) error {
	if sc.Nick == nil {
		return errNoUserInfo
	}

	sc.socket = NewSocket(host, port, useTLS, tlsConfig, sc.logger)
	if err := sc.socket.Connect(); err != nil {
		return err
	}
	sc.Connected = true

	go sc.readLoop()

	return sc.Send(nil, "", "CAP", "LS", "302")
}

// readLoop processes incoming lines one at a time. Each line is fully
// decoded and dispatched before the next is considered. Deferred autojoins
// also run here, between lines, so handlers never run concurrently.
func (sc *ServerConnection) readLoop() {
	for {
		select {
		case line, open := <-sc.socket.LinesIn:
			if !open {
				sc.Connected = false
				sc.Ready = false
				if sc.Reactor != nil {
					sc.Reactor.connectionClosed(sc)
				}
				return
			}
			sc.processLine(line)
		case channels := <-sc.deferredJoins:
			sc.JoinChannels(channels...)
		}
	}
}

// processLine decodes one wire line and dispatches the events it becomes.
func (sc *ServerConnection) processLine(line string) {
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		sc.logger.Warn().Err(err).Str("line", line).Msg("dropping unparseable line")
		return
	}

	rawInfo := eventmgr.InfoMap{
		"server":    sc,
		"direction": "in",
		"data":      line,
	}
	sc.Events.Dispatch("in", "raw", rawInfo)

	for _, event := range sc.translateMessage("in", msg) {
		sc.Events.Dispatch("in", event.Name, event.Info)
		sc.Events.Dispatch("in", "all", event.Info)
	}
}

// Send serializes and writes one message, dispatching out-direction events
// for it first so subscribers see our own traffic.
func (sc *ServerConnection) Send(tags map[string]ircmsg.TagValue, source string, verb string, params ...string) error {
	msg := ircmsg.MakeMessage(tags, source, verb, params...)
	line, err := msg.Line()
	if err != nil {
		return err
	}

	for _, event := range sc.translateMessage("out", msg) {
		sc.Events.Dispatch("out", event.Name, event.Info)
		sc.Events.Dispatch("out", "all", event.Info)
	}
	rawInfo := eventmgr.InfoMap{
		"server":    sc,
		"direction": "out",
		"data":      line,
	}
	sc.Events.Dispatch("out", "raw", rawInfo)

	if sc.socket == nil {
		return errConnectionNotReady
	}
	_, err = sc.socket.WriteLine(line)
	return err
}

// RegisterEvent attaches a handler, with "in", "out" or "both" direction.
func (sc *ServerConnection) RegisterEvent(direction, name string, fn eventmgr.HandlerFn, priority int) eventmgr.HandlerID {
	return sc.Events.Attach(direction, name, fn, priority)
}

// capability negotiation and registration

func (sc *ServerConnection) handleCap(event eventmgr.InfoMap) {
	params, _ := event["params"].([]string)
	// params[0] is our own nick (or "*" pre-registration)
	if len(params) < 2 {
		return
	}
	subcmd := strings.ToLower(params[1])
	rest := params[2:]

	// a "*" marker means more lines of this reply follow
	continuation := false
	if len(rest) > 1 && rest[0] == "*" {
		continuation = true
		rest = rest[1:]
	}

	sc.Caps.Ingest(subcmd, rest)

	if sc.registered {
		return
	}

	switch subcmd {
	case "ls":
		if continuation {
			return
		}
		toEnable := sc.Caps.ToEnable()
		if len(toEnable) == 0 {
			sc.finishRegistration()
			return
		}
		sc.Send(nil, "", "CAP", "REQ", strings.Join(toEnable, " "))

	case "ack", "nak":
		if subcmd == "ack" && sc.startSASL() {
			return
		}
		sc.finishRegistration()
	}
}

// startSASL begins authentication if it was requested, the sasl cap got
// acknowledged, and the server's mechanism list permits ours.
func (sc *ServerConnection) startSASL() bool {
	if sc.SASL == nil || !sc.Caps.IsEnabled("sasl") {
		return false
	}
	mechanism := strings.ToUpper(sc.SASL.Mechanism)
	if !sc.Caps.SASLMechanismOK(mechanism) {
		sc.logger.Warn().Str("mechanism", mechanism).Msg("server does not offer our sasl mechanism")
		return false
	}
	sc.Send(nil, "", "AUTHENTICATE", mechanism)
	return true
}

// finishRegistration ends capability negotiation and sends the
// registration sequence.
func (sc *ServerConnection) finishRegistration() {
	if sc.registered {
		return
	}
	sc.registered = true

	sc.Send(nil, "", "CAP", "END")
	if sc.Password != "" {
		sc.Send(nil, "", "PASS", sc.Password)
	}
	sc.Send(nil, "", "NICK", sc.Nick.String())
	sc.Send(nil, "", "USER", sc.User, "*", "*", sc.Real)
}

func (sc *ServerConnection) handleAuthenticate(event eventmgr.InfoMap) {
	if sc.SASL == nil {
		return
	}
	params, _ := event["params"].([]string)
	if len(params) == 0 {
		return
	}
	challenge := params[len(params)-1]
	mechanism := strings.ToUpper(sc.SASL.Mechanism)

	if mechanism == "PLAIN" {
		if challenge != "+" {
			return
		}
		payload := saslPlainPayload(sc.SASL.Identity, sc.SASL.Name, sc.SASL.Password)
		for _, chunk := range saslChunks(payload) {
			sc.Send(nil, "", "AUTHENTICATE", chunk)
		}
		return
	}

	if sc.scram == nil {
		scram, err := newScramClient(mechanism, sc.SASL.Name, sc.SASL.Password)
		if err != nil {
			sc.logger.Warn().Err(err).Msg("aborting sasl")
			sc.Send(nil, "", "AUTHENTICATE", "*")
			return
		}
		sc.scram = scram
	}

	// after the client-final proof goes out, the next challenge is the
	// server's own signature
	if sc.scram.serverKey != nil {
		if sc.scram.VerifyServerFinal(challenge) {
			sc.Send(nil, "", "AUTHENTICATE", "+")
		} else {
			sc.logger.Warn().Msg("scram server signature mismatch, aborting sasl")
			sc.Send(nil, "", "AUTHENTICATE", "*")
		}
		return
	}

	response, err := sc.scram.Step(challenge)
	if err != nil {
		sc.logger.Warn().Err(err).Msg("aborting sasl")
		sc.Send(nil, "", "AUTHENTICATE", "*")
		return
	}
	for _, chunk := range saslChunks(response) {
		sc.Send(nil, "", "AUTHENTICATE", chunk)
	}
}

func (sc *ServerConnection) handleSASLSuccess(event eventmgr.InfoMap) {
	sc.scram = nil
	sc.finishRegistration()
}

func (sc *ServerConnection) handleSASLFail(event eventmgr.InfoMap) {
	sc.scram = nil
	if sc.SASL != nil && sc.SASL.Fatal {
		sc.logger.Error().Msg("sasl failed, disconnecting")
		sc.Quit("SASL authentication failed")
		return
	}
	sc.logger.Warn().Msg("sasl failed, continuing unauthenticated")
	sc.finishRegistration()
}

// post-registration handlers

func (sc *ServerConnection) handleFeatures(event eventmgr.InfoMap) {
	params, _ := event["params"].([]string)
	// first param is our nick, last is the "are supported" trailer
	if len(params) < 3 {
		return
	}
	sc.Features.Ingest(params[1 : len(params)-1]...)
}

func (sc *ServerConnection) handleEndOfMotd(event eventmgr.InfoMap) {
	if sc.Ready {
		return
	}
	sc.Ready = true

	if sc.NickServPassword != "" {
		sc.Msg("NickServ", "IDENTIFY "+sc.NickServPassword)
	}

	if len(sc.autojoinChannels) == 0 {
		return
	}
	channels := sc.autojoinChannels
	sc.autojoinChannels = nil
	if sc.JoinDelay > 0 {
		// the timer goroutine never touches connection state itself; it
		// only hands the join back to the read loop
		time.AfterFunc(sc.JoinDelay, func() {
			select {
			case sc.deferredJoins <- channels:
			default:
			}
		})
		return
	}
	sc.JoinChannels(channels...)
}

func (sc *ServerConnection) handlePing(event eventmgr.InfoMap) {
	params, _ := event["params"].([]string)
	sc.Send(nil, "", "PONG", params...)
}

func (sc *ServerConnection) handleNick(event eventmgr.InfoMap) {
	user, _ := event["source"].(*User)
	newNick, _ := event["new_nick"].(string)
	if user != nil && user.IsMe && newNick != "" {
		sc.Nick.Set(newNick)
	}
}

// commands

// Msg sends a PRIVMSG. Formatting escapes like $b are translated to their
// control codes.
func (sc *ServerConnection) Msg(target, message string) error {
	return sc.Send(nil, "", "PRIVMSG", target, ircfmt.Unescape(message))
}

// MsgRaw sends a PRIVMSG without touching formatting escapes.
func (sc *ServerConnection) MsgRaw(target, message string) error {
	return sc.Send(nil, "", "PRIVMSG", target, message)
}

// Notice sends a NOTICE, translating formatting escapes.
func (sc *ServerConnection) Notice(target, message string) error {
	return sc.Send(nil, "", "NOTICE", target, ircfmt.Unescape(message))
}

// Ctcp sends a CTCP request inside a PRIVMSG.
func (sc *ServerConnection) Ctcp(target, ctcpVerb, argument string) error {
	body := strings.ToUpper(ctcpVerb)
	if argument != "" {
		body += " " + argument
	}
	return sc.MsgRaw(target, string(ctcpDelim)+body+string(ctcpDelim))
}

// CtcpReply sends a CTCP reply inside a NOTICE.
func (sc *ServerConnection) CtcpReply(target, ctcpVerb, argument string) error {
	body := strings.ToUpper(ctcpVerb)
	if argument != "" {
		body += " " + argument
	}
	return sc.Send(nil, "", "NOTICE", target, string(ctcpDelim)+body+string(ctcpDelim))
}

// Mode sends a MODE change or query.
func (sc *ServerConnection) Mode(target string, modeParams ...string) error {
	return sc.Send(nil, "", "MODE", append([]string{target}, modeParams...)...)
}

// JoinChannels joins the given channels. A "channel key" combined token
// carries its key along. Before the connection is Ready the channels are
// queued and joined after registration completes.
func (sc *ServerConnection) JoinChannels(channels ...string) error {
	if !sc.Ready {
		sc.autojoinChannels = append(sc.autojoinChannels, channels...)
		return nil
	}

	// attempt every channel even if one send fails; report the first error
	var firstErr error
	for _, channel := range channels {
		params := []string{channel}
		if idx := strings.Index(channel, " "); idx > -1 {
			params = []string{channel[:idx], channel[idx+1:]}
		}
		if err := sc.Send(nil, "", "JOIN", params...); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PartChannel leaves a channel, with an optional reason.
func (sc *ServerConnection) PartChannel(channel, reason string) error {
	if reason != "" {
		return sc.Send(nil, "", "PART", channel, reason)
	}
	return sc.Send(nil, "", "PART", channel)
}

// Quit sends QUIT and closes the connection.
func (sc *ServerConnection) Quit(reason string) error {
	if reason != "" {
		sc.Send(nil, "", "QUIT", reason)
	} else {
		sc.Send(nil, "", "QUIT")
	}
	return sc.Close()
}

// Close tears down the socket without a QUIT.
func (sc *ServerConnection) Close() error {
	sc.Connected = false
	sc.Ready = false
	if sc.socket == nil {
		return nil
	}
	return sc.socket.Close()
}
