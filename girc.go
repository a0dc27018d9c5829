// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/rs/zerolog"

	"github.com/goshuirc/irc/client"
	"github.com/goshuirc/irc/eventmgr"
)

// SemVer is the library and demo bot version.
const SemVer = "0.4.0"

func main() {
	usage := `girc.

girc is an IRC client library; this demo bot shows it off.

Usage:
	girc run --server <host> --nick <nick> [--port <port>] [--tls] [--pass <password>] [--chan <channel>]... [--sasl-name <name>] [--sasl-pass <password>] [--verbose]
	girc -h | --help
	girc --version

Options:
	--server <host>         Server to connect to.
	--port <port>           Port to connect on [default: 6667].
	--tls                   Connect using TLS.
	--pass <password>       Server connection password.
	--nick <nick>           Nickname to use.
	--chan <channel>        Channel to join after connecting (repeatable).
	--sasl-name <name>      Account name for SASL PLAIN.
	--sasl-pass <password>  Account password for SASL PLAIN.
	--verbose               Log the raw lines going over the wire.
	-h --help               Show this screen.
	--version               Show version.`

	arguments, _ := docopt.Parse(usage, nil, true, SemVer, false)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if verbose, _ := arguments["--verbose"].(bool); !verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	host, _ := arguments["--server"].(string)
	nick, _ := arguments["--nick"].(string)
	portStr, _ := arguments["--port"].(string)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatal("Port must be a number: ", portStr)
	}
	useTLS, _ := arguments["--tls"].(bool)

	reactor := client.NewReactor(logger)
	server := reactor.CreateServer("main")

	if err := server.SetUserInfo(nick, "girc", "girc demo bot"); err != nil {
		log.Fatal(err.Error())
	}
	if pass, ok := arguments["--pass"].(string); ok {
		server.Password = pass
	}
	if name, ok := arguments["--sasl-name"].(string); ok && name != "" {
		password, _ := arguments["--sasl-pass"].(string)
		server.SASL = &client.SASLConfig{
			Mechanism: "PLAIN",
			Name:      name,
			Password:  password,
		}
	}
	if channels, ok := arguments["--chan"].([]string); ok {
		server.JoinChannels(channels...)
	}

	reactor.RegisterEvent("in", "raw", func(event eventmgr.InfoMap) {
		fmt.Println(" ->", event["data"])
	}, 1)
	reactor.RegisterEvent("out", "raw", func(event eventmgr.InfoMap) {
		fmt.Println("<- ", event["data"])
	}, 1)

	reactor.RegisterEvent("in", "ctcp", handleCtcp, 10)
	reactor.RegisterEvent("in", "pubmsg", handlePubmsg, 10)

	if err := server.Connect(host, port, useTLS, nil); err != nil {
		log.Fatal("Could not connect: ", err.Error())
	}

	reactor.Run()
}

// handleCtcp answers the usual client-info requests.
func handleCtcp(event eventmgr.InfoMap) {
	source, ok := event["source"].(*client.User)
	if !ok {
		return
	}

	switch event["ctcp_verb"] {
	case "version":
		source.CtcpReply("VERSION", "girc "+SemVer)
	case "source":
		source.CtcpReply("SOURCE", "https://github.com/goshuirc/irc")
	case "clientinfo":
		source.CtcpReply("CLIENTINFO", "ACTION CLIENTINFO SOURCE VERSION")
	}
}

// handlePubmsg implements the bot's tiny command set.
func handlePubmsg(event eventmgr.InfoMap) {
	channel, ok := event["target"].(*client.Channel)
	if !ok {
		return
	}
	message, _ := event["message"].(string)

	switch {
	case strings.HasPrefix(message, "!version"):
		channel.Msg("running girc " + SemVer)
	case strings.HasPrefix(message, "!wave"):
		channel.Me("waves")
	case strings.HasPrefix(message, "!quit"):
		server, _ := event["server"].(*client.ServerConnection)
		if server != nil {
			server.Quit("requested")
		}
	}
}
