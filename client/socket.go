// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Socket owns the TCP or TLS connection to a server. Incoming bytes are
// read on a dedicated goroutine, split into complete lines, and delivered
// on LinesIn; a partial trailing line waits in the buffer until its line
// ending arrives. Writes are serialized with a mutex.
type Socket struct {
	Host      string
	Port      int
	TLS       bool
	TLSConfig *tls.Config

	conn      net.Conn
	connLock  sync.Mutex
	Connected bool

	// LinesIn delivers complete incoming lines, line endings stripped.
	// It is closed when the connection drops.
	LinesIn chan string

	logger zerolog.Logger
}

var errSocketNotConnected = errors.New("socket: not connected")

func NewSocket(host string, port int, useTLS bool, tlsConfig *tls.Config, logger zerolog.Logger) *Socket {
	return &Socket{
		Host:      host,
		Port:      port,
		TLS:       useTLS,
		TLSConfig: tlsConfig,
		logger:    logger,
	}
}

func (socket *Socket) Connect() error {
	socket.Connected = false

	destination := net.JoinHostPort(socket.Host, strconv.Itoa(socket.Port))

	// TODO: dial timeouts
	var conn net.Conn
	var err error
	if socket.TLS {
		conn, err = tls.Dial("tcp", destination, socket.TLSConfig)
	} else {
		conn, err = net.Dial("tcp", destination)
	}
	if err != nil {
		return err
	}

	socket.Connected = true
	socket.conn = conn
	socket.LinesIn = make(chan string)
	go socket.readInput()

	return nil
}

func (socket *Socket) Close() error {
	if socket.Connected {
		socket.Connected = false
		return socket.conn.Close()
	}
	return nil
}

func (socket *Socket) readInput() {
	reader := bufio.NewReader(socket.conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		line = strings.Trim(line, "\r\n")
		socket.logger.Debug().Str("host", socket.Host).Str("line", line).Msg("recv")
		socket.LinesIn <- line
	}

	socket.Connected = false
	close(socket.LinesIn)
}

// WriteLine writes one raw IRC line, appending the line ending itself.
func (socket *Socket) WriteLine(line string) (int, error) {
	if !socket.Connected {
		return 0, errSocketNotConnected
	}

	socket.logger.Debug().Str("host", socket.Host).Str("line", line).Msg("send")
	return socket.Write([]byte(line + "\r\n"))
}

func (socket *Socket) Write(p []byte) (n int, err error) {
	socket.connLock.Lock()
	defer socket.connLock.Unlock()
	if socket.conn == nil {
		return 0, errSocketNotConnected
	}
	return socket.conn.Write(p)
}
