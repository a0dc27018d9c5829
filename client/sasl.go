// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// saslChunkSize is the maximum AUTHENTICATE payload length. A payload
// that fills a chunk exactly must be followed by a bare "+" so the server
// knows no more data is coming.
const saslChunkSize = 400

// SASLConfig describes how to authenticate during registration.
type SASLConfig struct {
	// Mechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	Mechanism string
	Identity  string
	Name      string
	Password  string
	// Fatal disconnects on authentication failure instead of continuing
	// registration unauthenticated.
	Fatal bool
}

// saslPlainPayload builds the base64 PLAIN response:
// identity NUL name NUL password.
func saslPlainPayload(identity, name, password string) string {
	raw := identity + "\x00" + name + "\x00" + password
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// saslChunks splits an encoded payload into AUTHENTICATE-sized sends.
// An empty payload is a single "+"; a payload whose last chunk fills
// the limit exactly gets a trailing "+".
func saslChunks(encoded string) []string {
	if encoded == "" {
		return []string{"+"}
	}

	var chunks []string
	for len(encoded) > saslChunkSize {
		chunks = append(chunks, encoded[:saslChunkSize])
		encoded = encoded[saslChunkSize:]
	}
	chunks = append(chunks, encoded)
	if len(chunks[len(chunks)-1]) == saslChunkSize {
		chunks = append(chunks, "+")
	}
	return chunks
}

var errScramBadChallenge = errors.New("sasl: malformed scram challenge")

// scramClient runs the client side of a SCRAM exchange.
type scramClient struct {
	newHash  func() hash.Hash
	username string
	password string

	clientNonce string
	serverNonce string
	salt        string
	iterations  int
	serverKey   []byte
	sentFirst   bool
}

func newScramClient(mechanism, username, password string) (*scramClient, error) {
	client := &scramClient{
		username: username,
		password: password,
	}
	switch strings.ToUpper(mechanism) {
	case "SCRAM-SHA-256":
		client.newHash = sha256.New
	case "SCRAM-SHA-512":
		client.newHash = sha512.New
	default:
		return nil, fmt.Errorf("sasl: unsupported scram mechanism %s", mechanism)
	}

	nonce := make([]byte, 18)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("sasl: generating nonce: %w", err)
	}
	client.clientNonce = base64.RawStdEncoding.EncodeToString(nonce)

	return client, nil
}

func (s *scramClient) clientFirstBare() string {
	return fmt.Sprintf("n=%s,r=%s", s.username, s.clientNonce)
}

func (s *scramClient) finalWithoutProof() string {
	binding := base64.StdEncoding.EncodeToString([]byte("n,,"))
	return fmt.Sprintf("c=%s,r=%s", binding, s.serverNonce)
}

// Step consumes one base64 AUTHENTICATE challenge ("+" for the empty
// initial prompt) and returns the base64 response to send.
func (s *scramClient) Step(challenge string) (string, error) {
	if !s.sentFirst {
		if challenge != "+" {
			return "", errScramBadChallenge
		}
		s.sentFirst = true
		first := "n,," + s.clientFirstBare()
		return base64.StdEncoding.EncodeToString([]byte(first)), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(challenge)
	if err != nil {
		return "", fmt.Errorf("sasl: decoding challenge: %w", err)
	}
	serverFirst := string(decoded)
	params := parseScramParams(serverFirst)

	s.serverNonce = params["r"]
	if s.serverNonce == "" || !strings.HasPrefix(s.serverNonce, s.clientNonce) {
		return "", errScramBadChallenge
	}
	s.salt = params["s"]
	saltBytes, err := base64.StdEncoding.DecodeString(s.salt)
	if err != nil {
		return "", fmt.Errorf("sasl: decoding salt: %w", err)
	}
	s.iterations, err = strconv.Atoi(params["i"])
	if err != nil || s.iterations < 1 {
		return "", errScramBadChallenge
	}

	salted := pbkdf2.Key([]byte(s.password), saltBytes, s.iterations, s.newHash().Size(), s.newHash)
	clientKey := computeHMAC(salted, "Client Key", s.newHash)
	storedKey := computeHash(clientKey, s.newHash)
	s.serverKey = computeHMAC(salted, "Server Key", s.newHash)

	authMessage := s.clientFirstBare() + "," + serverFirst + "," + s.finalWithoutProof()
	clientSignature := computeHMAC(storedKey, authMessage, s.newHash)
	proof := xorBytes(clientKey, clientSignature)

	final := s.finalWithoutProof() + ",p=" + base64.StdEncoding.EncodeToString(proof)
	return base64.StdEncoding.EncodeToString([]byte(final)), nil
}

// VerifyServerFinal checks the v= signature in the server's final message,
// proving the server also knew the password.
func (s *scramClient) VerifyServerFinal(challenge string) bool {
	decoded, err := base64.StdEncoding.DecodeString(challenge)
	if err != nil {
		return false
	}
	signature := parseScramParams(string(decoded))["v"]
	if signature == "" || s.serverKey == nil {
		return false
	}

	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", s.serverNonce, s.salt, s.iterations)
	authMessage := s.clientFirstBare() + "," + serverFirst + "," + s.finalWithoutProof()
	expected := base64.StdEncoding.EncodeToString(computeHMAC(s.serverKey, authMessage, s.newHash))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func parseScramParams(message string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(message, ",") {
		if len(part) >= 2 && part[1] == '=' {
			params[part[:1]] = part[2:]
		}
	}
	return params
}

func computeHMAC(key []byte, data string, newHash func() hash.Hash) []byte {
	mac := hmac.New(newHash, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func computeHash(data []byte, newHash func() hash.Hash) []byte {
	hasher := newHash()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	if len(a) != len(b) {
		return nil
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
