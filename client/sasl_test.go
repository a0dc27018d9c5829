// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestSASLPlainPayload(t *testing.T) {
	payload := saslPlainPayload("", "jilles", "sesame")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "\x00jilles\x00sesame" {
		t.Errorf("payload: got %q", decoded)
	}
}

func TestSASLChunks(t *testing.T) {
	tests := []struct {
		payloadLen int
		wantChunks []int // lengths; -1 marks a bare "+"
	}{
		{0, []int{-1}},
		{10, []int{10}},
		{399, []int{399}},
		{400, []int{400, -1}},
		{401, []int{400, 1}},
		{900, []int{400, 400, 100}},
		{800, []int{400, 400, -1}},
	}

	for _, test := range tests {
		payload := strings.Repeat("A", test.payloadLen)
		chunks := saslChunks(payload)
		if len(chunks) != len(test.wantChunks) {
			t.Errorf("len %d: got %d chunks, want %d", test.payloadLen, len(chunks), len(test.wantChunks))
			continue
		}
		var rejoined string
		for i, chunk := range chunks {
			if test.wantChunks[i] == -1 {
				if chunk != "+" {
					t.Errorf("len %d chunk %d: got %q, want \"+\"", test.payloadLen, i, chunk)
				}
				continue
			}
			if len(chunk) != test.wantChunks[i] {
				t.Errorf("len %d chunk %d: got %d bytes, want %d", test.payloadLen, i, len(chunk), test.wantChunks[i])
			}
			rejoined += chunk
		}
		if test.payloadLen > 0 && rejoined != payload {
			t.Errorf("len %d: chunks do not reassemble to the payload", test.payloadLen)
		}
	}
}

func TestScramExchange(t *testing.T) {
	scram, err := newScramClient("SCRAM-SHA-256", "user", "pencil")
	if err != nil {
		t.Fatal(err)
	}

	first, err := scram.Step("+")
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := base64.StdEncoding.DecodeString(first)
	if err != nil {
		t.Fatal(err)
	}
	msg := string(decoded)
	if !strings.HasPrefix(msg, "n,,n=user,r=") {
		t.Fatalf("client-first: got %q", msg)
	}
	clientNonce := msg[strings.LastIndex(msg, "r=")+2:]

	// fake a server-first response continuing our nonce
	serverFirst := "r=" + clientNonce + "SERVER,s=" +
		base64.StdEncoding.EncodeToString([]byte("salty")) + ",i=4096"
	final, err := scram.Step(base64.StdEncoding.EncodeToString([]byte(serverFirst)))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err = base64.StdEncoding.DecodeString(final)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(decoded), ",p=") {
		t.Errorf("client-final missing proof: %q", decoded)
	}
	if scram.serverKey == nil {
		t.Error("server key should be derived after client-final")
	}

	// a bogus server signature must be rejected
	bogus := base64.StdEncoding.EncodeToString([]byte("v=AAAA"))
	if scram.VerifyServerFinal(bogus) {
		t.Error("bogus server signature accepted")
	}
}

func TestScramRejectsForeignNonce(t *testing.T) {
	scram, err := newScramClient("SCRAM-SHA-256", "user", "pencil")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scram.Step("+"); err != nil {
		t.Fatal(err)
	}

	serverFirst := "r=completely-different,s=" +
		base64.StdEncoding.EncodeToString([]byte("salty")) + ",i=4096"
	if _, err := scram.Step(base64.StdEncoding.EncodeToString([]byte(serverFirst))); err == nil {
		t.Error("server nonce not extending ours should be rejected")
	}
}

func TestScramUnknownMechanism(t *testing.T) {
	if _, err := newScramClient("SCRAM-MD5", "user", "pencil"); err == nil {
		t.Error("unknown mechanism should fail")
	}
}
