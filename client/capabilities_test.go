// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"reflect"
	"testing"
)

func TestCapabilitiesLsAndToEnable(t *testing.T) {
	caps := NewCapabilities([]string{"multi-prefix", "sasl", "server-time"})
	caps.Ingest("ls", []string{"multi-prefix sasl=PLAIN,EXTERNAL account-notify"})

	toEnable := caps.ToEnable()
	want := []string{"multi-prefix", "sasl"}
	if !reflect.DeepEqual(toEnable, want) {
		t.Errorf("ToEnable: got %v, want %v", toEnable, want)
	}

	sasl := caps.Available["sasl"]
	if !reflect.DeepEqual(sasl.Mechanisms, []string{"plain", "external"}) {
		t.Errorf("sasl mechanisms: got %v", sasl.Mechanisms)
	}
}

func TestCapabilitiesAckNak(t *testing.T) {
	caps := NewCapabilities([]string{"multi-prefix", "away-notify"})
	caps.Ingest("ls", []string{"multi-prefix away-notify"})
	caps.Ingest("ack", []string{"multi-prefix away-notify"})

	if !caps.IsEnabled("multi-prefix") || !caps.IsEnabled("away-notify") {
		t.Fatal("acked caps should be enabled")
	}
	if len(caps.ToEnable()) != 0 {
		t.Errorf("nothing left to enable, got %v", caps.ToEnable())
	}

	// a '-' prefixed ack disables
	caps.Ingest("ack", []string{"-away-notify"})
	if caps.IsEnabled("away-notify") {
		t.Error("away-notify should be disabled after -ack")
	}

	caps.Ingest("nak", []string{"multi-prefix"})
	if caps.IsEnabled("multi-prefix") {
		t.Error("multi-prefix should be disabled after nak")
	}
}

func TestCapabilitiesNewDel(t *testing.T) {
	caps := NewCapabilities([]string{"sasl"})
	caps.Ingest("new", []string{"sasl=PLAIN"})
	if _, exists := caps.Available["sasl"]; !exists {
		t.Fatal("cap new should advertise sasl")
	}
	caps.Ingest("ack", []string{"sasl"})

	caps.Ingest("del", []string{"sasl"})
	if _, exists := caps.Available["sasl"]; exists {
		t.Error("cap del should remove sasl from available")
	}
	if caps.IsEnabled("sasl") {
		t.Error("cap del should disable sasl")
	}
}

func TestCapabilityModifiers(t *testing.T) {
	cap := parseCapToken("~=-odd-cap=some,value")
	if !cap.Modifiers.AckRequired || !cap.Modifiers.Sticky || !cap.Modifiers.Disabled {
		t.Errorf("modifiers not parsed: %+v", cap.Modifiers)
	}
	if cap.Name != "odd-cap" || cap.Value != "some,value" {
		t.Errorf("name/value: got %q=%q", cap.Name, cap.Value)
	}
}

func TestSASLMechanismOK(t *testing.T) {
	caps := NewCapabilities([]string{"sasl"})

	// no advertised value permits everything
	caps.Ingest("ls", []string{"sasl"})
	if !caps.SASLMechanismOK("PLAIN") {
		t.Error("valueless sasl should permit PLAIN")
	}

	caps.Ingest("ls", []string{"sasl=PLAIN,SCRAM-SHA-256"})
	if !caps.SASLMechanismOK("scram-sha-256") {
		t.Error("advertised mechanism rejected")
	}
	if caps.SASLMechanismOK("EXTERNAL") {
		t.Error("unadvertised mechanism accepted")
	}
}
