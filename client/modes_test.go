// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package client

import (
	"reflect"
	"testing"
)

var testChanmodes = [4]string{"beI", "k", "l", "imnpst"}

func TestParseModes(t *testing.T) {
	tests := []struct {
		params []string
		want   []ModeChange
	}{
		{
			[]string{"+b", "*!*@example.com"},
			[]ModeChange{{'+', 'b', "*!*@example.com", true}},
		},
		{
			// param-on-set mode: consumed when setting, not when unsetting
			[]string{"+l", "50"},
			[]ModeChange{{'+', 'l', "50", true}},
		},
		{
			[]string{"-l"},
			[]ModeChange{{'-', 'l', "", false}},
		},
		{
			[]string{"+o-v", "opnick", "voicenick"},
			[]ModeChange{
				{'+', 'o', "opnick", true},
				{'-', 'v', "voicenick", true},
			},
		},
		{
			[]string{"+imnt"},
			[]ModeChange{
				{'+', 'i', "", false},
				{'+', 'm', "", false},
				{'+', 'n', "", false},
				{'+', 't', "", false},
			},
		},
		{
			// key is always-param, even on unset
			[]string{"-k", "sekrit"},
			[]ModeChange{{'-', 'k', "sekrit", true}},
		},
	}

	for _, test := range tests {
		got, err := ParseModes(test.params, testChanmodes, "ov")
		if err != nil {
			t.Errorf("ParseModes(%v): unexpected error %v", test.params, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("ParseModes(%v):\n got %+v\nwant %+v", test.params, got, test.want)
		}
	}
}

func TestParseModesBadInput(t *testing.T) {
	for _, params := range [][]string{{}, {""}, {"oops"}} {
		if _, err := ParseModes(params, testChanmodes, "ov"); err == nil {
			t.Errorf("ParseModes(%v): expected error", params)
		}
	}
}

func TestParseModesMissingParams(t *testing.T) {
	// more param-taking letters than params: later letters go bare
	got, err := ParseModes([]string{"+oo", "onlyone"}, testChanmodes, "ov")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d changes, want 2", len(got))
	}
	if !got[0].HasParam || got[0].Param != "onlyone" {
		t.Errorf("first change: %+v", got[0])
	}
	if got[1].HasParam {
		t.Errorf("second change should have no param: %+v", got[1])
	}
}
