package ai

import (
	"errors"
	"fmt"
	"testing"
)

func TestModeSettings(t *testing.T) {
	cases := []struct {
		mode Mode
		want Settings
	}{
		{ModeJunior, Settings{Temperature: 0, TopK: 1, TopP: 0, Seed: 42, MaxOutputTokens: 65536}},
		{ModeSenior, Settings{Temperature: 0.1, TopK: 3, TopP: 0.1, Seed: 42, MaxOutputTokens: 65536}},
		{ModeExpert, Settings{Temperature: 0.2, TopK: 5, TopP: 0.2, Seed: 42, MaxOutputTokens: 65536}},
		{Mode("wizard"), Settings{Temperature: 0.1, TopK: 3, TopP: 0.1, Seed: 42, MaxOutputTokens: 65536}},
	}
	for _, c := range cases {
		if got := ModeSettings(c.mode); got != c.want {
			t.Errorf("ModeSettings(%q) = %+v, want %+v", c.mode, got, c.want)
		}
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []Mode{ModeJunior, ModeSenior, ModeExpert} {
		if !ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if ValidMode(Mode("intern")) {
		t.Error("ValidMode(intern) = true")
	}
	if DefaultMode != ModeSenior {
		t.Errorf("DefaultMode = %q", DefaultMode)
	}
}

func TestIsOverloaded(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("googleapi: Error 503: The model is overloaded"), true},
		{errors.New("service UNAVAILABLE"), true},
		{errors.New("model Overloaded, try later"), true},
		{fmt.Errorf("wrapped: %w", errors.New("http 503")), true},
		{errors.New("invalid API key"), false},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsOverloaded(c.err); got != c.want {
			t.Errorf("IsOverloaded(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
