package cmd

import (
	"strings"
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	expected := map[string]bool{
		"status":  false,
		"enable":  false,
		"disable": false,
		"send":    false,
		"seed":    false,
	}

	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := expected[name]; ok {
			expected[name] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("expected command '%s' to be registered with root command", name)
		}
	}
}

func TestSendSubcommands(t *testing.T) {
	expected := map[string]bool{
		"event":  false,
		"metric": false,
		"log":    false,
	}
	for _, cmd := range sendCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := expected[name]; ok {
			expected[name] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("expected send subcommand '%s'", name)
		}
	}
}

func TestParseAttrsTyping(t *testing.T) {
	attrs := parseAttrs([]string{"n=42", "ratio=0.5", "ok=true", "name=hello", "malformed"})

	if attrs["n"] != int64(42) {
		t.Errorf("Expected int64 42, got %T %v", attrs["n"], attrs["n"])
	}
	if attrs["ratio"] != 0.5 {
		t.Errorf("Expected float 0.5, got %v", attrs["ratio"])
	}
	if attrs["ok"] != true {
		t.Errorf("Expected bool true, got %v", attrs["ok"])
	}
	if attrs["name"] != "hello" {
		t.Errorf("Expected string hello, got %v", attrs["name"])
	}
	if _, present := attrs["malformed"]; present {
		t.Error("Malformed pair should be skipped")
	}
	if len(attrs) != 4 {
		t.Errorf("Expected 4 attributes, got %d", len(attrs))
	}
}

func TestParseAttrsEmpty(t *testing.T) {
	if parseAttrs(nil) != nil {
		t.Error("Expected nil map for no pairs")
	}
}
