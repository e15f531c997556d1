package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lectern/internal/songs"
)

func TestScheduleTitleFromFile(t *testing.T) {
	cases := map[string]string{
		"sunday-morning.txt":         "Sunday Morning",
		"youth_service_2026.program": "Youth Service 2026",
		"Easter.churchprogram":       "Easter",
	}
	for input, want := range cases {
		if got := scheduleTitleFromFile(input); got != want {
			t.Fatalf("scheduleTitleFromFile(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseLyrics(t *testing.T) {
	lyrics := strings.Join([]string{
		"Amazing grace, how sweet the sound",
		"that saved a wretch like me",
		"",
		"Chorus:",
		"Praise God, praise God",
		"",
		"Bridge:",
		"My chains are gone",
	}, "\n")

	slides := parseLyrics(lyrics)
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %+v", slides)
	}
	if slides[0].Kind != songs.SlideVerse || !strings.HasPrefix(slides[0].Content, "Amazing grace") {
		t.Fatalf("unexpected first slide: %+v", slides[0])
	}
	if slides[1].Kind != songs.SlideChorus || strings.Contains(slides[1].Content, "Chorus:") {
		t.Fatalf("kind marker must be stripped: %+v", slides[1])
	}
	if slides[2].Kind != songs.SlideBridge {
		t.Fatalf("unexpected third slide: %+v", slides[2])
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"config", "init", "--path", target})
	cmd.SetOut(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("sample config missing paths section: %s", data)
	}

	// Refuses to overwrite.
	cmd = newRootCommand()
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
}
