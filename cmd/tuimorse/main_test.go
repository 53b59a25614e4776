package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/drill"
	"github.com/verte-zerg/tuimorse/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestEncodeAndDecodeCommands(t *testing.T) {
	isolate(t)
	if got := execute(t, "encode", "Hello", "World!"); got != ".... . .-.. .-.. --- / .-- --- .-. .-.. -.. -.-.--\n" {
		t.Fatalf("unexpected encode output %q", got)
	}
	if got := execute(t, "decode", "...", "---", "...", "/", "-.-."); got != "SOS C\n" {
		t.Fatalf("unexpected decode output %q", got)
	}
}

func TestDecodeAcceptsDashLedInput(t *testing.T) {
	isolate(t)
	if got := execute(t, "decode", "-.-. --.-"); got != "CQ\n" {
		t.Fatalf("unexpected decode output %q", got)
	}
	if got := execute(t, "decode", "--", "-", "--", "---"); got != "TMO\n" {
		t.Fatalf("expected leading -- to be dropped, got %q", got)
	}
	if got := execute(t, "decode", "--help"); !strings.Contains(got, "Decode Morse code") {
		t.Fatalf("expected help output, got %q", got)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"decode"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error without input")
	}
}

func TestPatternCommandUsesConfigAndFlags(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "tuimorse", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[playback]\nunit-ms = 50\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got := execute(t, "pattern", "et")
	if got != "[50, 150, 150]\ntotal 350ms, 2 symbols, 2 tokens, unit 50ms\n" {
		t.Fatalf("expected config unit, got %q", got)
	}
	got = execute(t, "pattern", "--unit-ms", "100", "et")
	if !strings.HasPrefix(got, "[100, 300, 300]\ntotal 700ms") {
		t.Fatalf("expected flag to win over config, got %q", got)
	}
}

func TestValidateConfig(t *testing.T) {
	good := model.Config{UnitMs: 200, Backend: "text", Pairing: "paired", Frequency: 700}
	if err := validateConfig(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []model.Config{
		{UnitMs: 0, Backend: "text", Frequency: 700},
		{UnitMs: 200, WPM: -1, Backend: "text", Frequency: 700},
		{UnitMs: 200, Backend: "vibrator", Frequency: 700},
		{UnitMs: 200, Backend: "text", Pairing: "odd", Frequency: 700},
		{UnitMs: 200, Backend: "text"},
	} {
		if err := validateConfig(bad); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	isolate(t)
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	uncommented := strings.NewReplacer("# unit-ms", "unit-ms", "# groups", "groups").Replace(defaultConfigTemplate())
	if _, err := toml.Decode(uncommented, &cfg); err != nil {
		t.Fatalf("uncommented template is not valid TOML: %v", err)
	}
	if cfg.Playback.UnitMs == nil || *cfg.Playback.UnitMs != defaultUnitMs {
		t.Fatalf("expected default unit in template")
	}
}

func TestGenerateDrillFromWordlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("naïve\ncq\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := model.DrillConfig{Groups: 3, GroupSize: 5, Wordlist: path}
	text, err := generateDrill(drill.NewSeeded(1), cfg, []rune(drill.DefaultChars), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "CQ CQ CQ" {
		t.Fatalf("expected only encodable words, got %q", text)
	}

	cfg.Wordlist = ""
	text, err = generateDrill(drill.NewSeeded(1), cfg, []rune("E"), map[rune]struct{}{'T': {}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(strings.Fields(text)) != 3 || strings.Trim(text, "ET ") != "" {
		t.Fatalf("unexpected groups %q", text)
	}
}

func TestGenerateDrillMaxLen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("antenna qrz\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := model.DrillConfig{Groups: 2, GroupSize: 5, Wordlist: path, MaxLen: 3}
	text, err := generateDrill(drill.NewSeeded(1), cfg, []rune(drill.DefaultChars), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "QRZ QRZ" {
		t.Fatalf("expected long words skipped, got %q", text)
	}
	cfg.MaxLen = 2
	if _, err := generateDrill(drill.NewSeeded(1), cfg, nil, nil); err == nil {
		t.Fatalf("expected error when every word is too long")
	}
	if err := validateDrillConfig(model.DrillConfig{Groups: 1, GroupSize: 1, MaxLen: -1}); err == nil {
		t.Fatalf("expected negative max-len rejected")
	}
}

func TestDefaultWordlistFallback(t *testing.T) {
	isolate(t)
	cfg := model.DrillConfig{Groups: 1, GroupSize: 5}
	got, err := withDefaultWordlist(cfg)
	if err != nil || got.Wordlist != "" {
		t.Fatalf("expected no word list without the default file, got %q %v", got.Wordlist, err)
	}

	path := config.DefaultWordListPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("sos\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = withDefaultWordlist(cfg)
	if err != nil || got.Wordlist != path {
		t.Fatalf("expected default word list %s, got %q %v", path, got.Wordlist, err)
	}
	cfg.Chars = "KM"
	if got, _ := withDefaultWordlist(cfg); got.Wordlist != "" {
		t.Fatalf("explicit chars must keep random groups")
	}
}
