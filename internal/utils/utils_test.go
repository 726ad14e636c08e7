package utils

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"café", true},
		{"日本", true},
		{"user-name", true},
		{"don't", true},
		{"", false},
		{"12345", false},
		{"a+b", false},
		{"hello!", false},
		{"aaa", false},
		{"ééé", false},
		{"日日日", false},
		{"éé", true},
		{"\xff\xfe", false},
	}

	for _, tc := range testCases {
		if got := IsValidInput(tc.input); got != tc.want {
			t.Errorf("IsValidInput(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// The byte length of "éé" is 4 but it is only two codepoints.
func TestIsRepetitiveCountsCodepoints(t *testing.T) {
	if IsRepetitive("éé") {
		t.Error("two codepoints can't be repetitive")
	}
	if !IsRepetitive("😀😀😀") {
		t.Error("three identical emoji should be repetitive")
	}
	if IsRepetitive("\u00e9\u00e8\u00e9") {
		t.Error("different codepoints are not repetitive")
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("CreateRankList(0) = %v", got)
	}
	if got := CreateRankList(3); !reflect.DeepEqual(got, []uint16{1, 2, 3}) {
		t.Errorf("CreateRankList(3) = %v", got)
	}
	ranks := CreateRankList(70000)
	if ranks[len(ranks)-1] != 65535 {
		t.Errorf("ranks should saturate, last = %d", ranks[len(ranks)-1])
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		65535:    "65,535",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
		-999:     "-999",
	}
	for n, want := range testCases {
		if got := FormatWithCommas(n); got != want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatWithCommasMinInt(t *testing.T) {
	got := FormatWithCommas(math.MinInt)
	if got != "-2,147,483,648" && got != "-9,223,372,036,854,775,808" {
		t.Errorf("FormatWithCommas(math.MinInt) = %q", got)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Limit int  `toml:"limit"`
		On    bool `toml:"on"`
	}
	type doc struct {
		S section `toml:"s"`
	}

	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := SaveTOMLFile(doc{S: section{Limit: 7, On: true}}, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("file was not written")
	}

	var got doc
	if err := LoadTOMLFile(path, &got); err != nil {
		t.Fatalf("LoadTOMLFile: %v", err)
	}
	if got.S.Limit != 7 || !got.S.On {
		t.Errorf("decoded %+v", got)
	}

	raw, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery: %v", err)
	}
	s, ok := ExtractSection(raw, "s")
	if !ok {
		t.Fatal("section s missing")
	}
	if v, ok := ExtractInt64(s, "limit"); !ok || v != 7 {
		t.Errorf("limit = %d, %v", v, ok)
	}
	if v, ok := ExtractBool(s, "on"); !ok || !v {
		t.Errorf("on = %v, %v", v, ok)
	}
	if _, ok := ExtractBool(s, "limit"); ok {
		t.Error("limit is not a bool")
	}
}

func TestIsValidDataDir(t *testing.T) {
	dir := t.TempDir()
	if IsValidDataDir(dir) {
		t.Error("empty dir should not be a data dir")
	}
	if IsValidDataDir(filepath.Join(dir, "missing")) {
		t.Error("missing dir should not be a data dir")
	}

	if err := os.WriteFile(filepath.Join(dir, "words.txt"), []byte("alex\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !IsValidDataDir(dir) {
		t.Error("dir with a text dictionary should be a data dir")
	}
}

func TestConfigDirFor(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := configDirFor("linux", "/home/u", "wordtrie"); got != filepath.Join("/xdg", "wordtrie") {
		t.Errorf("linux with XDG = %s", got)
	}
	if got := configDirFor("darwin", "/home/u", "wordtrie"); got != filepath.Join("/home/u", ".config", "wordtrie") {
		t.Errorf("darwin = %s", got)
	}
	if got := configDirFor("plan9", "/home/u", "wordtrie"); got != filepath.Join("/home/u", ".wordtrie") {
		t.Errorf("fallback = %s", got)
	}
}
