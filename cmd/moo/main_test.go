package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/moocore/options"
	"github.com/chazu/moocore/vm"
	"github.com/chazu/moocore/vm/wire"
)

// configDir writes a moo.toml with the given contents and returns its directory.
func configDir(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, options.FileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runMoo(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-config", configDir(t, "")}, args...)
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunCalls(t *testing.T) {
	code, out, errOut := runMoo(t, "",
		`listappend({1, 2}, 3)`,
		`listset({1, 2}, "x", 5)`,
		`strsub("hello", "l", "L")`,
	)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	want := "{1, 2, 3}\nE_RANGE\n\"heLLo\"\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunStdin(t *testing.T) {
	input := "; comment\n\nlength({1, 2})\n  index(\"foobar\", \"bar\")  \n"
	code, out, errOut := runMoo(t, input)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "2\n4\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunToStrFormat(t *testing.T) {
	code, out, _ := runMoo(t, "", "-format", "tostr", `strsub("hello", "l", "L")`, `listappend({}, 1)`)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if out != "heLLo\n{list}\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunCBORFormat(t *testing.T) {
	code, out, _ := runMoo(t, "", "-format", "cbor", `listinsert({"b"}, "a")`)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	data, err := hex.DecodeString(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("output %q is not hex: %v", out, err)
	}
	v, err := wire.UnmarshalValue(data)
	if err != nil {
		t.Fatal(err)
	}
	defer vm.Release(v)
	if got := vm.Unparse(v); got != `{"a", "b"}` {
		t.Errorf("decoded %s", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"unknown function", []string{`frobnicate(1)`}, 1, "unknown built-in function"},
		{"not a call", []string{`length`}, 1, "expected name(args...)"},
		{"bad name", []string{`len-gth({})`}, 1, "bad function name"},
		{"bad literal", []string{`length({1,)`}, 1, "literal:"},
		{"bad format", []string{"-format", "xml", `length({})`}, 2, "unknown format"},
		{"bad flag", []string{"-nope"}, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runMoo(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit %d, want %d (stderr %q)", code, tt.code, errOut)
			}
			if !strings.Contains(errOut, tt.msg) {
				t.Errorf("stderr %q does not mention %q", errOut, tt.msg)
			}
		})
	}
}

func TestRunQuotaAbort(t *testing.T) {
	dir := configDir(t, "[limits]\nmax-string-concat = 4\n")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", dir, `tostr("abcdef")`, `tostr("abc")`}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "tostr: task aborted") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.String() != "\"abc\"\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunList(t *testing.T) {
	code, out, _ := runMoo(t, "", "-list")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	names := strings.Fields(out)
	if len(names) == 0 || names[0] != "equal" {
		t.Errorf("-list printed %v", names)
	}
}

func TestRunStats(t *testing.T) {
	code, out, _ := runMoo(t, "", "-stats", `match("foo", "o")`, `match("bar", "o")`, `listappend({}, 1)`)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{
		"heap: lists=",
		"gc: sweeps=3 ",
		"moo_pattern_cache_hits_total 1\n",
		"moo_pattern_cache_misses_total 1\n",
		"moo_pattern_cache_slots 5\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCall(t *testing.T) {
	name, args, err := parseCall(`strsub( "a(b)" , "(", "[")`)
	if err != nil {
		t.Fatal(err)
	}
	defer vm.Release(args)
	if name != "strsub" {
		t.Errorf("name = %q", name)
	}
	if got := vm.Unparse(args); got != `{"a(b)", "(", "["}` {
		t.Errorf("args = %s", got)
	}
}
