package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"prettydebug/internal/version"
)

func TestWriteVersionPretty(t *testing.T) {
	info := version.Info{Version: "9.9.9", GitCommit: "abc123"}
	cases := []struct {
		name  string
		shown []buildField
		want  string
	}{
		{"bare", nil, "prettydebug 9.9.9: stack traces you can read\nset --hash, --message, --date or --full for build details\n"},
		{"hash", buildFields[:1], "prettydebug 9.9.9: stack traces you can read\ncommit:  abc123\n"},
		{"full", buildFields, "prettydebug 9.9.9: stack traces you can read\ncommit:  abc123\nmessage: unknown\nbuilt:   unknown\n"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		writeVersionPretty(&out, info, tc.shown, false)
		if out.String() != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, out.String(), tc.want)
		}
	}
}

func TestWriteVersionJSONOnlyShownFields(t *testing.T) {
	var out bytes.Buffer
	info := version.Info{Version: "1.0.0", GitCommit: "abc", GitMessage: "fix", BuildDate: "today"}
	if err := writeVersionJSON(&out, info, buildFields[2:]); err != nil {
		t.Fatalf("writeVersionJSON: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if got["tool"] != "prettydebug" || got["version"] != "1.0.0" || got["build_date"] != "today" {
		t.Fatalf("unexpected payload %v", got)
	}
	if _, ok := got["git_commit"]; ok {
		t.Fatalf("commit was not requested: %v", got)
	}
}

func TestBuildInfoDefaultsToDev(t *testing.T) {
	orig := version.Version
	t.Cleanup(func() { version.Version = orig })
	version.Version = "  "
	if got := buildInfo().Version; got != "dev" {
		t.Fatalf("buildInfo().Version = %q, want dev", got)
	}
	if strings.TrimSpace(orig) == "" {
		t.Fatalf("default version should not be blank")
	}
}
