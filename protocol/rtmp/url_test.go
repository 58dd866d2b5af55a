// If you are AI: This file tests URL parsing, playpath derivation, and
// option override unescaping.

package rtmp

import (
	"errors"
	"testing"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		raw      string
		scheme   string
		host     string
		port     int
		app      string
		playpath string
	}{
		{"rtmp://example.com/app/stream", "rtmp", "example.com", 1935, "app", "stream"},
		{"rtmp://example.com:8080/app/stream", "rtmp", "example.com", 8080, "app", "stream"},
		{"rtmps://example.com/app/stream", "rtmps", "example.com", 443, "app", "stream"},
		{"rtmpt://example.com/app/stream", "rtmpt", "example.com", 80, "app", "stream"},
		{"ws://example.com/live/flv", "ws", "example.com", 80, "live", "flv"},
		{"rtmp://example.com/app/instance/stream", "rtmp", "example.com", 1935, "app/instance", "stream"},
		{"rtmp://example.com/app", "rtmp", "example.com", 1935, "app", ""},
		{"rtmp://example.com", "rtmp", "example.com", 1935, "", ""},
	}

	for _, c := range cases {
		target, err := ParseURL(c.raw)
		if err != nil {
			t.Errorf("ParseURL(%q) failed: %v", c.raw, err)
			continue
		}
		if target.Scheme != c.scheme {
			t.Errorf("%q: scheme = %q, want %q", c.raw, target.Scheme, c.scheme)
		}
		if target.Host != c.host {
			t.Errorf("%q: host = %q, want %q", c.raw, target.Host, c.host)
		}
		if target.Port != c.port {
			t.Errorf("%q: port = %d, want %d", c.raw, target.Port, c.port)
		}
		if target.App != c.app {
			t.Errorf("%q: app = %q, want %q", c.raw, target.App, c.app)
		}
		if target.Playpath != c.playpath {
			t.Errorf("%q: playpath = %q, want %q", c.raw, target.Playpath, c.playpath)
		}
	}
}

func TestParseURLErrors(t *testing.T) {
	if _, err := ParseURL("ftp://example.com/app"); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("ftp scheme: got %v, want ErrUnknownScheme", err)
	}
	if _, err := ParseURL("rtmp://"); !errors.Is(err, ErrParse) {
		t.Errorf("missing host: got %v, want ErrParse", err)
	}
}

func TestDerivePlaypath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"stream", "stream"},
		{"stream.flv", "stream"},
		{"clip.mp4", "mp4:clip.mp4"},
		{"clip.f4v", "mp4:clip.f4v"},
		{"song.mp3", "mp3:song"},
		{"mp4:already", "mp4:already"},
		{"mp3:already", "mp3:already"},
		{"", ""},
	}
	for _, c := range cases {
		if got := derivePlaypath(c.in); got != c.want {
			t.Errorf("derivePlaypath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitOptions(t *testing.T) {
	url, opts := SplitOptions("rtmp://h/app/p live=1 playpath=other")
	if url != "rtmp://h/app/p" {
		t.Errorf("url = %q", url)
	}
	if len(opts) != 2 || opts[0] != "live=1" || opts[1] != "playpath=other" {
		t.Errorf("opts = %v", opts)
	}

	url, opts = SplitOptions("rtmp://h/app/p")
	if url != "rtmp://h/app/p" || len(opts) != 0 {
		t.Errorf("plain url: %q %v", url, opts)
	}
}

func TestParseOption(t *testing.T) {
	key, value, err := ParseOption("playpath=my\\20stream")
	if err != nil {
		t.Fatalf("ParseOption failed: %v", err)
	}
	if key != "playpath" {
		t.Errorf("key = %q", key)
	}
	if value != "my stream" {
		t.Errorf("value = %q, want 'my stream'", value)
	}

	// \5c decodes to a literal backslash
	_, value, err = ParseOption("token=a\\5cb")
	if err != nil {
		t.Fatalf("ParseOption failed: %v", err)
	}
	if value != `a\b` {
		t.Errorf("value = %q, want a\\b", value)
	}
}

func TestParseOptionErrors(t *testing.T) {
	if _, _, err := ParseOption("noequals"); !errors.Is(err, ErrMalformedOption) {
		t.Errorf("missing =: got %v", err)
	}
	if _, _, err := ParseOption("=value"); !errors.Is(err, ErrMalformedOption) {
		t.Errorf("empty key: got %v", err)
	}
	if _, _, err := ParseOption("k=bad\\zz"); !errors.Is(err, ErrBadOptionEscape) {
		t.Errorf("bad hex escape: got %v", err)
	}
	if _, _, err := ParseOption("k=trunc\\2"); !errors.Is(err, ErrBadOptionEscape) {
		t.Errorf("truncated escape: got %v", err)
	}
}
