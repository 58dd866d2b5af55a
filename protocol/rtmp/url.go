// If you are AI: This file parses RTMP URLs and appended option overrides.
// Playpath derivation follows the rules streaming servers expect.

package rtmp

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrParse           = errors.New("unable to parse URL")
	ErrUnknownScheme   = errors.New("unknown URL scheme")
	ErrBadOptionEscape = errors.New("bad option escape sequence")
	ErrMalformedOption = errors.New("malformed option override")
)

// Target holds the connection parameters parsed out of an RTMP URL.
type Target struct {
	Scheme   string
	Host     string
	Port     int
	App      string
	Playpath string
}

// knownSchemes maps accepted URL schemes to their default ports.
// The ws/wss schemes tunnel the RTMP byte stream over WebSocket.
var knownSchemes = map[string]int{
	"rtmp":   DefaultPort,
	"rtmpt":  80,
	"rtmpe":  DefaultPort,
	"rtmps":  443,
	"rtmpte": 80,
	"rtmpts": 443,
	"ws":     80,
	"wss":    443,
}

// ParseURL parses an RTMP URL of the form
// rtmp[t][e|s]://hostname[:port][/app[/playpath]] into a Target.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	scheme := strings.ToLower(u.Scheme)
	defaultPort, ok := knownSchemes[scheme]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	if u.Hostname() == "" {
		return Target{}, fmt.Errorf("%w: missing hostname", ErrParse)
	}

	port := defaultPort
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return Target{}, fmt.Errorf("%w: bad port", ErrParse)
		}
	}

	app, playpath := splitPath(u.Path)

	return Target{
		Scheme:   scheme,
		Host:     u.Hostname(),
		Port:     port,
		App:      app,
		Playpath: derivePlaypath(playpath),
	}, nil
}

// splitPath splits the URL path into app and playpath. Everything after
// the last slash is the playpath; the rest is the application, which may
// itself contain slashes (app/instance).
func splitPath(path string) (string, string) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", ""
	}
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path, ""
	}
	return path[:idx], path[idx+1:]
}

// derivePlaypath normalizes the playpath the way librtmp-compatible
// servers expect: mp4/f4v files get an mp4: prefix, mp3 files an mp3:
// prefix, and a .flv extension is stripped.
func derivePlaypath(playpath string) string {
	if playpath == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(playpath, "mp4:"), strings.HasPrefix(playpath, "mp3:"):
		return playpath
	case strings.HasSuffix(playpath, ".f4v"), strings.HasSuffix(playpath, ".mp4"):
		return "mp4:" + playpath
	case strings.HasSuffix(playpath, ".mp3"):
		return "mp3:" + playpath[:len(playpath)-len(".mp3")]
	case strings.HasSuffix(playpath, ".flv"):
		return playpath[:len(playpath)-len(".flv")]
	default:
		return playpath
	}
}

// SplitOptions separates a raw URL from the space-separated key=value
// overrides that may follow it. The first token is the URL proper.
func SplitOptions(raw string) (string, []string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// ParseOption splits one key=value override and unescapes the value.
// Values escape special characters as a backslash followed by two hex
// digits, e.g. \20 for space and \5c for backslash.
func ParseOption(token string) (string, string, error) {
	idx := strings.IndexByte(token, '=')
	if idx <= 0 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedOption, token)
	}
	key := token[:idx]
	value, err := unescapeOption(token[idx+1:])
	if err != nil {
		return "", "", err
	}
	return key, value, nil
}

// unescapeOption decodes backslash-hex escapes in an option value.
func unescapeOption(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("%w: %q", ErrBadOptionEscape, s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrBadOptionEscape, s[i:i+3])
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}
