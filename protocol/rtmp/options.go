// If you are AI: This file defines the link option table and typed parsing.
// Option keys mirror the librtmp option surface; unknown keys are rejected.

package rtmp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"rtmpcall/protocol/amf0"
)

var (
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// optionKind tags how an option value is parsed.
type optionKind int

const (
	optString optionKind = iota
	optInt
	optBool
	optConn
)

// optionTable is the set of recognized option keys and their kinds.
// Matching is case-insensitive.
var optionTable = map[string]optionKind{
	"playpath":  optString,
	"app":       optString,
	"tcurl":     optString,
	"pageurl":   optString,
	"auth":      optString,
	"swfurl":    optString,
	"flashver":  optString,
	"subscribe": optString,
	"token":     optString,
	"jtv":       optString,
	"socks":     optString,
	"conn":      optConn,
	"live":      optBool,
	"swfvfy":    optBool,
	"start":     optInt,
	"stop":      optInt,
	"buffer":    optInt,
	"timeout":   optInt,
}

// link holds the connection parameters consumed at connect time.
// Populated from the URL and explicit SetOption calls; immutable after
// Connect succeeds.
type link struct {
	target    Target
	tcURL     string
	pageURL   string
	swfURL    string
	flashVer  string
	auth      string
	subscribe string
	token     string
	jtv       string
	socks     string
	extras    amf0.Array
	live      bool
	swfVfy    bool
	startMS   int
	stopMS    int
	bufferMS  int
	timeoutS  int
	swfHash   []byte
	swfSize   int
}

// newLink returns a link with librtmp-compatible defaults.
func newLink() link {
	return link{
		flashVer: DefaultFlashVersion,
		bufferMS: DefaultBufferMS,
		timeoutS: DefaultTimeoutSeconds,
	}
}

// effectiveTCURL returns the tcUrl option or one derived from the target.
func (l *link) effectiveTCURL() string {
	if l.tcURL != "" {
		return l.tcURL
	}
	return fmt.Sprintf("%s://%s:%d/%s", l.target.Scheme, l.target.Host, l.target.Port, l.target.App)
}

// setOption applies one key/value pair to the link. The key must be in
// the option table and the value must parse for the key's kind.
func (l *link) setOption(key, value string) error {
	kind, ok := optionTable[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOption, key)
	}

	switch kind {
	case optString:
		l.setString(strings.ToLower(key), value)
		return nil
	case optInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidOptionValue, key, value)
		}
		l.setInt(strings.ToLower(key), n)
		return nil
	case optBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidOptionValue, key, value)
		}
		l.setBool(strings.ToLower(key), b)
		return nil
	case optConn:
		extra, err := parseConnExtra(value)
		if err != nil {
			return err
		}
		l.extras = append(l.extras, extra)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidOption, key)
}

// setString stores a string-kind option.
func (l *link) setString(key, value string) {
	switch key {
	case "playpath":
		l.target.Playpath = value
	case "app":
		l.target.App = value
	case "tcurl":
		l.tcURL = value
	case "pageurl":
		l.pageURL = value
	case "swfurl":
		l.swfURL = value
	case "flashver":
		l.flashVer = value
	case "auth":
		l.auth = value
	case "subscribe":
		l.subscribe = value
	case "token":
		l.token = value
	case "jtv":
		l.jtv = value
	case "socks":
		l.socks = value
	}
}

// setInt stores an int-kind option.
func (l *link) setInt(key string, n int) {
	switch key {
	case "start":
		l.startMS = n
	case "stop":
		l.stopMS = n
	case "buffer":
		l.bufferMS = n
	case "timeout":
		l.timeoutS = n
	}
}

// setBool stores a bool-kind option.
func (l *link) setBool(key string, b bool) {
	switch key {
	case "live":
		l.live = b
	case "swfvfy":
		l.swfVfy = b
	}
}

// parseConnExtra parses one "conn" option value into an AMF0 value.
// Values use a type prefix: S:string, N:number, B:0/1, Z: for null.
// A bare value is treated as a string.
func parseConnExtra(value string) (amf0.Value, error) {
	if len(value) >= 2 && value[1] == ':' {
		body := value[2:]
		switch value[0] {
		case 'S':
			return body, nil
		case 'N':
			n, err := strconv.ParseFloat(body, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: conn=%q", ErrInvalidOptionValue, value)
			}
			return n, nil
		case 'B':
			switch body {
			case "0":
				return false, nil
			case "1":
				return true, nil
			}
			return nil, fmt.Errorf("%w: conn=%q", ErrInvalidOptionValue, value)
		case 'Z':
			return nil, nil
		}
	}
	return value, nil
}
