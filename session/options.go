// If you are AI: This file implements the session option set.
// Options are forwarded to the transport at construction; zero values
// keep the transport defaults.

package session

import (
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"rtmpcall/protocol/rtmp"
)

// Options configures a session at construction. Zero-valued fields are
// left at the transport defaults.
type Options struct {
	Playpath     string
	TCURL        string
	App          string
	PageURL      string
	Auth         string
	SWFHash      string // hex SHA-256 digest of the decompressed player
	SWFSize      int
	SWFURL       string
	SWFVerify    bool // compute SWFHash/SWFSize from SWFURL
	FlashVersion string
	Subscribe    string
	Token        string
	JTV          string
	Conn         []string // extra connect parameters, type-prefixed
	SOCKS        string
	Live         bool
	Start        int // milliseconds into the stream, recorded only
	Stop         int
	Buffer       int // client buffer in milliseconds
	Timeout      int // idle timeout in seconds

	Logger *zerolog.Logger
}

// applyOptions forwards non-zero option fields to the transport.
func (s *Session) applyOptions(opts *Options) error {
	if opts == nil {
		return nil
	}

	if opts.SWFURL != "" && opts.SWFVerify {
		digest, size, err := rtmp.HashSWF(opts.SWFURL)
		if err != nil {
			return err
		}
		s.transport.SetSWFHash(digest, size)
	} else if opts.SWFHash != "" {
		digest, err := hex.DecodeString(opts.SWFHash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadSWFHash, err)
		}
		s.transport.SetSWFHash(digest, opts.SWFSize)
	}

	strOpts := map[string]string{
		"playpath":  opts.Playpath,
		"tcUrl":     opts.TCURL,
		"app":       opts.App,
		"swfUrl":    opts.SWFURL,
		"pageUrl":   opts.PageURL,
		"auth":      opts.Auth,
		"flashver":  opts.FlashVersion,
		"subscribe": opts.Subscribe,
		"token":     opts.Token,
		"jtv":       opts.JTV,
		"socks":     opts.SOCKS,
	}
	for key, value := range strOpts {
		if value == "" {
			continue
		}
		if err := s.transport.SetOption(key, value); err != nil {
			return err
		}
	}

	intOpts := map[string]int{
		"start":   opts.Start,
		"stop":    opts.Stop,
		"buffer":  opts.Buffer,
		"timeout": opts.Timeout,
	}
	for key, value := range intOpts {
		if value == 0 {
			continue
		}
		if err := s.transport.SetOption(key, fmt.Sprintf("%d", value)); err != nil {
			return err
		}
	}

	if opts.Live {
		if err := s.transport.SetOption("live", "true"); err != nil {
			return err
		}
	}
	for _, c := range opts.Conn {
		if err := s.transport.SetOption("conn", c); err != nil {
			return err
		}
	}
	return nil
}
