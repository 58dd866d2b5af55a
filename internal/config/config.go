// If you are AI: This file defines the CLI profile file for rtmpget.
// It uses strict YAML decoding and explicit defaults.

package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds one saved connection profile. Every field maps to a
// session option; zero values are left at the session defaults.
type Profile struct {
	URL          string   `yaml:"url"`
	Playpath     string   `yaml:"playpath,omitempty"`
	TCURL        string   `yaml:"tcurl,omitempty"`
	App          string   `yaml:"app,omitempty"`
	PageURL      string   `yaml:"pageurl,omitempty"`
	Auth         string   `yaml:"auth,omitempty"`
	SWFHash      string   `yaml:"swfhash,omitempty"`
	SWFSize      int      `yaml:"swfsize,omitempty"`
	SWFURL       string   `yaml:"swfurl,omitempty"`
	SWFVerify    bool     `yaml:"swfvfy,omitempty"`
	FlashVersion string   `yaml:"flashver,omitempty"`
	Subscribe    string   `yaml:"subscribe,omitempty"`
	Token        string   `yaml:"token,omitempty"`
	JTV          string   `yaml:"jtv,omitempty"`
	Conn         []string `yaml:"conn,omitempty"`
	SOCKS        string   `yaml:"socks,omitempty"`
	Live         bool     `yaml:"live,omitempty"`
	Start        int      `yaml:"start,omitempty"`
	Stop         int      `yaml:"stop,omitempty"`
	Buffer       int      `yaml:"buffer,omitempty"`
	Timeout      int      `yaml:"timeout,omitempty"`

	Output   string `yaml:"output,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load reads a profile from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var p Profile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate rejects profiles that cannot produce a usable session.
func (p *Profile) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("config: url is required")
	}
	if p.SWFVerify && p.SWFURL == "" {
		return fmt.Errorf("config: swfvfy requires swfurl")
	}
	if p.Buffer < 0 || p.Timeout < 0 {
		return fmt.Errorf("config: buffer and timeout must not be negative")
	}
	return nil
}
