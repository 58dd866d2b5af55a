// If you are AI: This file tests the link option table and typed parsing.

package rtmp

import (
	"errors"
	"testing"
)

func TestSetOptionKinds(t *testing.T) {
	l := newLink()

	if err := l.setOption("playpath", "stream"); err != nil {
		t.Fatalf("playpath: %v", err)
	}
	if l.target.Playpath != "stream" {
		t.Errorf("playpath = %q", l.target.Playpath)
	}

	// Keys match case-insensitively
	if err := l.setOption("tcUrl", "rtmp://h/app"); err != nil {
		t.Fatalf("tcUrl: %v", err)
	}
	if l.tcURL != "rtmp://h/app" {
		t.Errorf("tcURL = %q", l.tcURL)
	}

	if err := l.setOption("buffer", "5000"); err != nil {
		t.Fatalf("buffer: %v", err)
	}
	if l.bufferMS != 5000 {
		t.Errorf("bufferMS = %d", l.bufferMS)
	}

	if err := l.setOption("live", "true"); err != nil {
		t.Fatalf("live: %v", err)
	}
	if !l.live {
		t.Error("live should be set")
	}
}

func TestSetOptionRejected(t *testing.T) {
	l := newLink()

	if err := l.setOption("nosuchkey", "v"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("unknown key: got %v", err)
	}
	if err := l.setOption("buffer", "abc"); !errors.Is(err, ErrInvalidOptionValue) {
		t.Errorf("bad int: got %v", err)
	}
	if err := l.setOption("live", "maybe"); !errors.Is(err, ErrInvalidOptionValue) {
		t.Errorf("bad bool: got %v", err)
	}

	// Failed calls leave previously applied options intact
	if l.bufferMS != DefaultBufferMS {
		t.Errorf("bufferMS changed to %d after failed set", l.bufferMS)
	}
}

func TestConnExtras(t *testing.T) {
	l := newLink()

	for _, v := range []string{"S:hello", "N:1.5", "B:1", "B:0", "Z:", "bare"} {
		if err := l.setOption("conn", v); err != nil {
			t.Fatalf("conn %q: %v", v, err)
		}
	}
	if len(l.extras) != 6 {
		t.Fatalf("extras = %d, want 6", len(l.extras))
	}
	if l.extras[0] != "hello" {
		t.Errorf("extras[0] = %v", l.extras[0])
	}
	if l.extras[1] != 1.5 {
		t.Errorf("extras[1] = %v", l.extras[1])
	}
	if l.extras[2] != true || l.extras[3] != false {
		t.Errorf("bool extras = %v %v", l.extras[2], l.extras[3])
	}
	if l.extras[4] != nil {
		t.Errorf("extras[4] = %v, want nil", l.extras[4])
	}
	if l.extras[5] != "bare" {
		t.Errorf("extras[5] = %v", l.extras[5])
	}
}

func TestConnExtrasRejected(t *testing.T) {
	l := newLink()
	if err := l.setOption("conn", "N:notanumber"); !errors.Is(err, ErrInvalidOptionValue) {
		t.Errorf("bad number: got %v", err)
	}
	if err := l.setOption("conn", "B:2"); !errors.Is(err, ErrInvalidOptionValue) {
		t.Errorf("bad bool: got %v", err)
	}
	if len(l.extras) != 0 {
		t.Errorf("extras = %v after failed sets", l.extras)
	}
}

func TestEffectiveTCURL(t *testing.T) {
	l := newLink()
	l.target = Target{Scheme: "rtmp", Host: "example.com", Port: 1935, App: "app"}
	if got := l.effectiveTCURL(); got != "rtmp://example.com:1935/app" {
		t.Errorf("derived tcUrl = %q", got)
	}

	l.tcURL = "rtmp://other/app"
	if got := l.effectiveTCURL(); got != "rtmp://other/app" {
		t.Errorf("explicit tcUrl = %q", got)
	}
}
