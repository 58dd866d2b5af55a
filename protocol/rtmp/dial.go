// If you are AI: This file dials the server connection for the engine.
// Supports direct TCP, SOCKS4 proxying, and WebSocket tunneling.

package rtmp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrDial         = errors.New("unable to reach server")
	ErrSOCKSRefused = errors.New("SOCKS proxy refused connection")
)

// netConn is the subset of net.Conn the engine needs beyond ReadWriteCloser.
type netConn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// dial opens the transport connection for the target, honoring the socks
// proxy option and the ws/wss tunnel schemes.
func dial(target Target, socks string, timeout time.Duration) (netConn, error) {
	if target.Scheme == "ws" || target.Scheme == "wss" {
		return dialWebSocket(target, timeout)
	}

	addr := net.JoinHostPort(target.Host, strconv.Itoa(target.Port))
	if socks != "" {
		return dialSOCKS4(socks, target, timeout)
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}
	return conn.(*net.TCPConn), nil
}

// dialSOCKS4 connects through a SOCKS4 proxy with a minimal CONNECT
// exchange: 8-byte request, 8-byte reply, code 0x5a on success.
func dialSOCKS4(proxy string, target Target, timeout time.Duration) (netConn, error) {
	if !strings.Contains(proxy, ":") {
		proxy += ":1080"
	}
	conn, err := net.DialTimeout("tcp", proxy, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}

	ips, err := net.LookupIP(target.Host)
	if err != nil || len(ips) == 0 {
		conn.Close()
		return nil, fmt.Errorf("%w: resolve %s", ErrDial, target.Host)
	}
	var ip4 net.IP
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			ip4 = v4
			break
		}
	}
	if ip4 == nil {
		conn.Close()
		return nil, fmt.Errorf("%w: no IPv4 address for %s", ErrDial, target.Host)
	}

	req := make([]byte, 9)
	req[0] = 4 // SOCKS4
	req[1] = 1 // CONNECT
	binary.BigEndian.PutUint16(req[2:4], uint16(target.Port))
	copy(req[4:8], ip4)
	req[8] = 0 // empty user id
	if _, err := conn.Write(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}

	reply := make([]byte, 8)
	if _, err := io.ReadFull(conn, reply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}
	if reply[1] != 0x5a {
		conn.Close()
		return nil, ErrSOCKSRefused
	}

	return conn.(*net.TCPConn), nil
}

// dialWebSocket opens a WebSocket connection and wraps it so the chunked
// RTMP byte stream rides over binary messages.
func dialWebSocket(target Target, timeout time.Duration) (netConn, error) {
	addr := fmt.Sprintf("%s://%s:%d/", target.Scheme, target.Host, target.Port)
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	ws, _, err := dialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDial, err)
	}
	return &wsConn{ws: ws}, nil
}

// wsConn adapts a websocket connection to the byte stream the chunk
// layer expects. Reads drain one binary message at a time.
type wsConn struct {
	ws      *websocket.Conn
	pending []byte
}

// Read returns buffered bytes from the current message, pulling the next
// binary message when the buffer is empty.
func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return 0, err
		}
		c.pending = data
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write sends the bytes as one binary message.
func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetReadDeadline delegates to the underlying websocket connection.
func (c *wsConn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// Close closes the underlying websocket connection.
func (c *wsConn) Close() error {
	return c.ws.Close()
}
