// If you are AI: This file implements the single-shot handle for one remote call.
// Resolving the handle drives the owning session's packet pump.

package session

import (
	"time"

	"rtmpcall/protocol/amf0"
)

// Call is the caller-facing handle for one outstanding remote call.
// It is resolved at most once; afterwards the cached result is returned
// without touching the connection.
type Call struct {
	sess   *Session
	txid   int
	done   bool
	result amf0.Value
}

// TransactionID returns the transaction id this handle correlates on.
func (c *Call) TransactionID() int {
	return c.txid
}

// Done reports whether the call has been resolved.
func (c *Call) Done() bool {
	return c.done
}

// Result retrieves the call's result, pumping packets until the matching
// reply arrives or the timeout elapses. A timeout is not an error: the
// handle resolves to a nil value and stays resolved, so a retry must be
// a new call. Transport failures propagate and leave the handle
// unresolved.
func (c *Call) Result(timeout time.Duration) (amf0.Value, error) {
	if c.done {
		return c.result, nil
	}

	result, _, err := c.sess.processPackets(c.txid, timeout)
	if err != nil {
		return nil, err
	}

	c.result = result
	c.done = true
	return result, nil
}
