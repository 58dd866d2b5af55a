// If you are AI: This file computes the SWF verification hash for a player URL.
// Servers that enforce SWF verification compare against this digest and size.

package rtmp

import (
	"bytes"
	"compress/zlib"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrSWFFetch = errors.New("unable to fetch SWF player")

// HashSWF downloads the SWF player at url, decompresses it if needed, and
// returns the SHA-256 digest of the decompressed file along with its size.
func HashSWF(url string) ([]byte, int, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSWFFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: status %s", ErrSWFFetch, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSWFFetch, err)
	}

	data, err = decompressSWF(data)
	if err != nil {
		return nil, 0, err
	}

	sum := sha256.Sum256(data)
	return sum[:], len(data), nil
}

// decompressSWF inflates a CWS (zlib-compressed) SWF body. The first
// eight header bytes stay uncompressed; FWS files pass through as-is.
func decompressSWF(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: truncated SWF", ErrSWFFetch)
	}
	if data[0] != 'C' {
		return data, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[8:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSWFFetch, err)
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSWFFetch, err)
	}

	out := make([]byte, 0, 8+len(body))
	out = append(out, 'F', 'W', 'S')
	out = append(out, data[3:8]...)
	out = append(out, body...)
	return out, nil
}
