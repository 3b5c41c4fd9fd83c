package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// The bridge speaks single frames over a unidirectional TCP stream: a
// four-byte big-endian length followed by a JSON payload. There is no
// acknowledgement in either direction.

const maxFrameSize = 1 << 20

var errFrameTooLarge = errors.New("bridge frame exceeds size limit")

func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameSize {
		return errFrameTooLarge
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return nil, errFrameTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// hostPort strips the tcp:// scheme from a configured endpoint.
func hostPort(endpoint string) (string, error) {
	addr, ok := strings.CutPrefix(endpoint, "tcp://")
	if !ok {
		return "", fmt.Errorf("unsupported bridge endpoint %q", endpoint)
	}
	return addr, nil
}
