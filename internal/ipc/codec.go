package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxMessage bounds a single framed message. Anything larger is a corrupt
// stream, not a real request.
const MaxMessage = 1 << 20

// SocketPath returns the per-user control socket path.
func SocketPath() string {
	user := os.Getenv("USER")
	if user == "" {
		user = fmt.Sprintf("%d", os.Getuid())
	}
	return fmt.Sprintf("/tmp/cwm-%s.sock", user)
}

// WriteMessage frames v as a 4-byte little-endian length followed by its
// JSON encoding.
func WriteMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadMessage reads one framed message into v.
func ReadMessage(r io.Reader, v any) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	length := binary.LittleEndian.Uint32(header[:])
	if length > MaxMessage {
		return fmt.Errorf("message length %d exceeds limit", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
