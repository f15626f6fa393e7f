// Package wire implements the discovery datagram codec and the
// newline-framed text protocol spoken on game connections.
//
// The discovery offer is a fixed 39-byte datagram:
//
//	[4-byte magic cookie][1-byte message type][32-byte padded name][2-byte BE port]
//
// Game connections exchange newline-terminated UTF-8 lines. The first line a
// client sends is its display name; everything after that is round traffic.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

const (
	// MagicCookie identifies a trivia offer datagram.
	MagicCookie uint32 = 0xabcddcba
	// OfferType is the message-type constant for an offer.
	OfferType byte = 0x02

	serverNameLen = 32
	offerLen      = 4 + 1 + serverNameLen + 2
)

// Protocol markers shared by server and clients. A round broadcast carries
// QuestionMarker on the line that asks for an answer; a line containing
// GameOverMarker ends the client's game loop.
const (
	QuestionMarker = "True or False:"
	GameOverMarker = "Game over!"
)

var (
	// ErrMalformedOffer indicates a datagram that is not a valid offer.
	ErrMalformedOffer = errors.New("malformed offer datagram")
	// ErrDisconnected indicates the peer closed the connection before
	// sending any bytes of the next frame.
	ErrDisconnected = errors.New("peer disconnected")
)

// Offer is a decoded discovery datagram.
type Offer struct {
	ServerName string
	TCPPort    uint16
}

// EncodeOffer builds the offer datagram for the given server identity.
// Names longer than 32 bytes do not fit the fixed layout and are rejected.
func EncodeOffer(serverName string, tcpPort uint16) ([]byte, error) {
	if len(serverName) > serverNameLen {
		return nil, fmt.Errorf("server name %q exceeds %d bytes", serverName, serverNameLen)
	}

	buf := make([]byte, offerLen)
	binary.BigEndian.PutUint32(buf[:4], MagicCookie)
	buf[4] = OfferType
	copy(buf[5:5+serverNameLen], serverName)
	for i := 5 + len(serverName); i < 5+serverNameLen; i++ {
		buf[i] = ' '
	}
	binary.BigEndian.PutUint16(buf[offerLen-2:], tcpPort)
	return buf, nil
}

// DecodeOffer validates and decodes an offer datagram. Length, magic cookie,
// and message type are all checked before the port field is trusted; any
// mismatch yields an error wrapping ErrMalformedOffer.
func DecodeOffer(data []byte) (Offer, error) {
	if len(data) != offerLen {
		return Offer{}, fmt.Errorf("%w: length %d, want %d", ErrMalformedOffer, len(data), offerLen)
	}
	if cookie := binary.BigEndian.Uint32(data[:4]); cookie != MagicCookie {
		return Offer{}, fmt.Errorf("%w: magic cookie 0x%08x", ErrMalformedOffer, cookie)
	}
	if data[4] != OfferType {
		return Offer{}, fmt.Errorf("%w: message type 0x%02x", ErrMalformedOffer, data[4])
	}

	name := strings.TrimRight(string(data[5:5+serverNameLen]), " \x00")
	return Offer{
		ServerName: name,
		TCPPort:    binary.BigEndian.Uint16(data[offerLen-2:]),
	}, nil
}

// ReadLine reads one newline- or EOF-terminated frame, stripped of its line
// ending. A clean close before any byte of the frame arrives is reported as
// ErrDisconnected; a frame cut short by EOF is still returned. Frames longer
// than maxBytes are rejected, but always consumed through their terminator
// so the next read starts at a frame boundary.
func ReadLine(r *bufio.Reader, maxBytes int) (string, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			if maxBytes > 0 && len(line) > maxBytes {
				return "", discardFrame(r, maxBytes)
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return "", ErrDisconnected
			}
			break
		}
		return "", fmt.Errorf("read frame: %w", err)
	}
	if maxBytes > 0 && len(line) > maxBytes {
		return "", fmt.Errorf("frame exceeds %d bytes", maxBytes)
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

// discardFrame consumes the remainder of an oversize frame.
func discardFrame(r *bufio.Reader, maxBytes int) error {
	for {
		_, err := r.ReadSlice('\n')
		if err == nil || errors.Is(err, io.EOF) {
			return fmt.Errorf("frame exceeds %d bytes", maxBytes)
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return fmt.Errorf("read frame: %w", err)
		}
	}
}

// WriteLine sends one newline-terminated frame.
func WriteLine(conn net.Conn, msg string) error {
	if _, err := conn.Write([]byte(msg + "\n")); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
