package savegame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

// Version is the current save format version
const Version = 1

var magic = [4]byte{'T', 'T', 'S', 'V'}

// MaxPayload is the largest uncompressed payload a save may carry
const MaxPayload = 64 << 20

const (
	digestSize = 32
	headerSize = len(magic) + 1 + 1 + 4 + digestSize
)

// digestKey separates save digests from any other BLAKE3 use. ASCII,
// zero-padded to 32 bytes.
var digestKey = [32]byte{
	't', 'e', 'c', 'h', 't', 'r', 'e', 'e', '.', 's', 'a', 'v', 'e', 'g', 'a', 'm',
	'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

var (
	// ErrUnknownFormat is returned for blobs that are not saves or use a
	// newer format version
	ErrUnknownFormat = errors.New("savegame: unknown format")

	// ErrChecksum is returned when the payload does not match its digest
	ErrChecksum = errors.New("savegame: checksum mismatch")
)

// Header describes a blob without decoding its payload
type Header struct {
	Version     uint8
	Compression Compression
	Size        int // uncompressed payload size
	Digest      [digestSize]byte
}

func digest(data []byte) [digestSize]byte {
	h, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("savegame: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write(data)
	var out [digestSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Encode serializes g. When compression does not shrink the payload it is
// stored uncompressed and the header says so.
func Encode(g *Game, c Compression) ([]byte, error) {
	payload, err := marshal(g)
	if err != nil {
		return nil, fmt.Errorf("savegame: encoding: %w", err)
	}
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("savegame: payload of %d bytes is too large", len(payload))
	}

	body, err := compress(payload, c)
	if errors.Is(err, errIncompressible) {
		body, c = payload, CompressionNone
	} else if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(body))
	buf.Write(magic[:])
	buf.WriteByte(Version)
	buf.WriteByte(byte(c))
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(payload)))
	buf.Write(size[:])
	d := digest(payload)
	buf.Write(d[:])
	buf.Write(body)
	return buf.Bytes(), nil
}

// ReadHeader parses the header of a blob. Unknown versions, unknown
// compressions and sizes above MaxPayload are ErrUnknownFormat.
func ReadHeader(blob []byte) (Header, error) {
	if len(blob) < headerSize || !bytes.Equal(blob[:len(magic)], magic[:]) {
		return Header{}, fmt.Errorf("%w: missing save header", ErrUnknownFormat)
	}
	h := Header{
		Version:     blob[4],
		Compression: Compression(blob[5]),
		Size:        int(binary.BigEndian.Uint32(blob[6:10])),
	}
	copy(h.Digest[:], blob[10:headerSize])
	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: version %d", ErrUnknownFormat, h.Version)
	}
	if !h.Compression.known() {
		return Header{}, fmt.Errorf("%w: compression %s", ErrUnknownFormat, h.Compression)
	}
	if h.Size > MaxPayload {
		return Header{}, fmt.Errorf("%w: payload of %d bytes", ErrUnknownFormat, h.Size)
	}
	return h, nil
}

// Decode verifies and deserializes a blob
func Decode(blob []byte) (*Game, error) {
	h, err := ReadHeader(blob)
	if err != nil {
		return nil, err
	}
	payload, err := decompress(blob[headerSize:], h.Compression, h.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChecksum, err)
	}
	if digest(payload) != h.Digest {
		return nil, ErrChecksum
	}

	var g Game
	if err := unmarshal(payload, &g); err != nil {
		return nil, fmt.Errorf("savegame: decoding: %w", err)
	}
	return &g, nil
}
