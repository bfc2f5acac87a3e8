// Package savegame encodes game state into self-checking save blobs.
//
// A blob is a fixed header followed by a deterministic CBOR payload,
// optionally compressed:
//
//	magic "TTSV" | version (1) | compression (1) | size (4, big endian) |
//	BLAKE3 keyed digest of the uncompressed payload (32) | payload
//
// Equal states always encode to equal bytes.
package savegame

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/napolitain/techtree/internal/ledger"
)

// encMode uses Core Deterministic Encoding: sorted map keys, smallest
// integer encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode ignores unknown fields so older binaries read newer saves
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("savegame: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("savegame: CBOR decoder initialization failed: " + err.Error())
	}
}

// Realm is the saved state of one realm
type Realm struct {
	Name           string          `cbor:"name"`
	ResearchPoints int             `cbor:"research_points"`
	RNG            []byte          `cbor:"rng,omitempty"` // marshalled PCG state
	Ledger         ledger.Snapshot `cbor:"ledger"`
}

// Game is the saved state of a whole session
type Game struct {
	Turn     int     `cbor:"turn"`
	MaxTurns int     `cbor:"max_turns"`
	Seed     uint64  `cbor:"seed"`
	Realms   []Realm `cbor:"realms"`
}

func marshal(g *Game) ([]byte, error) {
	return encMode.Marshal(g)
}

func unmarshal(data []byte, g *Game) error {
	return decMode.Unmarshal(data, g)
}
