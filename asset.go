package texcache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Scheme is the URI prefix owned by this loader. Request rejects any URI
// that does not start with it, so texcache can participate in a chain of
// loaders each recognizing their own scheme.
const Scheme = "asset://"

// AssetKind discriminates the two shapes an AssetID can take.
type AssetKind uint8

const (
	// AssetIndex is a slot index plus a generation that increments each
	// time the slot is reused by the host asset system.
	AssetIndex AssetKind = iota

	// AssetUUID is a 128-bit universally unique identifier.
	AssetUUID
)

// AssetID is an opaque identifier for an image asset owned by the host
// application. texcache never interprets it beyond round-tripping it
// through its URI key form. AssetID is comparable and usable as a map key.
type AssetID struct {
	kind       AssetKind
	index      uint32
	generation uint32
	uuid       uuid.UUID
}

// IndexID creates an AssetID from a slot index and generation.
func IndexID(index, generation uint32) AssetID {
	return AssetID{kind: AssetIndex, index: index, generation: generation}
}

// UUIDID creates an AssetID from a UUID.
func UUIDID(id uuid.UUID) AssetID {
	return AssetID{kind: AssetUUID, uuid: id}
}

// Kind reports which shape the identifier has.
func (id AssetID) Kind() AssetKind { return id.kind }

// Index returns the slot index and generation. Only meaningful for
// AssetIndex identifiers; zero otherwise.
func (id AssetID) Index() (index, generation uint32) {
	return id.index, id.generation
}

// UUID returns the UUID. Only meaningful for AssetUUID identifiers;
// the zero UUID otherwise.
func (id AssetID) UUID() uuid.UUID { return id.uuid }

// Key returns the canonical URI for the identifier. The index shape packs
// generation into the high 32 bits and index into the low 32 bits of a
// uint64 and formats it in decimal; the UUID shape uses the canonical
// textual form. ParseKey inverts Key exactly.
func (id AssetID) Key() string {
	switch id.kind {
	case AssetUUID:
		return Scheme + "uuid/" + id.uuid.String()
	default:
		packed := uint64(id.generation)<<32 | uint64(id.index)
		return Scheme + "index/" + strconv.FormatUint(packed, 10)
	}
}

// String returns the canonical URI; AssetID prints as its key.
func (id AssetID) String() string { return id.Key() }

// ParseKey decodes a canonical asset URI back into an AssetID.
//
// Recognized forms:
//
//	asset://index/<u64 decimal>
//	asset://uuid/<canonical uuid>
//
// Any other scheme, path shape, or unparsable payload returns
// ErrNotSupported. Parse failures are deliberately not fatal: a foreign
// URI is a routine occurrence when several loaders are chained.
func ParseKey(key string) (AssetID, error) {
	rest, ok := strings.CutPrefix(key, Scheme)
	if !ok {
		return AssetID{}, fmt.Errorf("%w: %q lacks %q prefix", ErrNotSupported, key, Scheme)
	}
	if payload, ok := strings.CutPrefix(rest, "index/"); ok {
		packed, err := strconv.ParseUint(payload, 10, 64)
		if err != nil {
			return AssetID{}, fmt.Errorf("%w: bad index payload %q", ErrNotSupported, payload)
		}
		// Explicit mask rather than shift-truncation: the low half must
		// be exactly the bottom 32 bits on every platform.
		return IndexID(uint32(packed&0xFFFFFFFF), uint32(packed>>32)), nil
	}
	if payload, ok := strings.CutPrefix(rest, "uuid/"); ok {
		u, err := uuid.Parse(payload)
		if err != nil {
			return AssetID{}, fmt.Errorf("%w: bad uuid payload %q", ErrNotSupported, payload)
		}
		return UUIDID(u), nil
	}
	return AssetID{}, fmt.Errorf("%w: unrecognized key path %q", ErrNotSupported, rest)
}
