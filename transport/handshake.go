package transport

import (
	"net"

	"github.com/wprsproj/wprs/protocol"
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

// handshakeMagic guards against accidentally speaking this protocol over a
// socket that happens to carry unrelated traffic.
const handshakeMagic = 0x77707273 // "wprs" ascii-ish, read as one big-endian u32

// performHandshake exchanges a magic number and a schema hash with the peer
// and fails closed if either side doesn't match (spec.md §4.D: a server and
// client built from different protocol revisions must refuse to pair).
func performHandshake(conn net.Conn) error {
	w := wire.NewWriter(conn)
	r := wire.NewReader(conn)

	if err := w.WriteU32(handshakeMagic); err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: writing handshake magic")
	}
	if err := w.WriteU32(uint32(protocol.SchemaHash() >> 32)); err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: writing handshake schema hash")
	}
	if err := w.WriteU32(uint32(protocol.SchemaHash())); err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: writing handshake schema hash")
	}

	peerMagic, err := r.U32()
	if err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: reading handshake magic")
	}
	if peerMagic != handshakeMagic {
		return wprserr.Wrap(wprserr.BadData, "transport: peer handshake magic mismatch: got %#x", peerMagic)
	}
	hi, err := r.U32()
	if err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: reading handshake schema hash")
	}
	lo, err := r.U32()
	if err != nil {
		return wprserr.Wrap(wprserr.Io, "transport: reading handshake schema hash")
	}
	peerHash := uint64(hi)<<32 | uint64(lo)
	if !protocol.VerifySchemaHash(peerHash) {
		return wprserr.Wrap(wprserr.BadData, "transport: peer schema hash %#x does not match ours %#x", peerHash, protocol.SchemaHash())
	}
	return nil
}
