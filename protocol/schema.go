package protocol

import (
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// messageTags enumerates every discriminant byte used anywhere in the wire
// codec: top-level Request/Event tags plus every nested sub-union tag.
// Adding, removing, or renumbering a variant changes this set and therefore
// SchemaHash, which the transport handshake uses to refuse to pair a server
// and client built from different protocol revisions (spec.md §4.D).
var messageTags = []uint64{
	reqSurface, reqCursorImage, reqToplevel, reqPopup, reqData, reqClientDisconnected, reqCapabilities,
	evtClientConnect, evtOutput, evtPointerFrame, evtKeyboard, evtToplevel, evtPopup, evtData, evtSurface,
	surfaceCommitTag, surfaceDestroyTag,
	cursorHidden, cursorNamed, cursorSurface,
	toplevelSetMaximized, toplevelUnsetMaximized, toplevelSetFullscreen, toplevelUnsetFullscreen,
	toplevelSetMinimized, toplevelMove, toplevelResize, toplevelDestroyed, toplevelAckConfigure,
	popupDestroyed, popupAckConfigure,
	outputAdded, outputRemoved, outputChanged,
	toplevelConfigure, toplevelClose,
	popupConfigure, popupDone,
	surfaceOutputsChangedTag,
	sourceRequestSend, sourceRequestCancelled,
	sourceEventOffer, sourceEventAccepted, sourceEventCancelled,
	destRequestOffer, destRequestCancelled,
	destEventAccept, destEventReceive,
	dataRequestSource, dataRequestDestination, dataRequestTransfer,
	dataEventSource, dataEventDestination, dataEventTransfer,
	pointerEnter, pointerLeave, pointerMotion, pointerPress, pointerRelease, pointerAxis,
	keyboardEnter, keyboardLeave, keyboardKey, keyboardRepeatInfo, keyboardKeymap, keyboardModifiers,
}

// SchemaHash derives a stable fingerprint of the wire protocol's shape by
// varint-encoding the sorted set of every tag byte the codec recognizes.
// It is not a cryptographic digest; it exists only to catch a server and
// client compiled from mismatched protocol revisions during the transport
// handshake (spec.md §4.D).
func SchemaHash() uint64 {
	sorted := make([]uint64, len(messageTags))
	copy(sorted, messageTags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var buf []byte
	for _, tag := range sorted {
		buf = protowire.AppendVarint(buf, tag)
	}

	var hash uint64 = 1469598103934665603 // FNV-1a offset basis
	for _, b := range buf {
		hash ^= uint64(b)
		hash *= 1099511628211 // FNV-1a prime
	}
	return hash
}

// VerifySchemaHash reports whether a peer's advertised hash (read off the
// handshake frame as a plain u64, spec.md §4.D) matches this build's
// SchemaHash.
func VerifySchemaHash(peer uint64) bool {
	return peer == SchemaHash()
}
