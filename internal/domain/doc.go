// Package domain contains the core entities and value objects of the action bridge.
//
// This package is the innermost layer of the Clean Architecture. It has no
// dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only the pure translation rules between client actions and wire
// envelopes.
//
// # Entities
//
//   - [Action]: A client action addressed by a qualified "domain/type" string
//   - [Envelope]: The wire form exchanged over the ipc_message call
//   - [PendingRequest]: A round trip the bridge is still waiting on
//
// # Codec
//
// [ToEnvelope] and [FromEnvelope] are inverse to each other over the
// wire-visible fields of an action. A qualified type is split on the first
// [Separator] only, so local types may themselves contain the separator:
//
//	"classifier/rename/v2" -> domain "classifier", type "rename/v2"
//
// A qualified type without a separator has no domain and is rejected with
// [ErrMalformedActionType].
package domain
