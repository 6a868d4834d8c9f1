package worldgen

import "github.com/rogueforge/simcore/pkg/simerr"

// Sentinel errors per spec.md §7's error taxonomy (kinds, not type names),
// shared with the rest of the simulation core via pkg/simerr.
var (
	ErrInvalidArgument     = simerr.ErrInvalidArgument
	ErrResourceAllocFailed = simerr.ErrResourceAllocFailed
)
