package types

import "errors"

// Error kinds reported by the BEE packages. Every failure wraps one of
// these sentinels so callers can classify with errors.Is.
var (
	// ErrFormat signals a bad magic, version, reserved area or size
	// during binary decode; it is also the expected wrong-key signal
	// when a header is decrypted with the wrong software key.
	ErrFormat = errors.New("invalid format")

	// ErrRange signals address arithmetic overflow or a block that
	// extends past its FAC region.
	ErrRange = errors.New("address out of range")

	// ErrKey signals key material of the wrong length.
	ErrKey = errors.New("invalid key")

	// ErrMode signals an unsupported cipher mode.
	ErrMode = errors.New("unsupported encryption mode")

	// ErrOverlap signals two FAC regions colliding across engines.
	ErrOverlap = errors.New("overlapping FAC regions")

	// ErrConfig signals an inconsistent build configuration.
	ErrConfig = errors.New("invalid configuration")
)
