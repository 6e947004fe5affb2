package protocol

import "github.com/pkg/errors"

var (
	ErrInvalidPayload    = errors.New("invalid payload size (valid range: 0-31)")
	ErrInvalidCTELength  = errors.New("invalid CTE length (valid values: 0 or 2-20)")
	ErrInvalidChannel    = errors.New("invalid channel (valid range: 0-39)")
	ErrShortBuffer       = errors.New("buffer too small for PDU")
	ErrNoMatch           = errors.New("PDU does not match filter")
	ErrCRC               = errors.New("CRC check failed")
	ErrTimeout           = errors.New("operation timed out")
	ErrBusy              = errors.New("radio session already in flight")
	ErrNotInitialised    = errors.New("radio not initialised")
	ErrAttemptsExhausted = errors.New("receive attempts exhausted")
)
