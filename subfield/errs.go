package subfield

import "errors"

var (
	// ErrConfig wraps construction-time configuration errors. It is
	// never produced mid-parse.
	ErrConfig = errors.New("bad subfield config")

	// ErrLossyKeyCase reports that joined content is valid but key case
	// was destroyed by lowercasing, so the original field cannot be
	// reconstructed exactly.
	ErrLossyKeyCase = errors.New("lowercased keys cannot round-trip")

	// ErrReconstruct reports pairs that cannot be turned back into
	// field content.
	ErrReconstruct = errors.New("cannot reconstruct field")
)
