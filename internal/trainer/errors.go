package trainer

import "errors"

// Load-time failure classes. The evaluator and the crafter never fail; every
// fault originates while reading arguments or files and aborts the run.
var (
	// ErrBadArguments reports malformed CLI tokens or counts out of range.
	ErrBadArguments = errors.New("bad arguments")

	// ErrFileSize reports a file whose size disagrees with its header.
	ErrFileSize = errors.New("file size mismatch")

	// ErrBadFormat reports header counts below the minimum constraints.
	ErrBadFormat = errors.New("bad file format")

	// ErrWinnerMissing reports a designated winner name that matches no
	// candidate in the event.
	ErrWinnerMissing = errors.New("winner not found in event")

	// ErrWinnerAmbiguous reports a winner name matching several candidates.
	ErrWinnerAmbiguous = errors.New("winner name is ambiguous")

	// ErrIncompatibleEvents reports two events whose matrix dimensions imply
	// different weight counts.
	ErrIncompatibleEvents = errors.New("events require different weight counts")

	// ErrWeightsSizeMismatch reports a weights file whose length is not the
	// required count of 16-bit weights.
	ErrWeightsSizeMismatch = errors.New("weights file size mismatch")
)
