package fow

import "errors"

var (
	// ErrNotSized is returned by operations that need world bounds before
	// SetSize has been called.
	ErrNotSized = errors.New("fow: world size not set")

	// ErrAlreadySized is returned when SetSize is called while viewers,
	// occluders or tri-soups exist.
	ErrAlreadySized = errors.New("fow: world already populated")

	// ErrTeamOutOfRange is returned for team indices outside [0, teams).
	ErrTeamOutOfRange = errors.New("fow: team out of range")

	// ErrInvalidLocation is returned by safety checks for locations outside
	// the world bounds.
	ErrInvalidLocation = errors.New("fow: location outside world bounds")

	// ErrInvalidRadius is returned for non-positive radii, and by safety
	// checks for near-zero radii.
	ErrInvalidRadius = errors.New("fow: invalid radius")

	// ErrInvalidHeightGroup is returned for height groups outside
	// [0, MaxHeightGroup].
	ErrInvalidHeightGroup = errors.New("fow: height group out of range")
)
