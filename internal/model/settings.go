package model

import "time"

// Settings are the user settings that can be set with a settings file.
// Zero values mean unset.
type Settings struct {
	// DataFile is the tasks JSON file path.
	DataFile string
	// AckDelay is the wait used instead of a key press when keys can't be read.
	AckDelay time.Duration
	// PageSize is the number of visible menu choices.
	PageSize int
	NoColor  bool
}
