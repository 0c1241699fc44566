package matching

import (
	"errors"

	"github.com/spigell/jobhunter/internal/synonyms"
)

// Configuration errors are surfaced to the caller with a distinct
// reason; they are never silently scored as zero.
var (
	ErrProfileNotConfigured    = errors.New("user profile not configured")
	ErrCredentialNotConfigured = errors.New("ai api key not configured")
)

var fallbackQueryList = synonyms.FallbackQueries
