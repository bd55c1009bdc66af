package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Chapter is an alias to types.Chapter.
// Re-exporting from internal/types to maintain public API.
type Chapter = types.Chapter
