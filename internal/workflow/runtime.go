package workflow

import (
	"log/slog"

	"github.com/mwhitfield/bursar/internal/backend"
	"github.com/mwhitfield/bursar/internal/extraction"
	"github.com/mwhitfield/bursar/internal/sections"
)

// Runtime bundles the collaborators the review steps call into. It is
// assembled by composition code from Infrastructure and domain systems and
// threaded through the step constructors; steps hold no global state.
type Runtime struct {
	Sections   sections.System
	Extraction extraction.System
	Backend    backend.System
	Logger     *slog.Logger
}
