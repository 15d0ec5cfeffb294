package sim

import (
	"fmt"
	"strings"

	"github.com/asterolab/romanprep/internal/plan"
)

// Filename returns the Roman archive-style product filename for one exposure:
// r{program}{plan:02}{pass:03}{segment:03}{observation:03}{visit:03}_{exposure:04}_wfi{sca:02}_{band}_{suffix}.asdf
func Filename(program int, id plan.ExposureID, sca int, bandpass, suffix string) string {
	return fmt.Sprintf("r%d%02d%03d%03d%03d%03d_%04d_wfi%02d_%s_%s.asdf",
		program, id.Plan, id.Pass, id.Segment, id.Observation, id.Visit,
		id.Exposure, sca, strings.ToLower(bandpass), suffix)
}
