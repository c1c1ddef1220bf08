package belt

import (
	"fmt"
	"time"

	"github.com/Faultbox/beltline/internal/geometry"
	"github.com/Faultbox/beltline/internal/path"
	"github.com/Faultbox/beltline/internal/validation"
)

// Phase is the controller's rebuild state.
type Phase uint8

const (
	// Idle means nothing has been assembled yet.
	Idle Phase = iota
	// Assembling means a rebuild started and has not committed, either
	// because it is running or because it waits for the verdict to settle.
	Assembling
	// Rendered means the last rebuild committed new geometry.
	Rendered
	// Blocked means the last rebuild was rejected as Invalid. The previous
	// geometry is retained.
	Blocked
)

var phaseNames = [...]string{"idle", "assembling", "rendered", "blocked"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Outcome classifies one rebuild attempt.
type Outcome uint8

const (
	// OutcomeCommitted replaced the geometry.
	OutcomeCommitted Outcome = iota
	// OutcomeBlocked kept the previous geometry because the verdict was Invalid.
	OutcomeBlocked
	// OutcomeDeferred postponed the commit until the verdict settles.
	OutcomeDeferred
	// OutcomeSkipped had fewer than two active anchors to work with.
	OutcomeSkipped
)

var outcomeNames = [...]string{"committed", "blocked", "deferred", "skipped"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Snapshot is one committed rebuild. Configuration, Path and Mesh always come
// from the same rebuild; only Verdict and Stable may be newer when a later
// rebuild was blocked. Configuration holds copies of the anchors as they were
// at commit time.
type Snapshot struct {
	Configuration path.Configuration
	Path          path.Path
	Mesh          *geometry.Mesh
	Verdict       validation.Verdict
	Stable        bool
	// Generation counts committed rebuilds, starting at 1.
	Generation uint64
}

// Empty reports whether nothing has been committed yet.
func (s Snapshot) Empty() bool {
	return s.Generation == 0
}

// Sink receives the geometry to display after every rebuild that reached the
// validator.
type Sink interface {
	Present(snap Snapshot, hint validation.Color)
}

// Observer is told about every rebuild attempt.
type Observer interface {
	RebuildFinished(outcome Outcome, verdict validation.Verdict, took time.Duration, snap Snapshot)
}
