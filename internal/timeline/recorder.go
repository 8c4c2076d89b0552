package timeline

import "github.com/tOgg1/chatline/internal/models"

// LoadOutcome classifies what happened to an older-history request.
type LoadOutcome string

const (
	LoadStarted LoadOutcome = "started"
	LoadLanded  LoadOutcome = "landed"
	LoadTimeout LoadOutcome = "timeout"
	LoadFailed  LoadOutcome = "failed"
)

// Recorder receives engine activity for metrics.
type Recorder interface {
	StoreChanged(op models.Op, badge int)
	HistoryLoad(outcome LoadOutcome)
}

type nopRecorder struct{}

func (nopRecorder) StoreChanged(models.Op, int) {}
func (nopRecorder) HistoryLoad(LoadOutcome)     {}
