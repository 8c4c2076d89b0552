package timeline

import (
	"time"

	"github.com/tOgg1/chatline/internal/models"
)

// sequenceGap is the largest gap that still joins two messages into one burst.
const sequenceGap = time.Hour

// DisplayHints tell a renderer how a message sits within its burst.
type DisplayHints struct {
	ShowTimestamp  bool
	StartsSequence bool
	EndsSequence   bool
}

// Classify derives display hints for messages[index] from its neighbours.
// An index outside the slice yields hints with every flag set.
func Classify(messages []models.Message, index int) DisplayHints {
	hints := DisplayHints{ShowTimestamp: true, StartsSequence: true, EndsSequence: true}
	if index < 0 || index >= len(messages) {
		return hints
	}
	cur := messages[index]

	if index > 0 {
		prev := messages[index-1]
		if withinGap(prev, cur) {
			hints.ShowTimestamp = false
			if prev.Sender == cur.Sender {
				hints.StartsSequence = false
			}
		}
	}
	if index+1 < len(messages) {
		next := messages[index+1]
		if next.Sender == cur.Sender && withinGap(cur, next) {
			hints.EndsSequence = false
		}
	}
	return hints
}

// ClassifyAll returns hints for every message in order.
func ClassifyAll(messages []models.Message) []DisplayHints {
	out := make([]DisplayHints, len(messages))
	for i := range messages {
		out[i] = Classify(messages, i)
	}
	return out
}

func withinGap(a, b models.Message) bool {
	gap := b.Timestamp.Sub(a.Timestamp)
	if gap < 0 {
		gap = -gap
	}
	return gap < sequenceGap
}
