package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/chatline/internal/models"
)

func TestClassifyJoinsCloseMessagesFromSameSender(t *testing.T) {
	msgs := []models.Message{
		textAt(models.SenderResponse, "a", 0),
		textAt(models.SenderResponse, "b", 10*time.Minute),
	}

	first := Classify(msgs, 0)
	require.True(t, first.ShowTimestamp)
	require.True(t, first.StartsSequence)
	require.False(t, first.EndsSequence)

	second := Classify(msgs, 1)
	require.False(t, second.StartsSequence)
	require.False(t, second.ShowTimestamp)
	require.True(t, second.EndsSequence)
}

func TestClassifySplitsOnLargeGap(t *testing.T) {
	msgs := []models.Message{
		textAt(models.SenderResponse, "a", 0),
		textAt(models.SenderResponse, "b", 90*time.Minute),
	}

	second := Classify(msgs, 1)
	require.True(t, second.StartsSequence)
	require.True(t, second.ShowTimestamp)
	require.True(t, Classify(msgs, 0).EndsSequence)
}

func TestClassifyGapBoundaryIsExclusive(t *testing.T) {
	msgs := []models.Message{
		textAt(models.SenderClient, "a", 0),
		textAt(models.SenderClient, "b", time.Hour),
		textAt(models.SenderClient, "c", time.Hour+59*time.Minute),
	}

	require.True(t, Classify(msgs, 1).StartsSequence)
	require.True(t, Classify(msgs, 1).ShowTimestamp)
	require.False(t, Classify(msgs, 2).StartsSequence)
}

func TestClassifySenderSwitchWithinGap(t *testing.T) {
	msgs := []models.Message{
		textAt(models.SenderClient, "a", 0),
		textAt(models.SenderResponse, "b", time.Minute),
	}

	hints := Classify(msgs, 1)
	require.False(t, hints.ShowTimestamp)
	require.True(t, hints.StartsSequence)
	require.True(t, Classify(msgs, 0).EndsSequence)
}

func TestClassifyOutOfOrderTimestampsUseAbsoluteGap(t *testing.T) {
	msgs := []models.Message{
		textAt(models.SenderResponse, "a", 30*time.Minute),
		textAt(models.SenderResponse, "b", 0),
	}

	require.False(t, Classify(msgs, 1).StartsSequence)
}

func TestClassifyAllAndOutOfRange(t *testing.T) {
	require.Equal(t, DisplayHints{ShowTimestamp: true, StartsSequence: true, EndsSequence: true}, Classify(nil, 3))

	msgs := []models.Message{
		textAt(models.SenderResponse, "a", 0),
		textAt(models.SenderResponse, "b", time.Minute),
		textAt(models.SenderResponse, "c", 2*time.Minute),
	}
	all := ClassifyAll(msgs)
	require.Len(t, all, 3)
	require.Equal(t, DisplayHints{}, all[1])
}
