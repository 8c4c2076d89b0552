package history

import (
	"context"
	"fmt"
	"time"

	"github.com/tOgg1/chatline/internal/models"
)

var seedLines = []struct {
	sender models.Sender
	body   string
}{
	{models.SenderClient, "Hi, is anyone around?"},
	{models.SenderResponse, "Hello! How can I help you today?"},
	{models.SenderClient, "My order hasn't shipped yet."},
	{models.SenderResponse, "Sorry about that. Could you share the **order number**?"},
	{models.SenderClient, "It's 48213."},
	{models.SenderResponse, "Thanks. It left the warehouse this morning."},
	{models.SenderResponse, "You should get a tracking email within the hour."},
}

// burstLength is how many seeded messages share one conversation burst.
const burstLength = 7

// Seed archives count generated messages ending shortly before now. Every
// burstLength messages the clock jumps back by more than an hour, so the
// seeded history shows several distinct bursts. Every fifth burst ends with
// a link snippet.
func (a *Archive) Seed(ctx context.Context, count int, now time.Time) ([]models.Message, error) {
	if count <= 0 {
		return nil, nil
	}
	if now.IsZero() {
		now = time.Now()
	}

	msgs := make([]models.Message, count)
	ts := now.Add(-time.Minute)
	for i := count - 1; i >= 0; i-- {
		pos := i % burstLength
		id := fmt.Sprintf("archived-%04d", i)
		if pos == burstLength-1 && (i/burstLength)%5 == 4 {
			msgs[i] = models.NewLinkSnippet(models.LinkSnippet{
				Link:  fmt.Sprintf("https://example.com/orders/%d", i),
				Title: "Order status",
			}, id, ts)
		} else {
			line := seedLines[pos]
			msgs[i] = models.NewText(line.sender, line.body, id, ts)
		}
		if pos == 0 {
			ts = ts.Add(-2 * time.Hour)
		} else {
			ts = ts.Add(-3 * time.Minute)
		}
	}

	if err := a.Insert(ctx, msgs...); err != nil {
		return nil, fmt.Errorf("failed to seed archive: %w", err)
	}
	return msgs, nil
}
