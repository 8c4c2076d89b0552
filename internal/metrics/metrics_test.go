package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/chatline/internal/models"
	"github.com/tOgg1/chatline/internal/timeline"
)

type nullSurface struct{}

func (nullSurface) ContentExtent() int                   { return 0 }
func (nullSurface) VisibleOffset() int                   { return 0 }
func (nullSurface) ScrollTo(int, timeline.ScrollOptions) {}
func (nullSurface) IsNearTop() bool                      { return false }
func (nullSurface) IsAtBottom() bool                     { return true }

func TestCollectorCountsStoreChanges(t *testing.T) {
	c := New()
	c.StoreChanged(models.OpAppendNew, 1)
	c.StoreChanged(models.OpAppendNew, 2)
	c.StoreChanged(models.OpMarkAllRead, 0)

	require.Equal(t, 2.0, testutil.ToFloat64(c.storeChanges.WithLabelValues("append_new")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.storeChanges.WithLabelValues("mark_all_read")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.badge))
}

func TestCollectorCountsHistoryLoads(t *testing.T) {
	c := New()
	c.HistoryLoad(timeline.LoadStarted)
	c.HistoryLoad(timeline.LoadTimeout)
	c.HistoryLoad(timeline.LoadStarted)

	require.Equal(t, 2.0, testutil.ToFloat64(c.historyLoads.WithLabelValues("started")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.historyLoads.WithLabelValues("timeout")))
	require.Equal(t, 2, testutil.CollectAndCount(c.historyLoads))
}

func TestCollectorWiredIntoWidget(t *testing.T) {
	c := New()
	w, err := timeline.NewWidget(timeline.Options{Surface: nullSurface{}, Recorder: c})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Shutdown()

	w.AddResponseMessage("hello", "r-1", time.Time{})
	w.AddResponseMessage("again", "r-2", time.Time{})

	require.Equal(t, 2.0, testutil.ToFloat64(c.storeChanges.WithLabelValues("append_new")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.badge))

	w.Open()
	require.Equal(t, 0.0, testutil.ToFloat64(c.badge))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.StoreChanged(models.OpDropAll, 0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, string(body), `chatline_store_changes_total{op="drop_all"} 1`)
	require.Contains(t, string(body), "chatline_badge_count 0")
}
