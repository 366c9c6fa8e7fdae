package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Refresh("success")
	r.Refresh("success")
	r.Refresh("failure")
	r.Queued()
	r.Logout()
	r.CartAdd("dropped")
	r.CartRollback()
	r.Checkout("placed")

	if got := testutil.ToFloat64(r.Refreshes.WithLabelValues("success")); got != 2 {
		t.Errorf("refreshes{success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.Refreshes.WithLabelValues("failure")); got != 1 {
		t.Errorf("refreshes{failure} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.QueuedRetries); got != 1 {
		t.Errorf("queued = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CartAdds.WithLabelValues("dropped")); got != 1 {
		t.Errorf("cart adds{dropped} = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if got := testutil.ToFloat64(r.Checkouts.WithLabelValues("placed")); got != 1 {
		t.Errorf("checkouts{placed} = %v, want 1", got)
	}
	if len(families) != 6 {
		t.Errorf("registered families = %d, want 6", len(families))
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder

	r.Refresh("success")
	r.Queued()
	r.Logout()
	r.CartAdd("merged")
	r.CartRollback()
	r.Checkout("failed")
}
