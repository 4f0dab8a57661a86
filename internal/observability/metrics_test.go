package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPRequestDuration(t *testing.T) {
	t.Run("metric_is_registered", func(t *testing.T) {
		assert.NotNil(t, HTTPRequestDuration)
	})

	t.Run("histogram_has_correct_labels", func(t *testing.T) {
		HTTPRequestDuration.WithLabelValues("GET", "/campgrounds", "200").Observe(0.05)
		HTTPRequestDuration.WithLabelValues("POST", "/login", "303").Observe(0.1)
		HTTPRequestDuration.WithLabelValues("DELETE", "/campgrounds/{campgroundID}", "404").Observe(0.25)
	})

	t.Run("histogram_records_at_bucket_boundaries", func(t *testing.T) {
		buckets := []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
		labels := HTTPRequestDuration.WithLabelValues("GET", "/campgrounds/{campgroundID}", "200")
		for _, bucket := range buckets {
			labels.Observe(bucket)
		}
	})
}

func TestHTTPRequestsTotal(t *testing.T) {
	t.Run("metric_is_registered", func(t *testing.T) {
		assert.NotNil(t, HTTPRequestsTotal)
	})

	t.Run("counter_increments_per_label_set", func(t *testing.T) {
		labels := HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test", "200")
		before := testutil.ToFloat64(labels)

		labels.Inc()
		labels.Inc()

		assert.Equal(t, before+2, testutil.ToFloat64(labels))
	})

	t.Run("label_sets_are_independent", func(t *testing.T) {
		ok := HTTPRequestsTotal.WithLabelValues("GET", "/label-test", "200")
		notFound := HTTPRequestsTotal.WithLabelValues("GET", "/label-test", "404")
		before := testutil.ToFloat64(notFound)

		ok.Inc()

		assert.Equal(t, before, testutil.ToFloat64(notFound))
	})
}

func TestSessionMetrics(t *testing.T) {
	t.Run("sessions_created_counts_up", func(t *testing.T) {
		before := testutil.ToFloat64(SessionsCreatedTotal)

		SessionsCreatedTotal.Inc()

		assert.Equal(t, before+1, testutil.ToFloat64(SessionsCreatedTotal))
	})

	t.Run("session_writes_split_by_outcome", func(t *testing.T) {
		written := SessionWritesTotal.WithLabelValues("written")
		absorbed := SessionWritesTotal.WithLabelValues("absorbed")
		beforeWritten := testutil.ToFloat64(written)
		beforeAbsorbed := testutil.ToFloat64(absorbed)

		written.Inc()
		absorbed.Inc()
		absorbed.Inc()

		assert.Equal(t, beforeWritten+1, testutil.ToFloat64(written))
		assert.Equal(t, beforeAbsorbed+2, testutil.ToFloat64(absorbed))
	})

	t.Run("sessions_expired_can_add_batch_counts", func(t *testing.T) {
		before := testutil.ToFloat64(SessionsExpiredTotal)

		// Cleanup adds the whole sweep's count at once
		SessionsExpiredTotal.Add(42)

		assert.Equal(t, before+42, testutil.ToFloat64(SessionsExpiredTotal))
	})
}

func TestAuthDenialsTotal(t *testing.T) {
	t.Run("metric_is_registered", func(t *testing.T) {
		assert.NotNil(t, AuthDenialsTotal)
	})

	t.Run("denial_kinds_are_independent", func(t *testing.T) {
		unauthenticated := AuthDenialsTotal.WithLabelValues("unauthenticated")
		forbidden := AuthDenialsTotal.WithLabelValues("forbidden")
		beforeUnauthenticated := testutil.ToFloat64(unauthenticated)
		beforeForbidden := testutil.ToFloat64(forbidden)

		unauthenticated.Inc()
		forbidden.Inc()
		forbidden.Inc()

		assert.Equal(t, beforeUnauthenticated+1, testutil.ToFloat64(unauthenticated))
		assert.Equal(t, beforeForbidden+2, testutil.ToFloat64(forbidden))
	})
}
