// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/platform/metrics"
)

/*
TestCollector_RecordLogin verifies counters are incremented per label set.
*/
func TestCollector_RecordLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	collector.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeSuccess)
	collector.RecordLogin(metrics.MethodPassword, "", metrics.OutcomeSuccess)
	collector.RecordLogin(metrics.MethodOAuth, "discord", metrics.OutcomeProviderFailure)
	collector.RecordVerify(metrics.OutcomeInvalidToken)

	count, err := testutil.GatherAndCount(reg, "signon_login_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "signon_token_verify_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestHandler exposes the registered series over HTTP.
*/
func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	collector.RecordVerify(metrics.OutcomeSuccess)

	recorder := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `signon_token_verify_total{outcome="success"} 1`)
}
