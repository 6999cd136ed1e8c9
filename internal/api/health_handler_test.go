package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/payment-assist/internal/pipeline"
	"github.com/ignite/payment-assist/internal/records"
	"github.com/ignite/payment-assist/internal/segment"
)

func healthStatusFor(t *testing.T, hc *HealthChecker) HealthStatus {
	t.Helper()
	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func healthyPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	store := records.NewStore([]string{"Customer ID"}, []*records.CustomerRecord{
		{CustomerID: "C1", Attributes: map[string]records.Attr{"Customer ID": records.StringAttr("C1")}},
	}, "test")
	codec, err := segment.NewLabelCodec([]string{"a", "b", "c", "d"})
	require.NoError(t, err)
	return pipeline.New(store, fixedClassifier{code: 0}, codec, nil, nil)
}

func TestHealthAllUp(t *testing.T) {
	hc := NewHealthChecker(healthyPipeline(t), nil, nil)
	status := healthStatusFor(t, hc)

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["records"].Status)
	assert.Equal(t, "up", status.Checks["classifier"].Status)
	// Redis is optional: absent configuration never degrades overall health.
	assert.Equal(t, "down", status.Checks["redis"].Status)
	assert.Equal(t, "not configured", status.Checks["redis"].Message)
}

func TestHealthEmptyStoreIsDegraded(t *testing.T) {
	codec, err := segment.NewLabelCodec([]string{"a", "b"})
	require.NoError(t, err)
	p := pipeline.New(records.EmptyStore("s3://bucket/key"), fixedClassifier{code: 0}, codec, nil, nil)

	status := healthStatusFor(t, NewHealthChecker(p, nil, nil))

	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "degraded", status.Checks["records"].Status)
	assert.Contains(t, status.Checks["records"].Message, "s3://bucket/key")
}

func TestHealthMissingArtifactsIsUnhealthy(t *testing.T) {
	p := pipeline.New(records.EmptyStore("x"), nil, nil, nil, nil)
	hc := NewHealthChecker(p, nil, nil)

	status := healthStatusFor(t, hc)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "down", status.Checks["classifier"].Status)

	// Readiness refuses traffic while health stays inspectable.
	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthArtifactSkewIsDegraded(t *testing.T) {
	skew := errors.New("model emits code 3 with no label")
	hc := NewHealthChecker(healthyPipeline(t), nil, skew)

	status := healthStatusFor(t, hc)
	assert.Equal(t, "degraded", status.Status)
	assert.Contains(t, status.Checks["classifier"].Message, "skew")
}

func TestHealthRedisCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hc := NewHealthChecker(healthyPipeline(t), client, nil)
	status := healthStatusFor(t, hc)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)

	mr.Close()
	status = healthStatusFor(t, hc)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "down", status.Checks["redis"].Status)
}

func TestLiveness(t *testing.T) {
	hc := NewHealthChecker(pipeline.New(nil, nil, nil, nil, nil), nil, nil)

	rec := httptest.NewRecorder()
	hc.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alive", body["status"])
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{3*time.Minute + 5*time.Second, "3m 5s"},
		{2*time.Hour + 3*time.Minute + 5*time.Second, "2h 3m 5s"},
		{26*time.Hour + 3*time.Minute, "1d 2h 3m 0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}
