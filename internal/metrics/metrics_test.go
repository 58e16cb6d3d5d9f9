package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStorageOperation(t *testing.T) {
	before := testutil.ToFloat64(storageOperationsTotal.WithLabelValues("s3", "head_object", "error"))

	RecordStorageOperation("s3", "head_object", 5*time.Millisecond, false)

	after := testutil.ToFloat64(storageOperationsTotal.WithLabelValues("s3", "head_object", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordUpload_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(transferBytesTotal.WithLabelValues("upload"))

	RecordUpload(-1)
	RecordUpload(0)
	RecordUpload(128)

	assert.Equal(t, before+128, testutil.ToFloat64(transferBytesTotal.WithLabelValues("upload")))
}

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(notificationsTotal.WithLabelValues("sms", "sns", "success"))
	RecordNotification("sms", "sns", true)
	assert.Equal(t, before+1, testutil.ToFloat64(notificationsTotal.WithLabelValues("sms", "sns", "success")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stowage_http_requests_total")
}
