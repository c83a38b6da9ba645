package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAuthzDecision(t *testing.T) {
	permit := AuthzDecisionsTotal.WithLabelValues("CREATE_PRODUCT", "permit")
	deny := AuthzDecisionsTotal.WithLabelValues("CREATE_PRODUCT", "deny")
	permitBefore, denyBefore := testutil.ToFloat64(permit), testutil.ToFloat64(deny)

	RecordAuthzDecision("CREATE_PRODUCT", true)
	RecordAuthzDecision("CREATE_PRODUCT", false)
	RecordAuthzDecision("CREATE_PRODUCT", false)

	assert.Equal(t, permitBefore+1, testutil.ToFloat64(permit))
	assert.Equal(t, denyBefore+2, testutil.ToFloat64(deny))
}

func TestRecordHTTPRequestLabelsStatusCode(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/api/products/{id}", "404")
	before := testutil.ToFloat64(c)

	RecordHTTPRequest("GET", "/api/products/{id}", 404, 3*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordSessionsCleaned(t *testing.T) {
	before := testutil.ToFloat64(ExpiredSessionsCleaned)

	RecordSessionsCleaned(5)
	RecordSessionsCleaned(0)

	assert.Equal(t, before+5, testutil.ToFloat64(ExpiredSessionsCleaned))
}
