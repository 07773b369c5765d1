package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/requestctx"
)

func TestParseCloudTrace(t *testing.T) {
	sc, ok := parseCloudTrace("105445aa7843bc8bf206b12000100000/1;o=1")
	require.True(t, ok)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", sc.TraceID().String())
	require.Equal(t, "0000000000000001", sc.SpanID().String())
	require.True(t, sc.IsSampled())
	require.True(t, sc.IsRemote())

	sc, ok = parseCloudTrace("105445aa7843bc8bf206b12000100000/abc;o=0")
	require.True(t, ok)
	require.Equal(t, "0000000000000abc", sc.SpanID().String())
	require.False(t, sc.IsSampled())
}

func TestParseCloudTraceRejectsMalformed(t *testing.T) {
	for _, header := range []string{
		"",
		"not-a-trace",
		"1234/1;o=1",
		"105445aa7843bc8bf206b12000100000/",
		"105445aa7843bc8bf206b12000100000/0;o=1",
		"zz5445aa7843bc8bf206b12000100000/1;o=1",
	} {
		_, ok := parseCloudTrace(header)
		require.False(t, ok, header)
	}
}

func TestTraceMiddlewareContinuesUpstreamTrace(t *testing.T) {
	var info requestctx.TraceInfo
	handler := TraceMiddleware("knife-prod")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		info, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CloudTraceHeader, "105445aa7843bc8bf206b12000100000/1;o=1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "105445aa7843bc8bf206b12000100000", info.TraceID)
	require.Equal(t, "knife-prod", info.ProjectID)
	require.Contains(t, rec.Header().Get(CloudTraceHeader), "105445aa7843bc8bf206b12000100000/")
}

func TestFormatCloudTrace(t *testing.T) {
	require.Empty(t, formatCloudTrace(requestctx.TraceInfo{}))
	require.Empty(t, formatCloudTrace(requestctx.TraceInfo{TraceID: "00000000000000000000000000000000", SpanID: "0000000000000000"}))
	require.Equal(t, "abc/def;o=1", formatCloudTrace(requestctx.TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true}))
}
