package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurascan/aurascan/internal/analysis"
	"github.com/aurascan/aurascan/internal/checkout"
	"github.com/aurascan/aurascan/internal/config"
	"github.com/aurascan/aurascan/internal/fault"
)

type fakeAnalyzer struct {
	configured bool
	result     analysis.FaceAnalysis
	err        error
	gotDataURL string
}

func (f *fakeAnalyzer) Configured() bool { return f.configured }

func (f *fakeAnalyzer) Analyze(_ context.Context, imageDataURL string) (analysis.FaceAnalysis, error) {
	f.gotDataURL = imageDataURL
	if f.err != nil {
		return analysis.FaceAnalysis{}, f.err
	}
	return f.result, nil
}

type fakeCheckout struct {
	configured   bool
	session      checkout.Session
	err          error
	gotOrigin    string
	gotSessionID string
}

func (f *fakeCheckout) Configured() bool { return f.configured }

func (f *fakeCheckout) CreateSession(_ context.Context, origin string) (checkout.Session, error) {
	f.gotOrigin = origin
	if f.err != nil {
		return checkout.Session{}, f.err
	}
	return f.session, nil
}

func (f *fakeCheckout) RetrieveSession(_ context.Context, sessionID string) (checkout.Session, error) {
	f.gotSessionID = sessionID
	if f.err != nil {
		return checkout.Session{}, f.err
	}
	return f.session, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SimulateWhenUnconfigured: true,
		RateLimitPerIP:           100,
		MaxUploadBytes:           8 << 20,
	}
}

func newTestServer(t *testing.T, vision Analyzer, provider CheckoutProvider, cfg *config.Config) *httptest.Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	ts := httptest.NewServer(NewServer(cfg, vision, provider).Router())
	t.Cleanup(ts.Close)
	return ts
}

func multipartImage(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "face.png")
	require.NoError(t, err)
	// Minimal PNG header so content-type sniffing yields image/png.
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n00000000"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeAnalyzer{configured: true}, &fakeCheckout{}, nil)

	res, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, map[string]any{"vision_configured": true}, decodeBody(t, res))
}

func TestAnalyzeSimulatedWhenUnconfigured(t *testing.T) {
	ts := newTestServer(t, &fakeAnalyzer{configured: false}, &fakeCheckout{}, nil)

	buf, contentType := multipartImage(t, "image")
	res, err := http.Post(ts.URL+"/api/analyze", contentType, buf)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.Equal(t, 84.0, body["overallScore"])
	metrics := body["metrics"].(map[string]any)
	assert.Equal(t, 78.0, metrics["symmetry"])
	assert.Len(t, body["deviations"], 3)
	assert.Len(t, body["optimizations"], 3)
}

func TestAnalyzeMultipartAcceptsFileField(t *testing.T) {
	analyzer := &fakeAnalyzer{configured: true, result: analysis.Normalize(map[string]any{"score": 90.0})}
	ts := newTestServer(t, analyzer, &fakeCheckout{}, nil)

	buf, contentType := multipartImage(t, "file")
	res, err := http.Post(ts.URL+"/api/analyze", contentType, buf)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(analyzer.gotDataURL, "data:image/png;base64,"))

	body := decodeBody(t, res)
	assert.Equal(t, 90.0, body["score"])
	assert.Len(t, body["cards"], 6)
}

func TestAnalyzeJSONBody(t *testing.T) {
	analyzer := &fakeAnalyzer{configured: true, result: analysis.Normalize(map[string]any{"score": 75.0})}
	ts := newTestServer(t, analyzer, &fakeCheckout{}, nil)

	payload := `{"imageBase64": "data:image/jpeg;base64,Zm9vYmFy"}`
	res, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "data:image/jpeg;base64,Zm9vYmFy", analyzer.gotDataURL)

	body := decodeBody(t, res)
	assert.Equal(t, 75.0, body["score"])
	// current = round(75*0.84 + 6) = 69
	assert.Equal(t, 69.0, body["optimization"].(map[string]any)["current"])
}

func TestAnalyzeMissingImage(t *testing.T) {
	ts := newTestServer(t, &fakeAnalyzer{configured: true}, &fakeCheckout{}, nil)

	res, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "image data is required", decodeBody(t, res)["error"])
}

func TestAnalyzeRejectsNonImageDataURL(t *testing.T) {
	ts := newTestServer(t, &fakeAnalyzer{configured: true}, &fakeCheckout{}, nil)

	res, err := http.Post(ts.URL+"/api/analyze", "application/json",
		strings.NewReader(`{"imageBase64": "hello"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAnalyzeFaultStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"configuration", fault.New(fault.KindConfiguration, "VISION_API_KEY is not configured"), http.StatusServiceUnavailable},
		{"upstream", fault.New(fault.KindUpstream, "vision request failed (500): boom"), http.StatusBadGateway},
		{"timeout", fault.New(fault.KindTimeout, "vision request timed out"), http.StatusBadGateway},
		{"malformed", fault.New(fault.KindMalformedResponse, "invalid JSON from vision model"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SimulateWhenUnconfigured = false
			analyzer := &fakeAnalyzer{configured: true, err: tc.err}
			ts := newTestServer(t, analyzer, &fakeCheckout{}, cfg)

			payload := `{"imageBase64": "data:image/jpeg;base64,Zm9v"}`
			res, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(payload))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, res.StatusCode)
			res.Body.Close()
		})
	}
}

func TestCreateCheckoutUsesForwardedOrigin(t *testing.T) {
	provider := &fakeCheckout{
		configured: true,
		session:    checkout.Session{ID: "cs_1", URL: "https://checkout.example.com/pay/cs_1"},
	}
	ts := newTestServer(t, &fakeAnalyzer{}, provider, nil)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/checkout/sessions", nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "aurascan.example.com")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "https://aurascan.example.com", provider.gotOrigin)
	assert.Equal(t, map[string]any{
		"id":  "cs_1",
		"url": "https://checkout.example.com/pay/cs_1",
	}, decodeBody(t, res))
}

func TestCreateCheckoutUnconfigured(t *testing.T) {
	provider := &fakeCheckout{err: fault.New(fault.KindConfiguration, "STRIPE_SECRET_KEY is not configured")}
	ts := newTestServer(t, &fakeAnalyzer{}, provider, nil)

	res, err := http.Post(ts.URL+"/api/checkout/sessions", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Contains(t, decodeBody(t, res)["error"], "STRIPE_SECRET_KEY")
}

func TestVerifyCheckoutRequiresSessionID(t *testing.T) {
	ts := newTestServer(t, &fakeAnalyzer{}, &fakeCheckout{}, nil)

	res, err := http.Get(ts.URL + "/api/checkout/verify")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "session_id is required", decodeBody(t, res)["error"])
}

func TestVerifyCheckoutPaidDetermination(t *testing.T) {
	cases := []struct {
		paymentStatus string
		status        string
		wantPaid      bool
	}{
		{"paid", "complete", true},
		{"unpaid", "complete", false},
		{"paid", "open", false},
	}
	for _, tc := range cases {
		provider := &fakeCheckout{
			configured: true,
			session:    checkout.Session{ID: "cs_2", PaymentStatus: tc.paymentStatus, Status: tc.status},
		}
		ts := newTestServer(t, &fakeAnalyzer{}, provider, nil)

		res, err := http.Get(ts.URL + "/api/checkout/verify?session_id=cs_2")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "cs_2", provider.gotSessionID)

		body := decodeBody(t, res)
		assert.Equal(t, tc.wantPaid, body["paid"], "%s/%s", tc.paymentStatus, tc.status)
		assert.Equal(t, tc.paymentStatus, body["payment_status"])
		assert.Equal(t, tc.status, body["status"])
	}
}
