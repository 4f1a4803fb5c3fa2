package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/submit-bridge/backend/conf"
	bridgehttp "github.com/submit-bridge/backend/http"
	"github.com/submit-bridge/backend/relaysrvc"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
	bodies []string
	err    error
}

func (n *fakeNotifier) Notify(title string, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
	return n.err
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeNotifier) {
	t.Helper()
	cfg := conf.Default()
	cfg.ContestName = "Test Round 1"
	notifier := &fakeNotifier{}
	relay := relaysrvc.NewRelaySrvc(relaysrvc.Options{
		DefaultLanguage:   cfg.DefaultLanguage,
		ResolvedRetention: cfg.ResolvedRetention(),
	})
	server := bridgehttp.NewHttpServer(relay, notifier, cfg)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, notifier
}

func postSubmitForm(t *testing.T, ts *httptest.Server, problemCode, language, code string) *nethttp.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if problemCode != "" {
		require.NoError(t, mw.WriteField("problem_code", problemCode))
	}
	if language != "" {
		require.NoError(t, mw.WriteField("language", language))
	}
	fw, err := mw.CreateFormFile("file", "main.cpp")
	require.NoError(t, err)
	_, err = fw.Write([]byte(code))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := nethttp.Post(ts.URL+"/submit", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func dialWs(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSubmitWithZeroPeersThenPoll(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postSubmitForm(t, ts, "A", "cpp", "int main(){}")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "queued", body["status"])
	require.Equal(t, float64(0), body["sent_to_clients"])
	requestID, _ := body["request_id"].(string)
	require.Regexp(t, hex64, requestID)

	// no report has arrived, so a bounded poll comes back pending
	resp2, err := nethttp.Get(ts.URL + "/submission-result/" + requestID + "?timeout=0.2")
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp2.StatusCode)
	require.Equal(t, "pending", decodeBody(t, resp2)["status"])
}

func TestSubmitReachesPeerAndReportResolves(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWs(t, ts)

	// handshake is asynchronous relative to the dial returning
	require.Eventually(t, func() bool {
		resp := postSubmitForm(t, ts, "ping", "cpp", "//")
		return decodeBody(t, resp)["sent_to_clients"] == float64(1)
	}, 2*time.Second, 50*time.Millisecond)

	resp := postSubmitForm(t, ts, "B", "", "print(1)")
	body := decodeBody(t, resp)
	require.Equal(t, "queued", body["status"])
	requestID := body["request_id"].(string)

	// drain ws frames until the one for this request id shows up
	var msg struct {
		ProblemCode string `json:"problemCode"`
		Language    string `json:"language"`
		Code        string `json:"code"`
		RequestID   string `json:"requestId"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for msg.RequestID != requestID {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &msg))
	}
	require.Equal(t, "B", msg.ProblemCode)
	require.Equal(t, "C++26", msg.Language)
	require.Equal(t, "print(1)", msg.Code)

	form := url.Values{
		"request_id": {requestID},
		"sid":        {"123"},
		"surl":       {"/submission/123"},
		"stime":      {"2024-01-01T00:00:00Z"},
	}
	resp2, err := nethttp.PostForm(ts.URL+"/submission-report", form)
	require.NoError(t, err)
	require.Equal(t, "ok", decodeBody(t, resp2)["status"])

	resp3, err := nethttp.Get(ts.URL + "/submission-result/" + requestID + "?timeout=2")
	require.NoError(t, err)
	result := decodeBody(t, resp3)
	require.Equal(t, "done", result["status"])
	require.Equal(t, "123", result["sid"])
	require.Equal(t, "/submission/123", result["surl"])
	require.Equal(t, "2024-01-01T00:00:00Z", result["stime"])
}

func TestResultForUnknownRequestID(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := nethttp.Get(ts.URL + "/submission-result/0000never-submitted?timeout=0.1")
	require.NoError(t, err)
	require.Equal(t, "unknown", decodeBody(t, resp)["status"])
}

func TestReportForUnknownRequestIDIsOk(t *testing.T) {
	ts, _ := newTestServer(t)
	form := url.Values{
		"request_id": {"deadbeef"},
		"sid":        {"9"},
		"surl":       {"/submission/9"},
		"stime":      {"2024-01-01T00:00:00Z"},
	}
	resp, err := nethttp.PostForm(ts.URL+"/submission-report", form)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestSubmitWithoutFileFails(t *testing.T) {
	ts, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("problem_code", "A"))
	require.NoError(t, mw.Close())

	resp, err := nethttp.Post(ts.URL+"/submit", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "error", decodeBody(t, resp)["status"])
}

func TestSubmitWithoutProblemCodeFails(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postSubmitForm(t, ts, "", "cpp", "int main(){}")
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "error", decodeBody(t, resp)["status"])
}

func TestContestInfo(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := nethttp.Get(ts.URL + "/contest")
	require.NoError(t, err)
	require.Equal(t, "Test Round 1", decodeBody(t, resp)["contest"])
}

func TestScoreReportNotifies(t *testing.T) {
	ts, notifier := newTestServer(t)

	form := url.Values{"sid": {"123"}, "status": {"AC"}}
	resp, err := nethttp.PostForm(ts.URL+"/score-report", form)
	require.NoError(t, err)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Equal(t, []string{"Submission 123"}, notifier.titles)
	require.Equal(t, []string{"Accepted"}, notifier.bodies)
}

func TestScoreReportSwallowsNotifierFailure(t *testing.T) {
	ts, notifier := newTestServer(t)
	notifier.err = fmt.Errorf("no notification daemon")

	form := url.Values{"sid": {"7"}, "status": {"WA"}}
	resp, err := nethttp.PostForm(ts.URL+"/score-report", form)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestPeerDisconnectShrinksFanout(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dialWs(t, ts)

	require.Eventually(t, func() bool {
		resp := postSubmitForm(t, ts, "ping", "cpp", "//")
		return decodeBody(t, resp)["sent_to_clients"] == float64(1)
	}, 2*time.Second, 50*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		resp := postSubmitForm(t, ts, "ping", "cpp", "//")
		return decodeBody(t, resp)["sent_to_clients"] == float64(0)
	}, 2*time.Second, 50*time.Millisecond)
}
