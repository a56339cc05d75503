package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

type recordedRequest struct {
	body    map[string]any
	headers map[string]string
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock stands in for a third-party HTTP API. It records every request
// per method and path and answers with responses configured by SetResponse.
// Unconfigured routes answer 200 with an empty JSON object.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]recordedRequest
	responses map[string]map[int]cannedResponse
	defaults  map[string]cannedResponse
}

func NewApiServer() *ApiMock {
	a := &ApiMock{}
	a.Reset()
	return a
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.serve))
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

func (a *ApiMock) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	key := routeKey(r.Method, r.URL.Path)

	a.mu.Lock()
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], recordedRequest{body: body, headers: headers})
	resp, ok := a.responses[key][index]
	if !ok {
		resp, ok = a.defaults[key]
	}
	a.mu.Unlock()

	if !ok {
		resp = cannedResponse{status: http.StatusOK, body: map[string]any{}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse configures the answer for the index-th call of a route. An
// index of -1 sets the answer for every call without a specific one.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := routeKey(method, path)
	canned := cannedResponse{status: status, body: response}
	if index < 0 {
		a.defaults[key] = canned
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]cannedResponse{}
	}
	a.responses[key][index] = canned
}

func (a *ApiMock) request(method, path string, index int) (recordedRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	reqs := a.requests[routeKey(method, path)]
	if index < 0 || index >= len(reqs) {
		return recordedRequest{}, false
	}
	return reqs[index], true
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	req, ok := a.request(method, path, index)
	if !ok {
		return nil
	}
	return req.body
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	req, ok := a.request(method, path, index)
	if !ok {
		return nil
	}
	return req.headers
}

func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests[routeKey(method, path)])
}

// Reset forgets recorded requests and configured responses.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = map[string][]recordedRequest{}
	a.responses = map[string]map[int]cannedResponse{}
	a.defaults = map[string]cannedResponse{}
}
