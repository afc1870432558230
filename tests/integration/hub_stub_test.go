package integration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"testing"
	"time"
)

// hubStub 模拟 ModelScope 风格的 hub：文件列表信封 + 支持 Range 的内容
// 接口。记录每次请求，供断言传输次数与续传头。
type hubStub struct {
	server   *http.Server
	listener net.Listener
	URL      string

	mu      sync.Mutex
	files   map[string][]byte
	corrupt bool

	requests []RecordedRequest
}

// RecordedRequest 捕获每次请求的方法/路径/Headers，便于断言下载行为。
type RecordedRequest struct {
	Method  string
	Path    string
	Headers http.Header
}

func newHubStub(t *testing.T, files map[string][]byte) *hubStub {
	t.Helper()

	stub := &hubStub{files: map[string][]byte{}}
	for name, data := range files {
		stub.files[name] = bytes.Clone(data)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.recordRequest(r)
		stub.route(w, r)
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start hub stub listener: %v", err)
	}
	server := &http.Server{Handler: handler}

	stub.server = server
	stub.listener = listener
	stub.URL = "http://" + listener.Addr().String()

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(stub.Close)

	return stub
}

func (s *hubStub) Close() {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if s.server != nil {
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *hubStub) recordRequest(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
	})
}

// ContentRequests 返回命中内容接口的全部请求。
func (s *hubStub) ContentRequests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []RecordedRequest
	for _, req := range s.requests {
		if strings.Contains(req.Path, "/resolve/") {
			result = append(result, req)
		}
	}
	return result
}

// SetFile 替换一个文件的内容，随之改变列表中的大小与摘要。
func (s *hubStub) SetFile(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = bytes.Clone(data)
}

// SetCorrupt 使内容响应与列表公布的摘要不一致。
func (s *hubStub) SetCorrupt(corrupt bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrupt = corrupt
}

func (s *hubStub) route(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.Contains(r.URL.Path, "/repo/files"), strings.Contains(r.URL.Path, "/repo/tree"):
		s.serveListing(w)
	case strings.Contains(r.URL.Path, "/resolve/"):
		s.serveContent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *hubStub) serveListing(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type fileEntry struct {
		Name     string `json:"Name"`
		Path     string `json:"Path"`
		Type     string `json:"Type"`
		Size     int64  `json:"Size"`
		Revision string `json:"Revision"`
		Sha256   string `json:"Sha256"`
	}
	var entries []fileEntry
	for name, data := range s.files {
		sum := sha256.Sum256(data)
		entries = append(entries, fileEntry{
			Name:     path.Base(name),
			Path:     name,
			Type:     "blob",
			Size:     int64(len(data)),
			Revision: "master",
			Sha256:   hex.EncodeToString(sum[:]),
		})
	}
	resp := map[string]any{
		"Code":    200,
		"Success": true,
		"Data": map[string]any{
			"Files":      entries,
			"TotalCount": len(entries),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *hubStub) serveContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var data []byte
	found := false
	for name, d := range s.files {
		if strings.HasSuffix(r.URL.Path, "/"+name) {
			data, found = bytes.Clone(d), true
			break
		}
	}
	if s.corrupt && found {
		data = append(data, 'X')
	}
	s.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
}
