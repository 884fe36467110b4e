// Package testutil provides common test utilities, mocks, and helpers for testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// MockWebSocketConn is a mock implementation of WebSocket connection for testing.
type MockWebSocketConn struct {
	mu          sync.Mutex
	Messages    [][]byte
	LastMessage []byte
	IsClosed    bool
	ReadChan    chan []byte
	CloseChan   chan struct{}
	WriteErr    error
	CloseErr    error
}

// NewMockWebSocketConn creates a new MockWebSocketConn.
func NewMockWebSocketConn() *MockWebSocketConn {
	return &MockWebSocketConn{
		Messages:  make([][]byte, 0),
		ReadChan:  make(chan []byte, 100),
		CloseChan: make(chan struct{}),
	}
}

// WriteMessage mocks writing a message to WebSocket.
func (m *MockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.Messages = append(m.Messages, data)
	m.LastMessage = data
	return nil
}

// WriteJSON mocks writing JSON to WebSocket.
func (m *MockWebSocketConn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.WriteMessage(1, data)
}

// ReadMessage mocks reading a message from WebSocket.
func (m *MockWebSocketConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.ReadChan:
		return 1, msg, nil
	case <-m.CloseChan:
		return 0, nil, io.EOF
	}
}

// Close mocks closing the WebSocket connection.
func (m *MockWebSocketConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsClosed {
		return nil
	}

	m.IsClosed = true
	close(m.CloseChan)

	return m.CloseErr
}

// Closed reports whether Close has been called.
func (m *MockWebSocketConn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.IsClosed
}

// GetMessages returns all messages sent through this connection.
func (m *MockWebSocketConn) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// GetLastMessageAsMap returns the last message as a map.
func (m *MockWebSocketConn) GetLastMessageAsMap() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LastMessage == nil {
		return nil
	}

	var result map[string]interface{}
	_ = json.Unmarshal(m.LastMessage, &result)
	return result
}

// MessagesOfType returns every sent message whose "type" equals msgType.
func (m *MockWebSocketConn) MessagesOfType(msgType string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, raw := range m.GetMessages() {
		var msg map[string]interface{}
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg["type"] == msgType {
			out = append(out, msg)
		}
	}
	return out
}

// MockS3Client is a mock implementation of S3 client for testing.
type MockS3Client struct {
	mu      sync.Mutex
	Objects map[string][]byte
	GetErr  error
	Gets    []string
}

// NewMockS3Client creates a new MockS3Client.
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Objects: make(map[string][]byte),
	}
}

// GetObject mocks S3 GetObject.
func (m *MockS3Client) GetObject(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets = append(m.Gets, key)
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	data, ok := m.Objects[key]
	if !ok {
		return nil, &ObjectNotFoundError{Key: key}
	}
	return data, nil
}

// ListObjects mocks S3 ListObjects.
func (m *MockS3Client) ListObjects(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ObjectNotFoundError is returned when an S3 object is not found.
type ObjectNotFoundError struct {
	Key string
}

func (e *ObjectNotFoundError) Error() string {
	return "object not found: " + e.Key
}

// MockBedrockClient is a mock implementation of Bedrock client for testing.
type MockBedrockClient struct {
	mu          sync.Mutex
	Response    string
	Err         error
	LastPrompt  string
	LastModelID string
	Calls       int
}

// NewMockBedrockClient creates a new MockBedrockClient.
func NewMockBedrockClient() *MockBedrockClient {
	return &MockBedrockClient{}
}

// InvokeModel mocks Bedrock InvokeModel.
func (m *MockBedrockClient) InvokeModel(modelID string, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastModelID = modelID
	m.LastPrompt = prompt

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// TestContext wraps Echo context for testing.
type TestContext struct {
	Echo     *echo.Echo
	Context  echo.Context
	Request  *http.Request
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a new test context for Echo handlers.
func NewTestContext(method, path string, body io.Reader) *TestContext {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &TestContext{
		Echo:     e,
		Context:  c,
		Request:  req,
		Recorder: rec,
	}
}

// NewTestContextWithJSON creates a test context with JSON body.
func NewTestContextWithJSON(method, path string, body interface{}) *TestContext {
	jsonBody, _ := json.Marshal(body)
	tc := NewTestContext(method, path, bytes.NewReader(jsonBody))
	tc.Request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return tc
}

// SetCookie adds a cookie to the test request.
func (tc *TestContext) SetCookie(name, value string) {
	tc.Request.AddCookie(&http.Cookie{Name: name, Value: value})
}

// GetResponseBody returns the response body as a map.
func (tc *TestContext) GetResponseBody() map[string]interface{} {
	var result map[string]interface{}
	_ = json.Unmarshal(tc.Recorder.Body.Bytes(), &result)
	return result
}

// GetResponseCode returns the HTTP response status code.
func (tc *TestContext) GetResponseCode() int {
	return tc.Recorder.Code
}

// WaitFor waits for a condition to be true within timeout.
func WaitFor(timeout, interval time.Duration, condition func() bool) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return nil
		}
		time.Sleep(interval)
	}
	return &TimeoutError{Timeout: timeout}
}

// TimeoutError is returned when WaitFor times out.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "timeout waiting for condition"
}

// CreateTestPNG creates a test PNG image with specified dimensions.
func CreateTestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
