package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/hackz-valentine-back/internal/testutil"
)

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"https://valentine.example.com/"}

	tests := []struct {
		name            string
		origin          string
		method          string
		wantAllowOrigin string
		wantStatus      int
	}{
		{
			name:            "正常系: 許可されたオリジン",
			origin:          "https://valentine.example.com",
			method:          http.MethodGet,
			wantAllowOrigin: "https://valentine.example.com",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "正常系: localhostオリジン",
			origin:          "http://localhost:3000",
			method:          http.MethodGet,
			wantAllowOrigin: "http://localhost:3000",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "正常系: PREFLIGHTリクエスト",
			origin:          "https://valentine.example.com",
			method:          http.MethodOptions,
			wantAllowOrigin: "https://valentine.example.com",
			wantStatus:      http.StatusNoContent,
		},
		{
			name:            "異常系: 許可されていないオリジン",
			origin:          "https://evil.example.com",
			method:          http.MethodGet,
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "異常系: Originヘッダーなし",
			origin:          "",
			method:          http.MethodGet,
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(tt.method, "/api/state", nil)
			if tt.origin != "" {
				tc.Request.Header.Set("Origin", tt.origin)
			}

			handler := CORSMiddleware(allowed)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			err := handler(tc.Context)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, tc.Recorder.Code)
			assert.Equal(t, tt.wantAllowOrigin, tc.Recorder.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllowOrigin != "" {
				assert.Contains(t, tc.Recorder.Header().Get("Access-Control-Allow-Methods"), "POST")
				assert.Equal(t, "true", tc.Recorder.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	check := CheckOrigin([]string{"https://valentine.example.com"})

	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{name: "Originなし", host: "app.example.com", origin: "", want: true},
		{name: "同一ホスト", host: "app.example.com", origin: "https://app.example.com", want: true},
		{name: "許可されたオリジン", host: "app.example.com", origin: "https://valentine.example.com", want: true},
		{name: "localhost", host: "app.example.com", origin: "http://localhost:5173", want: true},
		{name: "異常系: 未許可のオリジン", host: "app.example.com", origin: "https://evil.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://"+tt.host+"/ws", nil)
			require.NoError(t, err)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, check(req))
		})
	}
}
