package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/hackz-valentine-back/internal/testutil"
)

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]interface{}
		wantFields []string
	}{
		{
			name: "正常系: 基本的な成功レスポンス",
			data: map[string]interface{}{
				"name":  "Giulia",
				"stage": "question",
			},
			wantFields: []string{"error", "name", "stage"},
		},
		{
			name:       "正常系: 空のデータ",
			data:       map[string]interface{}{},
			wantFields: []string{"error"},
		},
		{
			name:       "正常系: errorキーは上書きされない",
			data:       map[string]interface{}{"error": true},
			wantFields: []string{"error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(http.MethodGet, "/", nil)

			err := Success(tc.Context, tt.data)

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, tc.GetResponseCode())

			resp := tc.GetResponseBody()
			assert.Equal(t, false, resp["error"])
			for _, field := range tt.wantFields {
				assert.Contains(t, resp, field)
			}
		})
	}
}

func TestResponse_Redirect(t *testing.T) {
	tc := testutil.NewTestContext(http.MethodPost, "/api/start", nil)

	err := Redirect(tc.Context, "/question.html?name=Giulia", map[string]interface{}{"stage": "question"})
	require.NoError(t, err)

	resp := tc.GetResponseBody()
	assert.Equal(t, false, resp["error"])
	assert.Equal(t, "/question.html?name=Giulia", resp["redirect"])
	assert.Equal(t, "question", resp["stage"])
}

func TestResponse_Error(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{name: "異常系: 400 Bad Request", statusCode: http.StatusBadRequest, message: "Richiesta non valida"},
		{name: "異常系: 401 Unauthorized", statusCode: http.StatusUnauthorized, message: "Sessione mancante"},
		{name: "異常系: 500 Internal Server Error", statusCode: http.StatusInternalServerError, message: "Errore interno"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(http.MethodGet, "/", nil)

			err := Error(tc.Context, tt.statusCode, tt.message)

			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, tc.GetResponseCode())

			resp := tc.GetResponseBody()
			assert.Equal(t, true, resp["error"])
			assert.Equal(t, tt.message, resp["message"])
			assert.NotContains(t, resp, "code")
		})
	}
}

func TestResponse_ErrorWithCode(t *testing.T) {
	tc := testutil.NewTestContext(http.MethodPost, "/api/start", nil)

	err := ErrorWithCode(tc.Context, http.StatusBadRequest, CodeNameRequired, "Scrivi un nome.")

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, tc.GetResponseCode())

	resp := tc.GetResponseBody()
	assert.Equal(t, true, resp["error"])
	assert.Equal(t, "NAME_REQUIRED", resp["code"])
	assert.Equal(t, "Scrivi un nome.", resp["message"])
}
