package handler

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/hackz-valentine-back/internal/invite"
	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/summary"
	"github.com/kyiku/hackz-valentine-back/internal/testutil"
)

var storedProposal = state.Mapping{
	"name": "Giulia",
	"day":  "2026-02-14",
	"time": "19:00",
	"mood": "Cena romantica",
}

func TestSummaryHandler_Get(t *testing.T) {
	f := newFixture()
	_, id := f.visitorAt(model.StageFinal)
	f.seed(id, storedProposal)
	h := NewSummaryHandler(f.sessions, f.states, nil)

	tc := request(http.MethodGet, "/api/summary?note=porta+i+fiori", nil, id)
	require.NoError(t, h.Get(tc.Context))

	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	resp := tc.GetResponseBody()

	want := state.Proposal{
		Name: "Giulia", Accepted: true, Day: "2026-02-14", Time: "19:00",
		Mood: "Cena romantica", Note: "porta i fiori",
	}
	assert.Equal(t, summary.CopyText(want), resp["copy_text"])
	assert.NotContains(t, resp, "invite")

	rows, ok := resp["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 5)
	assert.Equal(t, map[string]interface{}{"label": "Giorno", "value": "sabato 14 febbraio 2026"}, rows[1])

	// クエリの値も状態に書き戻される
	st := f.read(id)
	assert.Equal(t, "porta i fiori", st["note"])
	assert.Equal(t, true, st["accepted"])
}

func TestSummaryHandler_Get_Invite(t *testing.T) {
	tests := []struct {
		name       string
		mockResp   string
		mockErr    error
		fallback   bool
		wantInvite interface{}
	}{
		{
			name:       "正常系: 招待文を含む",
			mockResp:   `{"content":[{"text":"Giulia, ci vediamo alle 19:00?"}]}`,
			wantInvite: "Giulia, ci vediamo alle 19:00?",
		},
		{
			name:       "フォールバック: コピー文",
			mockErr:    errors.New("throttled"),
			fallback:   true,
			wantInvite: nil,
		},
		{
			name:       "異常系: 招待文なしで返す",
			mockErr:    errors.New("throttled"),
			wantInvite: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, id := f.visitorAt(model.StageFinal)
			f.seed(id, storedProposal)

			mock := testutil.NewMockBedrockClient()
			mock.Response = tt.mockResp
			mock.Err = tt.mockErr
			composer := invite.NewComposer(mock, "")
			composer.EnableFallback(tt.fallback)

			h := NewSummaryHandler(f.sessions, f.states, nil)
			h.SetComposer(composer)

			tc := request(http.MethodGet, "/api/summary", nil, id)
			require.NoError(t, h.Get(tc.Context))
			require.Equal(t, http.StatusOK, tc.GetResponseCode())

			resp := tc.GetResponseBody()
			switch {
			case tt.fallback:
				assert.Equal(t, resp["copy_text"], resp["invite"])
			case tt.wantInvite == nil:
				assert.NotContains(t, resp, "invite")
			default:
				assert.Equal(t, tt.wantInvite, resp["invite"])
			}
			assert.Equal(t, 1, mock.Calls)
		})
	}
}

func TestSummaryHandler_Card(t *testing.T) {
	f := newFixture()
	_, id := f.visitorAt(model.StageFinal)
	f.seed(id, storedProposal)
	h := NewSummaryHandler(f.sessions, f.states, nil)

	tc := request(http.MethodGet, "/api/summary.png", nil, id)
	require.NoError(t, h.Card(tc.Context))

	assert.Equal(t, http.StatusOK, tc.GetResponseCode())
	assert.Equal(t, "image/png", tc.Recorder.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(tc.Recorder.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, summary.CardWidth, img.Bounds().Dx())
}

func TestSummaryHandler_NoSession(t *testing.T) {
	f := newFixture()
	h := NewSummaryHandler(f.sessions, f.states, nil)

	for _, fn := range []func(*testutil.TestContext) error{
		func(tc *testutil.TestContext) error { return h.Get(tc.Context) },
		func(tc *testutil.TestContext) error { return h.Card(tc.Context) },
	} {
		tc := request(http.MethodGet, "/api/summary", nil, "")
		require.NoError(t, fn(tc))
		assert.Equal(t, http.StatusUnauthorized, tc.GetResponseCode())
	}
}

func TestSummaryHandler_StorageError(t *testing.T) {
	f := newFailingFixture()
	_, id := f.visitorAt(model.StageFinal)
	h := NewSummaryHandler(f.sessions, f.states, nil)

	tc := request(http.MethodGet, "/api/summary?name=Giulia", nil, id)
	require.NoError(t, h.Get(tc.Context))

	assert.Equal(t, http.StatusInternalServerError, tc.GetResponseCode())
	assert.Equal(t, "STORAGE_ERROR", tc.GetResponseBody()["code"])
}
