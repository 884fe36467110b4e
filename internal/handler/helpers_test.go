package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/session"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/storage"
	"github.com/kyiku/hackz-valentine-back/internal/testutil"
)

type fixture struct {
	sessions *session.SessionStore
	states   *state.Store
	catalog  *catalog.Holder
}

func newFixture() *fixture {
	return &fixture{
		sessions: session.NewSessionStore(),
		states:   state.NewStore(storage.NewMemoryBackend(), nil),
		catalog:  catalog.NewHolder(catalog.Default()),
	}
}

func newFailingFixture() *fixture {
	f := newFixture()
	f.states = state.NewStore(&brokenBackend{}, nil)
	return f
}

// visitorAt creates a session already on the given stage.
func (f *fixture) visitorAt(stage string) (*model.Visitor, string) {
	v, id := f.sessions.Create()
	v.SetStage(stage)
	return v, id
}

func (f *fixture) seed(sessionID string, m state.Mapping) {
	_, _ = f.states.Write(context.Background(), sessionID, m)
}

func (f *fixture) read(sessionID string) state.Mapping {
	return f.states.Read(context.Background(), sessionID)
}

// request builds a JSON request carrying the session cookie when sessionID
// is non-empty.
func request(method, path string, body interface{}, sessionID string) *testutil.TestContext {
	var tc *testutil.TestContext
	if body == nil {
		tc = testutil.NewTestContext(method, path, nil)
	} else {
		tc = testutil.NewTestContextWithJSON(method, path, body)
	}
	if sessionID != "" {
		tc.SetCookie(session.CookieName, sessionID)
	}
	return tc
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

type brokenBackend struct{}

func (brokenBackend) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (brokenBackend) Save(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}
