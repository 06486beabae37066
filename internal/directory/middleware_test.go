package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticVerifier struct{ userID string }

func (v staticVerifier) Verify(string) (string, error) {
	return v.userID, nil
}

type failingDirectoryRepo struct{}

func (failingDirectoryRepo) GetProfile(context.Context, string) (Profile, error) {
	return Profile{}, errors.New("directory unavailable")
}

func (failingDirectoryRepo) ListMemberships(context.Context, string) ([]Membership, error) {
	return nil, errors.New("directory unavailable")
}

func TestMiddlewareAssemblyFailureAnswersProblem(t *testing.T) {
	mw := Middleware{Service: NewService(failingDirectoryRepo{}), Tokens: staticVerifier{userID: "u1"}}
	handler := mw.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run when context assembly fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/businesses", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Contains(t, rec.Body.String(), "Internal Error")
}
