package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/go-collab/internal/api"
	"github.com/hugh/go-collab/internal/auth"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
	"github.com/hugh/go-collab/internal/testutil"
	"github.com/hugh/go-collab/pkg/util"
)

func setupTestRouter(t *testing.T) (http.Handler, *testutil.TestSetup) {
	return setupTestRouterWithStorage(t, nil)
}

func setupTestRouterWithStorage(t *testing.T, links projects.LinkSigner) (http.Handler, *testutil.TestSetup) {
	t.Helper()
	tc := testutil.NewTestContext(t)
	log := util.DiscardLogger()

	members := membership.NewService(tc.DB, log)
	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      log,
		JWTService:  tc.JWTService,
		AuthService: auth.NewService(tc.DB, tc.JWTService, testutil.TestHasher(), log),
		Members:     members,
		Projects:    projects.NewService(tc.DB, members, links, log),
	})

	return router, tc
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
