package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campgrounds/internal/domain"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
	"campgrounds/internal/testutil"
)

// guardFixture wires a Guard over in-memory repositories.
type guardFixture struct {
	guard       *Guard
	sessions    *service.SessionService
	sessionRepo *testutil.MockSessionRepository
	campgrounds *testutil.MockCampgroundRepository
	reviews     *testutil.MockReviewRepository
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	sessionRepo := testutil.NewMockSessionRepository()
	campgrounds := testutil.NewMockCampgroundRepository()
	reviews := testutil.NewMockReviewRepository()
	sessions := service.NewSessionService(sessionRepo)

	return &guardFixture{
		guard:       NewGuard(sessions, campgrounds, reviews, renderer),
		sessions:    sessions,
		sessionRepo: sessionRepo,
		campgrounds: campgrounds,
		reviews:     reviews,
	}
}

// requestWithSession builds a request carrying a stored session, and
// optionally an authenticated user, the way the session middleware
// would have prepared it.
func (f *guardFixture) requestWithSession(t *testing.T, method, target string, user *domain.User) (*http.Request, *domain.Session) {
	t.Helper()

	session := testutil.NewTestSession()
	if user != nil {
		session.UserID = user.ID
	}
	f.sessionRepo.Sessions[session.Token] = session

	req := httptest.NewRequest(method, target, nil)
	ctx := WithSession(req.Context(), session)
	if user != nil {
		ctx = WithCurrentUser(ctx, user)
	}
	return req.WithContext(ctx), session
}

func TestRequireLogin_AuthenticatedPassesThrough(t *testing.T) {
	f := newGuardFixture(t)
	user := testutil.NewTestUser()

	nextCalled := false
	handler := f.guard.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req, _ := f.requestWithSession(t, http.MethodGet, "/campgrounds/new", user)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertTrue(t, nextCalled, "next handler should be called")
}

func TestRequireLogin_AnonymousRedirectsToLogin(t *testing.T) {
	f := newGuardFixture(t)

	nextCalled := false
	handler := f.guard.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req, session := f.requestWithSession(t, http.MethodGet, "/campgrounds/new", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusSeeOther)
	testutil.AssertHeader(t, w, "Location", "/login")
	testutil.AssertFalse(t, nextCalled, "next handler should not be called")

	stored := f.sessionRepo.Sessions[session.Token]
	testutil.AssertEqual(t, stored.Data[domain.FlashErrorKey], MsgMustBeSignedIn)
	testutil.AssertEqual(t, stored.Data[domain.ReturnToKey], "/campgrounds/new")
}

func TestRequireLogin_ReturnToKeepsQueryString(t *testing.T) {
	f := newGuardFixture(t)

	handler := f.guard.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req, session := f.requestWithSession(t, http.MethodGet, "/campgrounds/new?step=2", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	stored := f.sessionRepo.Sessions[session.Token]
	testutil.AssertEqual(t, stored.Data[domain.ReturnToKey], "/campgrounds/new?step=2")
}

func TestRequireLogin_NoSessionStillRedirects(t *testing.T) {
	f := newGuardFixture(t)

	handler := f.guard.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	// No session in context: the redirect still happens, there is just
	// nowhere to queue the flash.
	req := httptest.NewRequest(http.MethodGet, "/campgrounds/new", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusSeeOther)
	testutil.AssertHeader(t, w, "Location", "/login")
}
