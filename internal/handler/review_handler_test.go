package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"campgrounds/internal/domain"
	"campgrounds/internal/middleware"
	"campgrounds/internal/render"
	"campgrounds/internal/service"
	"campgrounds/internal/testutil"
)

type reviewFixture struct {
	router      chi.Router
	sessionRepo *testutil.MockSessionRepository
	reviewRepo  *testutil.MockReviewRepository
	campRepo    *testutil.MockCampgroundRepository
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	sessionRepo := testutil.NewMockSessionRepository()
	reviewRepo := testutil.NewMockReviewRepository()
	campRepo := testutil.NewMockCampgroundRepository()

	sessions := service.NewSessionService(sessionRepo)
	reviews := service.NewReviewService(reviewRepo)
	guard := middleware.NewGuard(sessions, campRepo, reviewRepo, renderer)
	h := NewReviewHandler(reviews, sessions, renderer)

	r := chi.NewRouter()
	r.Route("/campgrounds/{campgroundID}/reviews", func(r chi.Router) {
		r.Post("/", h.Create)
		r.With(guard.RequireReviewAuthor).Delete("/{reviewID}", h.Delete)
	})
	r.NotFound(renderer.NotFound)

	return &reviewFixture{
		router:      r,
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
		campRepo:    campRepo,
	}
}

func (f *reviewFixture) do(req *http.Request, user *domain.User) (*httptest.ResponseRecorder, *domain.Session) {
	session := testutil.NewTestSession()
	if user != nil {
		session.UserID = user.ID
	}
	f.sessionRepo.Sessions[session.Token] = session

	ctx := middleware.WithSession(req.Context(), session)
	if user != nil {
		ctx = middleware.WithCurrentUser(ctx, user)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req.WithContext(ctx))
	return w, session
}

func TestReviewHandler_Create(t *testing.T) {
	f := newReviewFixture(t)
	user := testutil.NewTestUser()
	campground := testutil.NewTestCampground()

	form := url.Values{"rating": {"5"}, "body": {"Waking up to the river was unreal."}}
	req := testutil.NewFormRequest(t, http.MethodPost, "/campgrounds/"+campground.ID+"/reviews", form)
	w, session := f.do(req, user)

	testutil.AssertStatusCode(t, w, http.StatusSeeOther)
	testutil.AssertHeader(t, w, "Location", "/campgrounds/"+campground.ID)

	if len(f.reviewRepo.Reviews) != 1 {
		t.Fatalf("expected 1 stored review, got %d", len(f.reviewRepo.Reviews))
	}
	var created *domain.Review
	for _, review := range f.reviewRepo.Reviews {
		created = review
	}
	testutil.AssertEqual(t, created.CampgroundID, campground.ID)
	testutil.AssertEqual(t, created.AuthorID, user.ID)
	testutil.AssertEqual(t, created.Rating, 5)

	stored := f.sessionRepo.Sessions[session.Token]
	testutil.AssertEqual(t, stored.Data[domain.FlashSuccessKey], "Created new review!")
}

func TestReviewHandler_Create_InvalidRating(t *testing.T) {
	f := newReviewFixture(t)
	user := testutil.NewTestUser()

	form := url.Values{"rating": {"11"}, "body": {"Too enthusiastic."}}
	req := testutil.NewFormRequest(t, http.MethodPost, "/campgrounds/camp-1/reviews", form)
	w, _ := f.do(req, user)

	testutil.AssertStatusCode(t, w, http.StatusBadRequest)
	testutil.AssertContains(t, w.Body.String(), "rating")

	if len(f.reviewRepo.Reviews) != 0 {
		t.Error("invalid input should not persist a review")
	}
}

func TestReviewHandler_Create_CampgroundDeletedConcurrently(t *testing.T) {
	f := newReviewFixture(t)
	user := testutil.NewTestUser()

	// The insert hits the gap between page load and submit: the
	// campground is gone and the row is refused.
	f.reviewRepo.CreateFunc = func(ctx context.Context, review *domain.Review) error {
		return domain.ErrCampgroundNotFound
	}

	form := url.Values{"rating": {"5"}, "body": {"Lovely while it lasted."}}
	req := testutil.NewFormRequest(t, http.MethodPost, "/campgrounds/deleted-camp/reviews", form)
	w, _ := f.do(req, user)

	testutil.AssertStatusCode(t, w, http.StatusNotFound)
	testutil.AssertContains(t, w.Body.String(), "Page Not Found")
}

func TestReviewHandler_Delete(t *testing.T) {
	f := newReviewFixture(t)
	author := testutil.NewTestUser()
	campground := testutil.NewTestCampground()
	review := testutil.NewTestReview(
		testutil.WithReviewCampground(campground.ID),
		testutil.WithReviewAuthor(author.ID),
	)
	testutil.AssertNoError(t, f.reviewRepo.Create(context.Background(), review))

	req := httptest.NewRequest(http.MethodDelete,
		"/campgrounds/"+campground.ID+"/reviews/"+review.ID, nil)
	w, session := f.do(req, author)

	testutil.AssertStatusCode(t, w, http.StatusSeeOther)
	testutil.AssertHeader(t, w, "Location", "/campgrounds/"+campground.ID)

	if _, stillThere := f.reviewRepo.Reviews[review.ID]; stillThere {
		t.Error("review should be deleted")
	}

	stored := f.sessionRepo.Sessions[session.Token]
	testutil.AssertEqual(t, stored.Data[domain.FlashSuccessKey], "Successfully deleted review")
}

func TestReviewHandler_Delete_AnonymousUnknownReviewIs404(t *testing.T) {
	f := newReviewFixture(t)

	req := httptest.NewRequest(http.MethodDelete,
		"/campgrounds/camp-1/reviews/no-such-review", nil)
	w, _ := f.do(req, nil)

	testutil.AssertStatusCode(t, w, http.StatusNotFound)
}
