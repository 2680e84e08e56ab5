package notification_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/notification"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

type fakeNotifRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*models.Notification
	saves int
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{rows: map[uuid.UUID]*models.Notification{}}
}

func (f *fakeNotifRepo) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeNotifRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotifRepo) Save(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.rows[n.ID] = &cp
	f.saves++
	return nil
}

func (f *fakeNotifRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeNotifRepo) PagedByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// fakeUsers knows a fixed set of user ids.
type fakeUsers struct {
	mu    sync.Mutex
	known map[uuid.UUID]bool
}

func (f *fakeUsers) add(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.known == nil {
		f.known = map[uuid.UUID]bool{}
	}
	f.known[id] = true
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.known[id] {
		return &models.User{ID: id}, nil
	}
	return nil, repository.ErrNotFound
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func seed(t *testing.T, repo *fakeNotifRepo, userID uuid.UUID, at time.Time) uuid.UUID {
	t.Helper()
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      models.NotificationNewMatch,
		Content:   "You have a new match",
		CreatedAt: at,
	}
	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return n.ID
}

func TestCreatePersistsThenPushes(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)
	userID := uuid.New()

	res, err := svc.Create(context.Background(), userID, models.NotificationNewMatch, "You have a new match", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("expected success, got %+v", res.Err())
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 persisted row, got %d", len(repo.rows))
	}
	if len(notifier.events) != 1 || notifier.events[0] != "notification_created" {
		t.Fatalf("expected notification_created push, got %v", notifier.events)
	}
}

func TestListRejectsBadPagingBeforeStoreAccess(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)

	for _, tc := range []struct{ page, size int }{{0, 10}, {1, 0}, {-1, 10}} {
		res, err := svc.List(context.Background(), uuid.New(), tc.page, tc.size)
		if err != nil {
			t.Fatalf("List(%d,%d): %v", tc.page, tc.size, err)
		}
		if res.IsSuccess() || res.Err().Kind != result.KindFailure {
			t.Fatalf("List(%d,%d): expected Failure, got %+v", tc.page, tc.size, res)
		}
	}
}

func TestListEmptyFeedSucceeds(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)

	userID := uuid.New()
	users.add(userID)

	res, err := svc.List(context.Background(), userID, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("empty feed must succeed, got %+v", res.Err())
	}
	page := res.Value()
	if page.Items == nil || len(page.Items) != 0 || page.TotalItems != 0 {
		t.Fatalf("expected empty envelope, got %+v", page)
	}
}

func TestListUnknownUserIsNotFound(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)

	res, err := svc.List(context.Background(), uuid.New(), 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.IsSuccess() || res.Err().Kind != result.KindNotFound {
		t.Fatalf("expected NotFound for unknown user, got %+v", res)
	}
}

func TestListPagesNewestFirst(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)
	userID := uuid.New()
	users.add(userID)

	base := time.Now()
	var newest uuid.UUID
	for i := 0; i < 12; i++ {
		newest = seed(t, repo, userID, base.Add(time.Duration(i)*time.Minute))
	}
	seed(t, repo, uuid.New(), base) // someone else's, must not leak

	res, err := svc.List(context.Background(), userID, 1, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	page := res.Value()
	if page.TotalItems != 12 || len(page.Items) != 5 {
		t.Fatalf("expected 5 of 12 items, got %d of %d", len(page.Items), page.TotalItems)
	}
	if page.Items[0].ID != newest.String() {
		t.Fatalf("expected newest first, got %s", page.Items[0].ID)
	}
}

func TestMarkAsRead(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)
	userID := uuid.New()
	id := seed(t, repo, userID, time.Now())

	res, err := svc.MarkAsRead(context.Background(), id, userID)
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	dto := res.Value()
	if !dto.IsRead || dto.ReadAt == nil {
		t.Fatalf("expected read with timestamp, got %+v", dto)
	}

	// second read: success, no second write
	savesBefore := repo.saves
	res, err = svc.MarkAsRead(context.Background(), id, userID)
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("re-read must succeed, got %+v", res.Err())
	}
	if repo.saves != savesBefore {
		t.Fatal("re-read must not write")
	}
}

func TestMarkAsReadErrors(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)
	owner := uuid.New()
	id := seed(t, repo, owner, time.Now())

	res, err := svc.MarkAsRead(context.Background(), uuid.New(), owner)
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if res.IsSuccess() || res.Err().Kind != result.KindNotFound {
		t.Fatalf("expected NotFound, got %+v", res)
	}

	res, err = svc.MarkAsRead(context.Background(), id, uuid.New())
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if res.IsSuccess() || res.Err().Kind != result.KindForbidden {
		t.Fatalf("expected Forbidden for non-owner, got %+v", res)
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	repo, users, notifier := newFakeNotifRepo(), &fakeUsers{}, &fakeNotifier{}
	svc := notification.NewService(repo, users, notifier)
	owner := uuid.New()
	id := seed(t, repo, owner, time.Now())

	res, err := svc.Delete(context.Background(), id, uuid.New())
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.IsSuccess() || res.Err().Kind != result.KindForbidden {
		t.Fatalf("expected Forbidden for non-owner, got %+v", res)
	}
	if len(repo.rows) != 1 {
		t.Fatal("forbidden delete must not remove the row")
	}

	res, err = svc.Delete(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("owner delete must succeed, got %+v", res.Err())
	}
	if len(repo.rows) != 0 {
		t.Fatal("row must be gone after delete")
	}
}
