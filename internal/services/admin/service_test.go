package admin_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/admin"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	admins  map[uuid.UUID]*models.Administrator
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[uuid.UUID]*models.User{},
		admins: map[uuid.UUID]*models.Administrator{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	f.updates++
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) CountActive(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) LatestPaged(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.User
	for _, u := range f.users {
		all = append(all, *u)
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

func (f *fakeUserRepo) LastBanned(ctx context.Context, limit int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var banned []models.User
	for _, u := range f.users {
		if !u.IsActive {
			banned = append(banned, *u)
		}
	}
	sort.Slice(banned, func(i, j int) bool {
		var ti, tj time.Time
		if banned[i].BannedAt != nil {
			ti = *banned[i].BannedAt
		}
		if banned[j].BannedAt != nil {
			tj = *banned[j].BannedAt
		}
		return ti.After(tj)
	})
	if len(banned) > limit {
		banned = banned[:limit]
	}
	return banned, nil
}

func (f *fakeUserRepo) CreateExpert(ctx context.Context, e *models.Expert) error { return nil }

func (f *fakeUserRepo) CreateRecruiter(ctx context.Context, r *models.Recruiter) error {
	return nil
}

func (f *fakeUserRepo) ExpertIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserRepo) RecruiterIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}

func (f *fakeUserRepo) CreateAdmin(ctx context.Context, a *models.Administrator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.admins[a.ID] = &cp
	return nil
}

func (f *fakeUserRepo) AdminByID(ctx context.Context, id uuid.UUID) (*models.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeUserRepo) AdminByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) AdminEmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.AdminByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) AdminUsernameExists(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, active bool, createdAt time.Time) *models.User {
	t.Helper()
	u := &models.User{
		ID:        uuid.New(),
		Username:  "u-" + uuid.NewString()[:8],
		Email:     uuid.NewString()[:8] + "@example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
		IsActive:  active,
		CreatedAt: createdAt,
	}
	if !active {
		bannedAt := createdAt.Add(time.Hour)
		u.BannedAt = &bannedAt
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestBanUnknownUserIsNotFound(t *testing.T) {
	svc := admin.NewService(newFakeUserRepo())

	res, err := svc.BanUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	if res.IsSuccess() || res.Err().Kind != result.KindNotFound {
		t.Fatalf("expected NotFound, got %+v", res)
	}
}

func TestBanThenUnban(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)
	u := seedUser(t, repo, true, time.Now())

	res, err := svc.BanUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	if !res.IsSuccess() || !strings.Contains(res.Value(), "banned successfully") {
		t.Fatalf("unexpected ban result: %+v", res)
	}

	got, _ := repo.GetByID(context.Background(), u.ID)
	if got.IsActive || got.BannedAt == nil {
		t.Fatalf("expected inactive user with banned timestamp, got %+v", got)
	}

	res, err = svc.UnbanUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	if !res.IsSuccess() || !strings.Contains(res.Value(), "unbanned successfully") {
		t.Fatalf("unexpected unban result: %+v", res)
	}

	got, _ = repo.GetByID(context.Background(), u.ID)
	if !got.IsActive || got.BannedAt != nil {
		t.Fatalf("expected reactivated user, got %+v", got)
	}
}

func TestBanIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)
	u := seedUser(t, repo, true, time.Now())

	if _, err := svc.BanUser(context.Background(), u.ID); err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	updatesBefore := repo.updates
	res, err := svc.BanUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("re-ban must succeed, got %+v", res.Err())
	}
	if repo.updates != updatesBefore {
		t.Fatal("re-ban must not write")
	}
}

func TestCreateAdminConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)

	in := admin.CreateAdminInput{
		Username:  "root",
		Email:     "root@example.com",
		Password:  "supersecret",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	res, err := svc.CreateAdmin(context.Background(), in)
	if err != nil || !res.IsSuccess() {
		t.Fatalf("first CreateAdmin failed: %v %+v", err, res)
	}

	res, err = svc.CreateAdmin(context.Background(), admin.CreateAdminInput{
		Username: "other", Email: "root@example.com", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if res.IsSuccess() || res.Err().Code != "Admin.EmailAlreadyExists" {
		t.Fatalf("expected email conflict, got %+v", res)
	}

	res, err = svc.CreateAdmin(context.Background(), admin.CreateAdminInput{
		Username: "root", Email: "other@example.com", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if res.IsSuccess() || res.Err().Code != "Admin.UsernameAlreadyExists" {
		t.Fatalf("expected username conflict, got %+v", res)
	}
}

func TestCreateAdminHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)

	res, err := svc.CreateAdmin(context.Background(), admin.CreateAdminInput{
		Username: "root", Email: "root@example.com", Password: "supersecret",
	})
	if err != nil || !res.IsSuccess() {
		t.Fatalf("CreateAdmin failed: %v %+v", err, res)
	}

	stored, err := repo.AdminByEmail(context.Background(), "root@example.com")
	if err != nil {
		t.Fatalf("AdminByEmail: %v", err)
	}
	if stored.Password == "supersecret" {
		t.Fatal("password must not be stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")) != nil {
		t.Fatal("stored hash must verify against the original password")
	}
}

func TestActiveUsersCount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)
	seedUser(t, repo, true, time.Now())
	seedUser(t, repo, true, time.Now())
	seedUser(t, repo, false, time.Now())

	count, err := svc.ActiveUsersCount(context.Background())
	if err != nil {
		t.Fatalf("ActiveUsersCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 active users, got %d", count)
	}
}

func TestLatestUsersPaged(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)

	res, err := svc.LatestUsersPaged(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("LatestUsersPaged: %v", err)
	}
	if res.IsSuccess() {
		t.Fatal("non-positive page must be rejected")
	}

	base := time.Now()
	var newest *models.User
	for i := 0; i < 7; i++ {
		newest = seedUser(t, repo, true, base.Add(time.Duration(i)*time.Minute))
	}

	res, err = svc.LatestUsersPaged(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("LatestUsersPaged: %v", err)
	}
	page := res.Value()
	if page.TotalItems != 7 || len(page.Items) != 5 {
		t.Fatalf("expected 5 of 7 users, got %d of %d", len(page.Items), page.TotalItems)
	}
	if page.Items[0].ID != newest.ID.String() {
		t.Fatalf("expected newest first, got %s", page.Items[0].ID)
	}
}

func TestLastBannedUsers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := admin.NewService(repo)

	res, err := svc.LastBannedUsers(context.Background())
	if err != nil {
		t.Fatalf("LastBannedUsers: %v", err)
	}
	if !res.IsSuccess() || len(res.Value()) != 0 {
		t.Fatalf("empty list must succeed, got %+v", res)
	}

	seedUser(t, repo, true, time.Now())
	banned := seedUser(t, repo, false, time.Now())

	res, err = svc.LastBannedUsers(context.Background())
	if err != nil {
		t.Fatalf("LastBannedUsers: %v", err)
	}
	users := res.Value()
	if len(users) != 1 || users[0].ID != banned.ID.String() {
		t.Fatalf("expected only the banned user, got %+v", users)
	}
}
