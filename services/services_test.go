package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
	"github.com/yeremiapane/realestate-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeUploader struct {
	mu       sync.Mutex
	failOn   int // 1-based upload call that fails; 0 never fails
	calls    int
	stored   map[string]bool
	uploaded []string
	removed  []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: make(map[string]bool)}
}

func (f *fakeUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return "", errors.New("disk full")
	}
	p := fmt.Sprintf("/%s/%d-%s", folder, f.calls, file.Filename)
	f.stored[p] = true
	f.uploaded = append(f.uploaded, p)
	return p, nil
}

func (f *fakeUploader) Remove(ctx context.Context, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, p)
	f.removed = append(f.removed, p)
	return nil
}

type pushed struct {
	userID string
	event  string
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushed
}

func (f *fakePusher) Push(userID, event string, payload interface{}) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushed{userID: userID, event: event})
	return 1
}

type testEnv struct {
	db            *gorm.DB
	store         *repository.Store
	uploader      *fakeUploader
	pusher        *fakePusher
	notifications *NotificationService
	history       *HistoryService
	users         *UserService
	properties    *PropertyService
	agents        *AgentService
	views         *PropertyViewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	store := repository.NewStore(db)
	env := &testEnv{
		db:       db,
		store:    store,
		uploader: newFakeUploader(),
		pusher:   &fakePusher{},
	}
	env.notifications = NewNotificationService(store.Notifications, env.pusher, nil)
	env.history = NewHistoryService(store.History)
	env.users = NewUserService(store.Users, env.uploader, env.notifications, env.history)
	env.properties = NewPropertyService(store.Properties, env.uploader, env.notifications, env.history, nil)
	env.agents = NewAgentService(store.Agents, store.Users, env.notifications, env.history, nil)
	env.views = NewPropertyViewService(store.Views, store.Properties)
	return env
}

// newUser stores a user and returns it as an actor.
func (e *testEnv) newUser(t *testing.T, email string, roles ...models.Role) models.Actor {
	t.Helper()
	u := &models.User{Email: email, Password: "x", Roles: models.NewRoleSet(roles...)}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return models.Actor{UserID: u.ID, Email: u.Email, Roles: u.Roles}
}

func (e *testEnv) newListing(t *testing.T, owner models.Actor, typ models.ListingType) *models.Property {
	t.Helper()
	price := 150000.0
	p, err := e.properties.Create(context.Background(), owner, CreatePropertyInput{
		Title: "Listing", Price: &price, Type: typ,
	}, nil)
	require.NoError(t, err)
	return p
}

func fileHeaders(n int) []*multipart.FileHeader {
	files := make([]*multipart.FileHeader, n)
	for i := range files {
		files[i] = &multipart.FileHeader{Filename: fmt.Sprintf("img%d.jpg", i), Size: 10}
	}
	return files
}

func floatPtr(v float64) *float64 { return &v }
