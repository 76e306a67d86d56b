package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/storage"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := storage.Open(context.Background(), "file:svc_"+name+"?mode=memory&cache=shared", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fastHasher(t *testing.T) *cryptox.Hasher {
	t.Helper()
	h, err := cryptox.NewHasher(cryptox.Blake2b)
	require.NoError(t, err)
	return h
}

func newServices(t *testing.T) (*UserService, *DiaryService) {
	t.Helper()
	st := openStore(t)
	users, err := NewUserService(st, fastHasher(t), auth.NewIssuer(auth.NewSecretCache(), time.Hour), nil)
	require.NoError(t, err)
	return users, NewDiaryService(st, nil)
}

// failingStore fails every call with a storage error.
type failingStore struct{}

var errStore = common.ErrorStorage

func (failingStore) UserExists(context.Context, string) (bool, error) { return false, errStore }
func (failingStore) AddUser(context.Context, string, string, string) (int64, error) {
	return 0, errStore
}
func (failingStore) FindUserID(context.Context, string) (int64, bool, error) {
	return 0, false, errStore
}
func (failingStore) GetUserCredentials(context.Context, string) (*models.User, error) {
	return nil, errStore
}
func (failingStore) GetUserProfile(context.Context, int64) (*models.UserProfile, error) {
	return nil, errStore
}
func (failingStore) UpdateUserProfile(context.Context, int64, models.ProfileUpdate) (bool, error) {
	return false, errStore
}
func (failingStore) CreateDiaryBook(context.Context, string, int64) (int64, error) {
	return 0, errStore
}
func (failingStore) GetDiaryBook(context.Context, int64) (*models.DiaryBook, error) {
	return nil, errStore
}
func (failingStore) ListDiaryBooks(context.Context, int64) ([]models.DiaryBook, error) {
	return nil, errStore
}
func (failingStore) IsBookOwner(context.Context, int64, int64) (bool, error) { return false, errStore }
func (failingStore) AddDiary(context.Context, int64, string, int64, string) (int64, error) {
	return 0, errStore
}
func (failingStore) ListDiaries(context.Context, int64) ([]models.DiaryEntry, error) {
	return nil, errStore
}
func (failingStore) GetDiary(context.Context, int64) (*models.DiaryEntry, error) {
	return nil, errStore
}
func (failingStore) GetBootstrapInfo(context.Context) (*models.BootstrapInfo, error) {
	return nil, errStore
}
func (failingStore) SetBootstrapInfo(context.Context, *models.BootstrapInfo) error { return errStore }

// memBootstrap keeps the bootstrap record in memory.
type memBootstrap struct {
	bi   *models.BootstrapInfo
	sets int
}

func (m *memBootstrap) GetBootstrapInfo(context.Context) (*models.BootstrapInfo, error) {
	if m.bi == nil {
		return nil, nil
	}
	cp := *m.bi
	return &cp, nil
}

func (m *memBootstrap) SetBootstrapInfo(_ context.Context, bi *models.BootstrapInfo) error {
	cp := *bi
	m.bi = &cp
	m.sets++
	return nil
}
