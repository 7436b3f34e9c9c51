package user

import (
	"context"
	"testing"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lessonRow stands in for the lessons table when counting per-user lessons.
type lessonRow struct {
	common.BaseModel
	CreatorEmail string
	IsDeleted    bool
}

func (lessonRow) TableName() string { return "lessons" }

func newTestService(t *testing.T) (*ServiceImplementation, Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t, &User{}, &lessonRow{})
	repo := NewGORMRepository(database.Static(db))
	return NewService(repo, zap.NewNop()), repo, db
}

func TestUpsert_CreatesThenRefreshesDisplayFields(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, UpsertUserRequest{Email: "Ana@Example.com", Name: "Ana", PhotoURL: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, common.RoleUser, created.Role)
	assert.False(t, created.IsPremium)

	_, err = repo.GrantPremium(ctx, PremiumGrant{Email: "ana@example.com", Since: time.Now(), TransactionID: "pi_1"})
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, UpsertUserRequest{Email: "ana@example.com", Name: "Ana B", PhotoURL: "b.png"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana B", updated.Name)
	assert.Equal(t, "b.png", updated.PhotoURL)
	assert.True(t, updated.IsPremium, "upsert must not reset premium")
	assert.Equal(t, common.RoleUser, updated.Role)
}

func TestGetByEmail_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByEmail(context.Background(), "nobody@example.com")
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestIsAdmin_SelfOnly(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&User{Email: "admin@example.com", Role: common.RoleAdmin}).Error)

	admin, err := svc.IsAdmin(ctx, "admin@example.com", "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin)

	_, err = svc.IsAdmin(ctx, "someone@example.com", "admin@example.com")
	assert.ErrorIs(t, err, common.ErrForbidden)

	admin, err = svc.IsAdmin(ctx, "ghost@example.com", "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestList_IncludesLessonCounts(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&User{Email: "a@example.com", Role: common.RoleUser}).Error)
	require.NoError(t, db.Create(&User{Email: "b@example.com", Role: common.RoleUser}).Error)
	require.NoError(t, db.Create(&[]lessonRow{
		{CreatorEmail: "a@example.com"},
		{CreatorEmail: "a@example.com"},
		{CreatorEmail: "a@example.com", IsDeleted: true},
	}).Error)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	counts := map[string]int64{}
	for _, u := range users {
		counts[u.Email] = u.LessonCount
	}
	assert.Equal(t, int64(2), counts["a@example.com"])
	assert.Equal(t, int64(0), counts["b@example.com"])
}

func TestUpdateRole_AdminCannotDemoteSelf(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	self := &User{Email: "root@example.com", Role: common.RoleAdmin}
	require.NoError(t, db.Create(self).Error)

	err := svc.UpdateRole(ctx, "root@example.com", self.ID, common.RoleUser)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "You cannot demote yourself", apiErr.Message)

	stored, err := repo.FindByID(ctx, self.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RoleAdmin, stored.Role)
}

func TestUpdateRole_PromotesAndDemotesOthers(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	other := &User{Email: "other@example.com", Role: common.RoleUser}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, svc.MakeAdmin(ctx, other.ID))
	stored, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RoleAdmin, stored.Role)

	require.NoError(t, svc.UpdateRole(ctx, "root@example.com", other.ID, common.RoleUser))
	stored, err = repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RoleUser, stored.Role)

	assert.ErrorIs(t, svc.MakeAdmin(ctx, uuid.New()), common.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateRole(ctx, "root@example.com", other.ID, "owner"), common.ErrBadRequest)
}

func TestDelete_RejectsSelfAndMissing(t *testing.T) {
	svc, repo, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&User{Email: "gone@example.com", Role: common.RoleUser}).Error)

	assert.ErrorIs(t, svc.Delete(ctx, "root@example.com", "root@example.com"), common.ErrConflict)
	require.NoError(t, svc.Delete(ctx, "root@example.com", "gone@example.com"))
	assert.ErrorIs(t, svc.Delete(ctx, "root@example.com", "gone@example.com"), common.ErrNotFound)

	_, err := repo.FindByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRoleOfAndEmailExists(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&User{Email: "u@example.com", Role: common.RoleUser}).Error)

	role, err := svc.RoleOf(ctx, "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, common.RoleUser, role)

	_, err = svc.RoleOf(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, middleware.ErrUnknownUser)

	exists, err := svc.EmailExists(ctx, "U@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = svc.EmailExists(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGrantPremium_IsIdempotentAndCreatesMissingUser(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()
	since := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := repo.GrantPremium(ctx, PremiumGrant{Email: "buyer@example.com", Since: since, TransactionID: "pi_42"})
	require.NoError(t, err)
	second, err := repo.GrantPremium(ctx, PremiumGrant{Email: "buyer@example.com", Since: since, TransactionID: "pi_42"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsPremium)
	require.NotNil(t, second.LastTransactionID)
	assert.Equal(t, "pi_42", *second.LastTransactionID)
	assert.Equal(t, common.RoleUser, second.Role)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
