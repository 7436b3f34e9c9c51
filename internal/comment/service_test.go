package comment

import (
	"context"
	"testing"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/lesson"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*ServiceImplementation, *lesson.ServiceImplementation) {
	t.Helper()
	db := dbtest.New(t, &user.User{}, &lesson.Lesson{}, &lesson.Like{}, &Comment{})
	conn := database.Static(db)
	users := user.NewGORMRepository(conn)
	require.NoError(t, db.Create(&user.User{Email: "writer@example.com", Name: "Writer", PhotoURL: "w.png", Role: common.RoleUser}).Error)
	lessons := lesson.NewService(lesson.NewGORMRepository(conn), users, nil, zap.NewNop())
	return NewService(NewGORMRepository(conn), lessons, users, zap.NewNop()), lessons
}

func TestCreateAndList(t *testing.T) {
	svc, lessons := newTestService(t)
	ctx := context.Background()
	l, err := lessons.Create(ctx, "author@example.com", lesson.CreateLessonRequest{Title: "T", ShortDescription: "S"})
	require.NoError(t, err)

	first, err := svc.Create(ctx, "writer@example.com", l.ID, CreateCommentRequest{Text: "First", UserName: "Ignored"})
	require.NoError(t, err)
	assert.Equal(t, "Writer", first.UserName)
	assert.Equal(t, "w.png", first.UserPhoto)

	guest, err := svc.Create(ctx, "guest@example.com", l.ID, CreateCommentRequest{Text: "Second", UserName: "Guest"})
	require.NoError(t, err)
	assert.Equal(t, "Guest", guest.UserName)

	comments, err := svc.List(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Second", comments[0].Text)
}

func TestCreate_Validation(t *testing.T) {
	svc, lessons := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "writer@example.com", uuid.New(), CreateCommentRequest{Text: "  "})
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Comment text is required", apiErr.Message)

	_, err = svc.Create(ctx, "writer@example.com", uuid.New(), CreateCommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	l, err := lessons.Create(ctx, "author@example.com", lesson.CreateLessonRequest{Title: "T", ShortDescription: "S"})
	require.NoError(t, err)
	require.NoError(t, lessons.SoftDelete(ctx, l.ID))
	_, err = svc.List(ctx, l.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate_RespectsLessonVisibility(t *testing.T) {
	svc, lessons := newTestService(t)
	ctx := context.Background()

	private, err := lessons.Create(ctx, "author@example.com", lesson.CreateLessonRequest{Title: "Diary", ShortDescription: "S", Visibility: "private"})
	require.NoError(t, err)
	premium, err := lessons.Create(ctx, "author@example.com", lesson.CreateLessonRequest{Title: "Paid", ShortDescription: "S", AccessLevel: "premium"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "writer@example.com", private.ID, CreateCommentRequest{Text: "peek"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.List(ctx, private.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Create(ctx, "writer@example.com", premium.ID, CreateCommentRequest{Text: "peek"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.List(ctx, premium.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Create(ctx, "author@example.com", private.ID, CreateCommentRequest{Text: "note to self"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Author@Example.com", premium.ID, CreateCommentRequest{Text: "mine"})
	require.NoError(t, err)
}
