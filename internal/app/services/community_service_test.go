package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunity_PostsNewestFirst(t *testing.T) {
	svc := NewCommunityService(newTestStore(t), nopLogger).(*communityServiceImpl)
	member := viewerFor(models.TierFree)
	ctx := context.Background()

	clock := fixedClock("2025-09-08 09:00")()
	for i, content := range []string{"first", "second", "third"} {
		at := clock.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.CreatePost(ctx, member, content)
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Content)
	assert.Equal(t, "first", posts[2].Content)
	assert.NotNil(t, posts[0].Comments)
	assert.Equal(t, member.DisplayName(), posts[0].Author)
}

func TestCommunity_Gate(t *testing.T) {
	svc := NewCommunityService(newTestStore(t), nopLogger)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, nil, "hello")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))

	_, err = svc.CreatePost(ctx, viewerFor(models.TierFree), "  ")
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestCommunity_LikeAndComment(t *testing.T) {
	svc := NewCommunityService(newTestStore(t), nopLogger)
	author := viewerFor(models.TierPremium)
	reader := viewerFor(models.TierFree)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author, "Referral night on Friday")
	require.NoError(t, err)

	liked, err := svc.LikePost(ctx, reader, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = svc.LikePost(ctx, author, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	commented, err := svc.AddComment(ctx, reader, post.ID, "Count me in")
	require.NoError(t, err)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, reader.DisplayName(), commented.Comments[0].Author)
	assert.Equal(t, 2, commented.Likes)

	_, err = svc.LikePost(ctx, reader, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = svc.AddComment(ctx, nil, post.ID, "anon")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}
