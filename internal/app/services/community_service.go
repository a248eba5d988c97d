package services

import (
	"context"
	"sort"
	"strings"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/rs/zerolog"
)

// CommunityService defines the community board operations
type CommunityService interface {
	ListPosts(ctx context.Context) ([]models.CommunityPost, error)
	CreatePost(ctx context.Context, viewer *appAuth.Viewer, content string) (*models.CommunityPost, error)
	LikePost(ctx context.Context, viewer *appAuth.Viewer, postID string) (*models.CommunityPost, error)
	AddComment(ctx context.Context, viewer *appAuth.Viewer, postID, text string) (*models.CommunityPost, error)
}

type communityServiceImpl struct {
	store  liststore.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(store liststore.Store, logger zerolog.Logger) CommunityService {
	return &communityServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ListPosts returns every post, newest first
func (s *communityServiceImpl) ListPosts(ctx context.Context) ([]models.CommunityPost, error) {
	posts, err := readList[models.CommunityPost](ctx, s.store, liststore.KeyCommunityPosts)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	for i := range posts {
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
	}
	return posts, nil
}

// CreatePost publishes a post on behalf of viewer
func (s *communityServiceImpl) CreatePost(ctx context.Context, viewer *appAuth.Viewer, content string) (*models.CommunityPost, error) {
	if err := appAuth.RequirePostCommunity(viewer); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("Post cannot be empty.")
	}

	post := models.CommunityPost{
		ID:        newID(),
		Author:    viewer.DisplayName(),
		AuthorID:  viewer.ID(),
		Content:   content,
		Timestamp: s.now(),
		Comments:  []models.Comment{},
	}

	_, err := updateList(ctx, s.store, liststore.KeyCommunityPosts, func(list []models.CommunityPost) ([]models.CommunityPost, error) {
		return append([]models.CommunityPost{post}, list...), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("postID", post.ID).Str("authorID", post.AuthorID).Msg("Community post created")
	return &post, nil
}

// LikePost increments the like counter of a post
func (s *communityServiceImpl) LikePost(ctx context.Context, viewer *appAuth.Viewer, postID string) (*models.CommunityPost, error) {
	if err := appAuth.RequirePostCommunity(viewer); err != nil {
		return nil, err
	}
	return s.modifyPost(ctx, postID, func(p *models.CommunityPost) {
		p.Likes++
	})
}

// AddComment appends a comment to a post
func (s *communityServiceImpl) AddComment(ctx context.Context, viewer *appAuth.Viewer, postID, text string) (*models.CommunityPost, error) {
	if err := appAuth.RequirePostCommunity(viewer); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Comment cannot be empty.")
	}

	comment := models.Comment{
		ID:        newID(),
		Author:    viewer.DisplayName(),
		AuthorID:  viewer.ID(),
		Text:      text,
		Timestamp: s.now(),
	}
	return s.modifyPost(ctx, postID, func(p *models.CommunityPost) {
		p.Comments = append(p.Comments, comment)
	})
}

func (s *communityServiceImpl) modifyPost(ctx context.Context, postID string, fn func(*models.CommunityPost)) (*models.CommunityPost, error) {
	var updated models.CommunityPost
	_, err := updateList(ctx, s.store, liststore.KeyCommunityPosts, func(list []models.CommunityPost) ([]models.CommunityPost, error) {
		for i := range list {
			if list[i].ID == postID {
				fn(&list[i])
				updated = list[i]
				return list, nil
			}
		}
		return nil, apperrors.NewResourceNotFoundError("Post not found")
	})
	if err != nil {
		return nil, err
	}
	if updated.Comments == nil {
		updated.Comments = []models.Comment{}
	}
	return &updated, nil
}
