package services

import (
	"context"
	"fmt"
	"strings"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/helpers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const allIndustries = "all"

// DirectoryService defines the member directory operations
type DirectoryService interface {
	Search(ctx context.Context, viewer *appAuth.Viewer, q *dto.DirectoryQuery) (*dto.PaginatedData, error)
	Industries() []string
	Connect(ctx context.Context, viewer *appAuth.Viewer, targetID uuid.UUID) (*dto.ConversationResponse, error)
}

type directoryServiceImpl struct {
	profiles repositories.IProfileRepository
	messages MessageService
	logger   zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(profiles repositories.IProfileRepository, messages MessageService, logger zerolog.Logger) DirectoryService {
	return &directoryServiceImpl{
		profiles: profiles,
		messages: messages,
		logger:   logger,
	}
}

// Search lists the businesses matching the query as viewer may see them
func (s *directoryServiceImpl) Search(ctx context.Context, viewer *appAuth.Viewer, q *dto.DirectoryQuery) (*dto.PaginatedData, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	matches := FilterProfiles(profiles, q.Search, q.Industry)

	// Without a page size every match is returned on one page
	total := len(matches)
	start, end, page, pageSize := helpers.PageWindow(q.Page, q.PageSize, total)

	entries := make([]dto.DirectoryEntry, 0, end-start)
	for i := start; i < end; i++ {
		entries = append(entries, DirectoryEntryFor(viewer, &matches[i]))
	}

	return &dto.PaginatedData{
		Items:      entries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: helpers.TotalPages(total, pageSize),
	}, nil
}

// Industries returns the fixed industry filter options
func (s *directoryServiceImpl) Industries() []string {
	out := make([]string, len(models.Industries))
	copy(out, models.Industries)
	return out
}

// Connect opens a conversation with a directory member when the gate allows it
func (s *directoryServiceImpl) Connect(ctx context.Context, viewer *appAuth.Viewer, targetID uuid.UUID) (*dto.ConversationResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	target, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.NewResourceNotFoundError("Member not found")
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	if err := appAuth.RequireConnect(viewer, target.MembershipType); err != nil {
		s.logger.Debug().Str("viewer", viewer.ID()).Str("target", targetID.String()).Msg("Connect blocked by membership tier")
		return nil, err
	}

	return s.messages.Open(ctx, viewer, target)
}

// FilterProfiles applies the case-insensitive text search over business name,
// industry and owner name, and the exact industry filter. An empty industry or
// "all" matches everything.
func FilterProfiles(profiles []models.Profile, search, industry string) []models.Profile {
	term := strings.ToLower(strings.TrimSpace(search))
	industry = strings.TrimSpace(industry)

	out := []models.Profile{}
	for _, p := range profiles {
		if industry != "" && !strings.EqualFold(industry, allIndustries) && p.Industry != industry {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.BusinessName), term) &&
			!strings.Contains(strings.ToLower(p.Industry), term) &&
			!strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DirectoryEntryFor projects a profile for viewer, omitting contact details
// the viewer may not see
func DirectoryEntryFor(viewer *appAuth.Viewer, p *models.Profile) dto.DirectoryEntry {
	entry := dto.DirectoryEntry{
		ID:              p.ID.String(),
		Name:            p.Name,
		BusinessName:    p.BusinessName,
		Industry:        p.Industry,
		Description:     p.Description,
		Chapter:         p.Chapter,
		MembershipType:  p.MembershipType,
		MembershipLabel: p.MembershipType.Label(),
		CanConnect:      appAuth.CanConnect(viewer, p.MembershipType),
	}

	if appAuth.CanViewContactInfo(viewer, p.MembershipType) {
		socials := p.Socials
		entry.Phone = p.Phone
		entry.Email = p.Email
		entry.Socials = &socials
	} else {
		entry.ContactHidden = true
	}

	if viewer != nil && viewer.AccountID == p.ID {
		entry.CanConnect = false
	}
	return entry
}
