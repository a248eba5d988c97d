package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// OverviewActivityLimit is the number of activities shown on the console overview
const OverviewActivityLimit = 5

// Member roster actions
const (
	MemberActionApprove = "approve"
	MemberActionSuspend = "suspend"
	MemberActionDelete  = "delete"
)

// AdminService defines the board-only console operations
type AdminService interface {
	Overview(ctx context.Context, viewer *appAuth.Viewer) (*dto.AdminOverview, error)

	ListMembers(ctx context.Context, viewer *appAuth.Viewer) ([]models.Member, error)
	AddMember(ctx context.Context, viewer *appAuth.Viewer, req *dto.AddMemberRequest) (*models.Member, error)
	MemberAction(ctx context.Context, viewer *appAuth.Viewer, memberID, action string) error
	SeedRoster(ctx context.Context) error
	RecordSignUp(ctx context.Context, ev SessionEvent)

	ListChat(ctx context.Context, viewer *appAuth.Viewer) ([]models.AdminMessage, error)
	PostChat(ctx context.Context, viewer *appAuth.Viewer, text string) (*models.AdminMessage, error)

	ListMeetings(ctx context.Context, viewer *appAuth.Viewer) ([]models.Meeting, error)
	ScheduleMeeting(ctx context.Context, viewer *appAuth.Viewer, req *dto.MeetingRequest) (*models.Meeting, error)

	ListSuggestions(ctx context.Context, viewer *appAuth.Viewer) ([]models.Suggestion, error)
	SubmitSuggestion(ctx context.Context, viewer *appAuth.Viewer, text string) (*models.Suggestion, error)
	DeleteSuggestion(ctx context.Context, viewer *appAuth.Viewer, id string) error
}

type adminServiceImpl struct {
	store    liststore.Store
	profiles repositories.IProfileRepository
	events   repositories.IEventRepository
	activity ActivityLog
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(
	store liststore.Store,
	profiles repositories.IProfileRepository,
	events repositories.IEventRepository,
	activity ActivityLog,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		store:    store,
		profiles: profiles,
		events:   events,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// Overview loads the console counters concurrently
func (s *adminServiceImpl) Overview(ctx context.Context, viewer *appAuth.Viewer) (*dto.AdminOverview, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}

	var (
		members    []models.Member
		profiles   []models.Profile
		eventCount int64
		recent     []models.ActivityLogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = readList[models.Member](gctx, s.store, liststore.KeyMembers)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.profiles.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		eventCount, err = s.events.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.activity.Recent(gctx, OverviewActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load admin overview: %w", err)
	}

	overview := &dto.AdminOverview{
		TotalMembers:     len(members),
		ActiveBusinesses: len(profiles),
		TotalEvents:      eventCount,
		RecentActivity:   recent,
	}
	for _, m := range members {
		if m.MembershipType == models.TierPremium {
			overview.PremiumMembers++
		}
		if m.Status == models.MemberPending {
			overview.PendingMembers++
		}
	}
	return overview, nil
}

// ListMembers returns the roster
func (s *adminServiceImpl) ListMembers(ctx context.Context, viewer *appAuth.Viewer) ([]models.Member, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}
	return readList[models.Member](ctx, s.store, liststore.KeyMembers)
}

// AddMember appends an active member to the roster
func (s *adminServiceImpl) AddMember(ctx context.Context, viewer *appAuth.Viewer, req *dto.AddMemberRequest) (*models.Member, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}

	tier := models.TierFree
	if req.MembershipType != "" {
		parsed, err := models.ParseTier(string(req.MembershipType))
		if err != nil {
			return nil, err
		}
		tier = parsed
	}

	member := models.Member{
		ID:             newID(),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		BusinessName:   strings.TrimSpace(req.BusinessName),
		MembershipType: tier,
		JoinDate:       s.now().Format(models.DateLayout),
		Status:         models.MemberActive,
	}

	_, err := updateList(ctx, s.store, liststore.KeyMembers, func(list []models.Member) ([]models.Member, error) {
		for _, m := range list {
			if strings.EqualFold(m.Email, member.Email) {
				return nil, apperrors.NewConflictError("A member with this email is already on the roster.")
			}
		}
		return append(list, member), nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, models.ActivityAdmin, fmt.Sprintf("%s was added to the roster by %s.", member.Name, viewer.DisplayName()))
	return &member, nil
}

// MemberAction approves, suspends or removes a roster entry
func (s *adminServiceImpl) MemberAction(ctx context.Context, viewer *appAuth.Viewer, memberID, action string) error {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return err
	}

	var name string
	_, err := updateList(ctx, s.store, liststore.KeyMembers, func(list []models.Member) ([]models.Member, error) {
		out := make([]models.Member, 0, len(list))
		found := false
		for _, m := range list {
			if m.ID != memberID {
				out = append(out, m)
				continue
			}
			found = true
			name = m.Name
			switch action {
			case MemberActionApprove:
				m.Status = models.MemberActive
			case MemberActionSuspend:
				m.Status = models.MemberSuspended
			case MemberActionDelete:
				continue
			default:
				return nil, apperrors.NewBadRequestError("Unknown member action: " + action)
			}
			out = append(out, m)
		}
		if !found {
			return nil, apperrors.NewResourceNotFoundError("Member not found")
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("memberID", memberID).Str("action", action).Str("by", viewer.ID()).Msg("Roster updated")
	s.recordActivity(ctx, models.ActivityAdmin, fmt.Sprintf("%s: %s by %s.", name, memberActionPast(action), viewer.DisplayName()))
	return nil
}

func memberActionPast(action string) string {
	switch action {
	case MemberActionApprove:
		return "approved"
	case MemberActionSuspend:
		return "suspended"
	default:
		return "removed"
	}
}

// SeedRoster fills an absent roster from the stored profiles. A roster that
// already exists, even empty, is left alone.
func (s *adminServiceImpl) SeedRoster(ctx context.Context) error {
	_, version, err := liststore.Read[models.Member](ctx, s.store, liststore.KeyMembers)
	if err != nil {
		return err
	}
	if version != liststore.Absent {
		return nil
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles for roster: %w", err)
	}

	members := make([]models.Member, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, memberFromProfile(&p))
	}

	if _, err := liststore.Write(ctx, s.store, liststore.KeyMembers, members, liststore.Absent); err != nil {
		if apperrors.Is(err, liststore.ErrConflict) {
			return nil
		}
		return err
	}
	s.logger.Info().Int("members", len(members)).Msg("Member roster seeded from profiles")
	return nil
}

// RecordSignUp adds a newly registered account to the roster and the activity log
func (s *adminServiceImpl) RecordSignUp(ctx context.Context, ev SessionEvent) {
	if ev.Type != SessionSignedUp {
		return
	}

	name := ev.Name
	if name == "" {
		name = ev.Email
	}
	member := models.Member{
		ID:             ev.AccountID.String(),
		Name:           name,
		Email:          ev.Email,
		BusinessName:   ev.BusinessName,
		MembershipType: models.TierFree,
		JoinDate:       s.now().Format(models.DateLayout),
		Status:         models.MemberActive,
	}

	_, err := updateList(ctx, s.store, liststore.KeyMembers, func(list []models.Member) ([]models.Member, error) {
		for _, m := range list {
			if m.ID == member.ID {
				return list, nil
			}
		}
		return append(list, member), nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("accountID", member.ID).Msg("Failed to add new member to roster")
	}

	s.recordActivity(ctx, models.ActivityNewMember, fmt.Sprintf("%s joined as a free member.", name))
}

// ListChat returns the board chat in posting order
func (s *adminServiceImpl) ListChat(ctx context.Context, viewer *appAuth.Viewer) ([]models.AdminMessage, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}
	return readList[models.AdminMessage](ctx, s.store, liststore.KeyAdminMessages)
}

// PostChat appends a line to the board chat
func (s *adminServiceImpl) PostChat(ctx context.Context, viewer *appAuth.Viewer, text string) (*models.AdminMessage, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Message cannot be empty.")
	}

	msg := models.AdminMessage{
		ID:        newID(),
		Author:    viewer.DisplayName(),
		Text:      text,
		Timestamp: s.now(),
	}
	_, err := updateList(ctx, s.store, liststore.KeyAdminMessages, func(list []models.AdminMessage) ([]models.AdminMessage, error) {
		return append(list, msg), nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMeetings returns the scheduled board meetings
func (s *adminServiceImpl) ListMeetings(ctx context.Context, viewer *appAuth.Viewer) ([]models.Meeting, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}
	return readList[models.Meeting](ctx, s.store, liststore.KeyMeetings)
}

// ScheduleMeeting adds a board meeting
func (s *adminServiceImpl) ScheduleMeeting(ctx context.Context, viewer *appAuth.Viewer, req *dto.MeetingRequest) (*models.Meeting, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}

	meeting := models.Meeting{
		ID:          newID(),
		Title:       strings.TrimSpace(req.Title),
		Date:        req.Date,
		Time:        req.Time,
		Agenda:      strings.TrimSpace(req.Agenda),
		ScheduledBy: viewer.DisplayName(),
	}
	_, err := updateList(ctx, s.store, liststore.KeyMeetings, func(list []models.Meeting) ([]models.Meeting, error) {
		return append(list, meeting), nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, models.ActivityAdmin, fmt.Sprintf("%s scheduled \"%s\" for %s.", meeting.ScheduledBy, meeting.Title, meeting.Date))
	return &meeting, nil
}

// ListSuggestions returns member feedback
func (s *adminServiceImpl) ListSuggestions(ctx context.Context, viewer *appAuth.Viewer) ([]models.Suggestion, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}
	return readList[models.Suggestion](ctx, s.store, liststore.KeySuggestions)
}

// SubmitSuggestion records feedback from any signed-in member
func (s *adminServiceImpl) SubmitSuggestion(ctx context.Context, viewer *appAuth.Viewer, text string) (*models.Suggestion, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Suggestion cannot be empty.")
	}

	suggestion := models.Suggestion{
		ID:        newID(),
		Author:    viewer.DisplayName(),
		Text:      text,
		Timestamp: s.now(),
	}
	_, err := updateList(ctx, s.store, liststore.KeySuggestions, func(list []models.Suggestion) ([]models.Suggestion, error) {
		return append([]models.Suggestion{suggestion}, list...), nil
	})
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// DeleteSuggestion removes a suggestion
func (s *adminServiceImpl) DeleteSuggestion(ctx context.Context, viewer *appAuth.Viewer, id string) error {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return err
	}

	_, err := updateList(ctx, s.store, liststore.KeySuggestions, func(list []models.Suggestion) ([]models.Suggestion, error) {
		out := make([]models.Suggestion, 0, len(list))
		for _, sg := range list {
			if sg.ID != id {
				out = append(out, sg)
			}
		}
		if len(out) == len(list) {
			return nil, apperrors.NewResourceNotFoundError("Suggestion not found")
		}
		return out, nil
	})
	return err
}

// recordActivity logs failures instead of failing the action that triggered it
func (s *adminServiceImpl) recordActivity(ctx context.Context, t models.ActivityType, text string) {
	if err := s.activity.Record(ctx, t, text); err != nil {
		s.logger.Warn().Err(err).Str("type", string(t)).Msg("Failed to record activity")
	}
}

func memberFromProfile(p *models.Profile) models.Member {
	name := p.Name
	if name == "" {
		name = p.Email
	}
	return models.Member{
		ID:             p.ID.String(),
		Name:           name,
		Email:          p.Email,
		BusinessName:   p.BusinessName,
		MembershipType: p.MembershipType,
		JoinDate:       p.CreatedAt.Format(models.DateLayout),
		Status:         models.MemberActive,
	}
}
