package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"festreg/internal/domain"
)

const (
	msgEventClosed     = "Registration is closed for this event."
	msgEventNotFound   = "Event not found"
	msgTeamNotFound    = "Team not found."
	msgLeaderOnly      = "Only the leader can delete the team."
	msgTeamTooSmall    = "Team must have at least %d members."
	msgTeamTooLarge    = "Team can have at most %d members."
	msgNotGroupEvent   = "%s is not a group event."
	msgLeaderRequired  = "Team leader is required."
	msgMemberIDMissing = "Every team member needs an id."
	msgUnknownEvent    = "Unknown event: %s"
	msgNotIndividual   = "%s is not an individual event."
	msgAlreadyInTeam   = "%s already in a team for %s."
)

type registrationService struct {
	store          domain.DocumentStore
	catalog        domain.EventCatalog
	validator      domain.RuleValidator
	settings       domain.EventSettingsService
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewRegistrationService returns the coordinator of the atomic registration workflows.
// Every participant a workflow touches is checked against validator inside the
// transaction. emailService may be nil, in which case no team confirmations are sent.
func NewRegistrationService(store domain.DocumentStore,
	catalog domain.EventCatalog,
	validator domain.RuleValidator,
	settings domain.EventSettingsService,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		store:          store,
		catalog:        catalog,
		validator:      validator,
		settings:       settings,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func (s *registrationService) CreateTeam(ctx context.Context, in domain.CreateTeamInput) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	closed, err := s.settings.IsRegistrationClosed(ctx, in.EventTitle)
	if err != nil {
		return nil, fmt.Errorf("check registration status: %w", err)
	}
	if closed {
		return nil, domain.NewRegistrationError(domain.ErrRegistrationClosed, msgEventClosed)
	}

	event, ok := s.catalog.Get(in.EventTitle)
	if !ok {
		return nil, domain.NewRegistrationError(domain.ErrNotFound, msgEventNotFound)
	}
	if event.Mode != domain.ModeGroup {
		return nil, domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgNotGroupEvent, event.Title))
	}

	members, err := teamRoster(in)
	if err != nil {
		return nil, err
	}
	if event.MinParticipants > 0 && len(members) < event.MinParticipants {
		return nil, domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgTeamTooSmall, event.MinParticipants))
	}
	if event.MaxParticipants > 0 && len(members) > event.MaxParticipants {
		return nil, domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgTeamTooLarge, event.MaxParticipants))
	}
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	teamID := s.newID()
	var team *domain.Team
	var chestNos map[string]string
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx domain.Transaction) error {
		counterRef := domain.TeamCounterRef(event.Title)
		var teamCounter domain.Counter
		if _, err := tx.Get(counterRef, &teamCounter); err != nil {
			return fmt.Errorf("read team counter: %w", err)
		}
		participants := make(map[string]*participant, len(members))
		for _, m := range members {
			p, err := readParticipant(tx, m.ID)
			if err != nil {
				return err
			}
			participants[m.ID] = p
		}
		for _, m := range members {
			if err := s.checkJoin(m, in.LeaderID, participants[m.ID], event.Title); err != nil {
				return err
			}
		}
		chests := newChestAllocator(tx)
		if err := chests.load(memberIDs...); err != nil {
			return err
		}
		if err := chests.assign(memberIDs...); err != nil {
			return err
		}

		teamCounter.Count++
		now := s.now().UTC()
		t := &domain.Team{
			ID:          teamID,
			EventID:     domain.NormalizeEventTitle(event.Title),
			EventTitle:  event.Title,
			LeaderID:    in.LeaderID,
			Members:     slices.Clone(members),
			MemberIDs:   slices.Clone(memberIDs),
			TeamName:    in.TeamName,
			Status:      domain.TeamStatusActive,
			TeamChestNo: TeamChestNumber(event.TeamChestPrefix(), teamCounter.Count),
			CreatedAt:   now,
		}
		memberChestNos := make(map[string]string, len(memberIDs))
		for _, id := range memberIDs {
			memberChestNos[id] = chests.chestNo(id)
		}
		entry := &domain.EventRegistration{
			Type:           domain.RegistrationTypeTeam,
			EventTitle:     event.Title,
			TeamID:         teamID,
			LeaderID:       in.LeaderID,
			TeamChestNo:    t.TeamChestNo,
			LeaderChestNo:  chests.chestNo(in.LeaderID),
			MemberChestNos: memberChestNos,
			MemberIDs:      t.MemberIDs,
			RegisteredAt:   now,
		}

		if err := chests.write(); err != nil {
			return err
		}
		if err := tx.Set(counterRef, teamCounter); err != nil {
			return err
		}
		if err := tx.Set(domain.TeamRef(teamID), t); err != nil {
			return err
		}
		if err := tx.Set(domain.EventRegistrationRef(event.Title, teamID), entry); err != nil {
			return err
		}
		for _, id := range memberIDs {
			memberships := participants[id].memberships
			if memberships.Teams == nil {
				memberships.Teams = make(map[string]string)
			}
			memberships.Teams[teamID] = event.Title
			if err := tx.Set(domain.TeamMembershipsRef(id), memberships); err != nil {
				return err
			}
		}
		team = t
		chestNos = memberChestNos
		return nil
	})
	if err != nil {
		return nil, wrapTxError("create team", err)
	}

	s.logger.InfoContext(ctx, "team registered",
		"team_id", team.ID, "event", team.EventTitle, "team_chest_no", team.TeamChestNo, "members", len(team.MemberIDs))
	s.notifyTeam(ctx, team, chestNos, in.LeaderName)
	return team, nil
}

// teamRoster builds the member list with the leader first and duplicate ids dropped.
func teamRoster(in domain.CreateTeamInput) ([]domain.TeamMember, error) {
	if in.LeaderID == "" {
		return nil, domain.NewRegistrationError(domain.ErrInvalidInput, msgLeaderRequired)
	}
	members := []domain.TeamMember{{
		ID:     in.LeaderID,
		Name:   in.LeaderName,
		Email:  in.LeaderEmail,
		Role:   domain.TeamRoleLeader,
		Status: domain.MemberStatusJoined,
	}}
	seen := map[string]bool{in.LeaderID: true}
	for _, m := range in.Members {
		if m.ID == "" {
			return nil, domain.NewRegistrationError(domain.ErrInvalidInput, msgMemberIDMissing)
		}
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		members = append(members, domain.TeamMember{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Role:   domain.TeamRoleMember,
			Status: domain.MemberStatusJoined,
		})
	}
	return members, nil
}

// participant is what a registration transaction reads about one user before
// checking their quota.
type participant struct {
	solo        domain.SoloRegistration
	memberships domain.TeamMemberships
}

func readParticipant(tx domain.Transaction, uid string) (*participant, error) {
	p := &participant{}
	if _, err := tx.Get(domain.SoloRegistrationRef(uid), &p.solo); err != nil {
		return nil, fmt.Errorf("read solo registrations of %s: %w", uid, err)
	}
	if _, err := tx.Get(domain.TeamMembershipsRef(uid), &p.memberships); err != nil {
		return nil, fmt.Errorf("read team memberships of %s: %w", uid, err)
	}
	return p, nil
}

// checkJoin rejects m joining a team for eventTitle when m is already on a team
// for that event or would exceed a quota. Messages about members other than the
// leader name the member.
func (s *registrationService) checkJoin(m domain.TeamMember, leaderID string, p *participant, eventTitle string) error {
	name := m.Name
	if name == "" {
		name = m.ID
	}
	if p.memberships.InEvent(eventTitle) {
		who := name + " is"
		if m.ID == leaderID {
			who = "You are"
		}
		return domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgAlreadyInTeam, who, eventTitle))
	}
	result := s.validator.Validate(p.solo.Events, p.memberships.EventTitles(), nil, eventTitle)
	if result.Valid {
		return nil
	}
	if m.ID == leaderID {
		return domain.NewRegistrationError(domain.ErrQuotaExceeded, result.Message)
	}
	return domain.NewRegistrationError(domain.ErrQuotaExceeded, name+": "+result.Message)
}

// notifyTeam emails every member of a committed team. Failures are only logged.
func (s *registrationService) notifyTeam(ctx context.Context, team *domain.Team, chestNos map[string]string, leaderName string) {
	if s.emailService == nil {
		return
	}
	for _, m := range team.Members {
		if m.Email == "" {
			continue
		}
		data := &domain.TeamRegistrationEmailData{
			Email:       m.Email,
			Name:        m.Name,
			EventTitle:  team.EventTitle,
			TeamName:    team.TeamName,
			TeamChestNo: team.TeamChestNo,
			ChestNo:     chestNos[m.ID],
			LeaderName:  leaderName,
		}
		if err := s.emailService.SendTeamRegistration(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "team confirmation email failed", "team_id", team.ID, "member_id", m.ID, "err", err)
		}
	}
}

func (s *registrationService) UpdateUserSoloRegistrations(ctx context.Context, userID string, events []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return fmt.Errorf("update solo registrations: %w", domain.ErrInvalidInput)
	}
	desired := uniqueTitles(events)

	var current domain.SoloRegistration
	if _, err := s.store.Get(ctx, domain.SoloRegistrationRef(userID), &current); err != nil {
		return fmt.Errorf("read solo registrations: %w", err)
	}
	for _, title := range desired {
		if slices.Contains(current.Events, title) {
			continue
		}
		if err := s.checkSoloTitle(title); err != nil {
			return err
		}
		closed, err := s.settings.IsRegistrationClosed(ctx, title)
		if err != nil {
			return fmt.Errorf("check registration status: %w", err)
		}
		if closed {
			return domain.NewRegistrationError(domain.ErrRegistrationClosed, "Registration is closed for "+title)
		}
	}

	var added, removed []string
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx domain.Transaction) error {
		soloRef := domain.SoloRegistrationRef(userID)
		p, err := readParticipant(tx, userID)
		if err != nil {
			return err
		}
		added, removed = diffTitles(p.solo.Events, desired)
		if len(added) == 0 && len(removed) == 0 {
			return nil
		}
		for _, title := range added {
			if err := s.checkSoloTitle(title); err != nil {
				return err
			}
		}
		if result := s.validator.Validate(p.solo.Events, p.memberships.EventTitles(), desired, ""); !result.Valid {
			return domain.NewRegistrationError(domain.ErrQuotaExceeded, result.Message)
		}

		chests := newChestAllocator(tx)
		if len(added) > 0 {
			if err := chests.load(userID); err != nil {
				return err
			}
			if err := chests.assign(userID); err != nil {
				return err
			}
		}

		if err := chests.write(); err != nil {
			return err
		}
		now := s.now().UTC()
		for _, title := range removed {
			if err := tx.Delete(domain.EventRegistrationRef(title, userID)); err != nil {
				return err
			}
		}
		for _, title := range added {
			entry := &domain.EventRegistration{
				Type:         domain.RegistrationTypeIndividual,
				EventTitle:   title,
				UserID:       userID,
				UserChestNo:  chests.chestNo(userID),
				RegisteredAt: now,
			}
			if err := tx.Set(domain.EventRegistrationRef(title, userID), entry); err != nil {
				return err
			}
		}
		return tx.Set(soloRef, &domain.SoloRegistration{
			UserID:      userID,
			Events:      desired,
			LastUpdated: now,
		})
	})
	if err != nil {
		return wrapTxError("update solo registrations", err)
	}
	if len(added) > 0 || len(removed) > 0 {
		s.logger.InfoContext(ctx, "solo registrations updated", "user_id", userID, "added", added, "removed", removed)
	}
	return nil
}

// checkSoloTitle rejects titles that are not individual events of the catalog.
func (s *registrationService) checkSoloTitle(title string) error {
	event, ok := s.catalog.Get(title)
	if !ok {
		return domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgUnknownEvent, title))
	}
	if event.Mode != domain.ModeIndividual {
		return domain.NewRegistrationError(domain.ErrInvalidInput, fmt.Sprintf(msgNotIndividual, title))
	}
	return nil
}

func (s *registrationService) LeaveTeam(ctx context.Context, userID, teamID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var eventTitle string
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx domain.Transaction) error {
		var team domain.Team
		found, err := tx.Get(domain.TeamRef(teamID), &team)
		if err != nil {
			return fmt.Errorf("read team: %w", err)
		}
		if !found {
			return domain.NewRegistrationError(domain.ErrNotFound, msgTeamNotFound)
		}
		if team.LeaderID != userID {
			return domain.NewRegistrationError(domain.ErrForbidden, msgLeaderOnly)
		}
		memberships := make(map[string]domain.TeamMemberships, len(team.MemberIDs))
		for _, id := range team.MemberIDs {
			var m domain.TeamMemberships
			if _, err := tx.Get(domain.TeamMembershipsRef(id), &m); err != nil {
				return fmt.Errorf("read team memberships of %s: %w", id, err)
			}
			memberships[id] = m
		}

		if err := tx.Delete(domain.TeamRef(teamID)); err != nil {
			return err
		}
		if err := tx.Delete(domain.EventRegistrationRef(team.EventTitle, teamID)); err != nil {
			return err
		}
		for id, m := range memberships {
			delete(m.Teams, teamID)
			ref := domain.TeamMembershipsRef(id)
			if len(m.Teams) == 0 {
				err = tx.Delete(ref)
			} else {
				err = tx.Set(ref, m)
			}
			if err != nil {
				return err
			}
		}
		eventTitle = team.EventTitle
		return nil
	})
	if err != nil {
		return wrapTxError("leave team", err)
	}
	s.logger.InfoContext(ctx, "team disbanded", "team_id", teamID, "event", eventTitle, "leader_id", userID)
	return nil
}

// wrapTxError keeps participant-facing errors as they are and prefixes the rest.
func wrapTxError(op string, err error) error {
	var regErr *domain.RegistrationError
	if errors.As(err, &regErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// uniqueTitles drops empty and repeated titles, keeping first occurrences.
func uniqueTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func diffTitles(current, desired []string) (added, removed []string) {
	for _, t := range desired {
		if !slices.Contains(current, t) {
			added = append(added, t)
		}
	}
	for _, t := range current {
		if !slices.Contains(desired, t) {
			removed = append(removed, t)
		}
	}
	return added, removed
}
