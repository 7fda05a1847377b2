package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apperrors "healthtracker/internal/errors"
	"healthtracker/internal/mail"
	"healthtracker/internal/metrics"
	"healthtracker/internal/model"
	"healthtracker/internal/repository"
)

const maxInviteCodeAttempts = 5

// GroupUpdate carries optional changes to a group.
type GroupUpdate struct {
	Name        *string
	Description *string
}

// GroupService manages groups, membership and invitations.
type GroupService interface {
	Create(ctx context.Context, userID uuid.UUID, name, description string) (*model.Group, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Group, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.GroupDetail, error)
	Update(ctx context.Context, userID, id uuid.UUID, in GroupUpdate) (*model.Group, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*model.Group, error)
	Leave(ctx context.Context, userID, id uuid.UUID) error
	TransferAdmin(ctx context.Context, userID, id, newAdminID uuid.UUID) (*model.Group, error)
	Invite(ctx context.Context, userID, id uuid.UUID, emails []string) (*model.InviteResult, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	goalRepo  repository.GoalRepository
	userRepo  repository.UserRepository
	tx        repository.TxManager
	mailer    mail.Sender
	clientURL string
	log       *logrus.Logger
	newCode   func() (string, error)
}

// NewGroupService creates a new group service. Invite links point at clientURL.
func NewGroupService(
	groupRepo repository.GroupRepository,
	goalRepo repository.GoalRepository,
	userRepo repository.UserRepository,
	tx repository.TxManager,
	mailer mail.Sender,
	clientURL string,
	log *logrus.Logger,
) GroupService {
	return &groupService{
		groupRepo: groupRepo,
		goalRepo:  goalRepo,
		userRepo:  userRepo,
		tx:        tx,
		mailer:    mailer,
		clientURL: strings.TrimRight(clientURL, "/"),
		log:       log,
		newCode:   newInviteCode,
	}
}

// Create inserts the group and the admin's membership in one transaction.
// An invite code collision retries with a fresh code.
func (s *groupService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("group name is required")
	}

	for attempt := 1; attempt <= maxInviteCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		group := &model.Group{
			Name:        name,
			Description: description,
			AdminID:     userID,
			InviteCode:  code,
		}
		err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
			if err := repos.Groups.Create(ctx, group); err != nil {
				return err
			}
			return repos.Groups.AddMember(ctx, group.ID, userID)
		})
		if err == nil {
			group.Members = []uuid.UUID{userID}
			group.Goals = []uuid.UUID{}
			s.log.WithFields(logrus.Fields{"group_id": group.ID, "user_id": userID}).Info("group created")
			return group, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create group: %w", err)
		}
		s.log.WithField("attempt", attempt).Warn("invite code collision, retrying")
	}
	return nil, apperrors.New(apperrors.ErrDuplicate, "could not generate a unique invite code")
}

// ListMine returns every group the caller belongs to.
func (s *groupService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Group, error) {
	groups, err := s.groupRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	if groups == nil {
		groups = []model.Group{}
	}
	for i := range groups {
		if groups[i].Goals, err = s.goalRepo.IDsByGroup(ctx, groups[i].ID); err != nil {
			return nil, fmt.Errorf("list group goal ids: %w", err)
		}
	}
	return groups, nil
}

// Get returns the group with admin, members and goals resolved.
func (s *groupService) Get(ctx context.Context, userID, id uuid.UUID) (*model.GroupDetail, error) {
	group, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperrors.NotAuthorized("user not authorized to view this group")
	}

	ids := append([]uuid.UUID{group.AdminID}, group.Members...)
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}
	byID := make(map[uuid.UUID]model.MemberSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	goals, err := s.goalRepo.ListByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list group goals: %w", err)
	}
	if goals == nil {
		goals = []model.Goal{}
	}

	detail := &model.GroupDetail{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		InviteCode:  group.InviteCode,
		Admin:       byID[group.AdminID],
		Members:     make([]model.MemberSummary, 0, len(group.Members)),
		Goals:       goals,
		CreatedAt:   group.CreatedAt,
	}
	for _, memberID := range group.Members {
		if m, ok := byID[memberID]; ok {
			detail.Members = append(detail.Members, m)
		}
	}
	return detail, nil
}

// Update edits name and description. Admin only.
func (s *groupService) Update(ctx context.Context, userID, id uuid.UUID, in GroupUpdate) (*model.Group, error) {
	group, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(userID) {
		return nil, apperrors.NotAuthorized("only the group admin can update the group")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("group name cannot be empty")
		}
		group.Name = name
	}
	if in.Description != nil {
		group.Description = *in.Description
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.withGoalIDs(ctx, group)
}

// Delete removes the group and its memberships. Its goals stay with their
// owners as personal goals. Admin only; all or nothing.
func (s *groupService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	group, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !group.IsAdmin(userID) {
		return apperrors.NotAuthorized("only the group admin can delete the group")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Goals.DetachGroup(ctx, id); err != nil {
			return err
		}
		if err := repos.Groups.DeleteMembers(ctx, id); err != nil {
			return err
		}
		return repos.Groups.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	s.log.WithFields(logrus.Fields{"group_id": id, "user_id": userID}).Info("group deleted")
	return nil
}

// Join adds the caller to the group behind inviteCode.
func (s *groupService) Join(ctx context.Context, userID uuid.UUID, inviteCode string) (*model.Group, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, apperrors.ErrInvalidInvite
	}
	group, err := s.groupRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidInvite
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	if group.HasMember(userID) {
		return nil, apperrors.ErrAlreadyMember
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Groups.AddMember(ctx, group.ID, userID)
	})
	if err != nil {
		// The primary key catches a concurrent join of the same user.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("join group: %w", err)
	}

	group.Members = append(group.Members, userID)
	s.log.WithFields(logrus.Fields{"group_id": group.ID, "user_id": userID}).Info("member joined")
	return s.withGoalIDs(ctx, group)
}

// Leave removes the caller from the group. The admin cannot leave.
func (s *groupService) Leave(ctx context.Context, userID, id uuid.UUID) error {
	group, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return apperrors.ErrNotAMember
	}
	if group.IsAdmin(userID) {
		return apperrors.ErrAdminCannotLeave
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Groups.RemoveMember(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	s.log.WithFields(logrus.Fields{"group_id": id, "user_id": userID}).Info("member left")
	return nil
}

// TransferAdmin hands admin rights to another member. The previous admin
// stays a member.
func (s *groupService) TransferAdmin(ctx context.Context, userID, id, newAdminID uuid.UUID) (*model.Group, error) {
	var group *model.Group
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		g, err := repos.Groups.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGroupNotFound
			}
			return err
		}
		if !g.IsAdmin(userID) {
			return apperrors.NotAuthorized("only the group admin can transfer admin rights")
		}
		member, err := repos.Groups.IsMember(ctx, id, newAdminID)
		if err != nil {
			return err
		}
		if !member {
			return apperrors.Validation("new admin must be a member of the group")
		}
		g.AdminID = newAdminID
		if err := repos.Groups.Update(ctx, g); err != nil {
			return err
		}
		group = g
		return nil
	})
	if err != nil {
		if !apperrors.IsInternal(err) {
			return nil, err
		}
		return nil, fmt.Errorf("transfer admin: %w", err)
	}
	s.log.WithFields(logrus.Fields{"group_id": id, "from": userID, "to": newAdminID}).Info("admin transferred")
	return s.withGoalIDs(ctx, group)
}

// Invite emails a join link to each address. Delivery failures are logged
// and the address is left out of SentEmails.
func (s *groupService) Invite(ctx context.Context, userID, id uuid.UUID, emails []string) (*model.InviteResult, error) {
	recipients := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			recipients = append(recipients, e)
		}
	}
	if len(recipients) == 0 {
		return nil, apperrors.Validation("please provide at least one email address")
	}

	group, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, apperrors.NotAuthorized("user not authorized to invite to this group")
	}

	inviter, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find inviter: %w", err)
	}

	result := &model.InviteResult{
		InviteCode: group.InviteCode,
		InviteURL:  fmt.Sprintf("%s/join-group/%s", s.clientURL, group.InviteCode),
		SentEmails: []string{},
	}
	data := inviteData{
		Inviter:     inviter.RealName,
		Group:       group.Name,
		Description: group.Description,
		URL:         result.InviteURL,
		Code:        group.InviteCode,
	}

	for _, to := range recipients {
		entry := s.log.WithFields(logrus.Fields{"group_id": id, "to": to})
		msg, err := buildInviteMessage(to, data)
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if errors.Is(err, mail.ErrNotDelivered) {
			entry.Info("invite logged, not delivered")
			metrics.InviteEmail("logged")
			continue
		}
		if err != nil {
			entry.WithError(err).Warn("failed to send invite")
			metrics.InviteEmail("failed")
			continue
		}
		metrics.InviteEmail("sent")
		result.SentEmails = append(result.SentEmails, to)
	}
	return result, nil
}

func (s *groupService) find(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

func (s *groupService) withGoalIDs(ctx context.Context, group *model.Group) (*model.Group, error) {
	ids, err := s.goalRepo.IDsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list group goal ids: %w", err)
	}
	group.Goals = ids
	return group, nil
}
