package services

import (
	"context"
	"errors"
	"testing"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileFor(v *appAuth.Viewer, business string) models.Profile {
	return models.Profile{
		ID:             v.AccountID,
		Email:          v.Email,
		Name:           v.Name,
		BusinessName:   business,
		MembershipType: v.Tier,
	}
}

func TestMessages_PairIsUnordered(t *testing.T) {
	alice := viewerFor(models.TierBoard)
	bob := viewerFor(models.TierPremium)
	store := newTestStore(t)
	repo := newFakeProfiles(profileFor(alice, "Alice Co"), profileFor(bob, "Bob Co"))
	svc := NewMessageService(store, repo, nil, nopLogger)
	ctx := context.Background()

	first, err := svc.OpenWith(ctx, bob, alice.AccountID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID(), first.RecipientID)

	again, err := svc.OpenWith(ctx, alice, bob.AccountID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, bob.ID(), again.RecipientID)
	assert.Equal(t, bob.Name, again.RecipientName)

	all, _, err := liststore.Read[models.Conversation](ctx, store, liststore.KeyConversations)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMessages_FreeCannotOpenPremium(t *testing.T) {
	alice := viewerFor(models.TierFree)
	bob := viewerFor(models.TierPremium)
	repo := newFakeProfiles(profileFor(alice, "Alice Co"), profileFor(bob, "Bob Co"))
	svc := NewMessageService(newTestStore(t), repo, nil, nopLogger)

	_, err := svc.OpenWith(context.Background(), alice, bob.AccountID)
	assert.True(t, errors.Is(err, apperrors.ErrUpgradeRequired))
}

func TestMessages_SelfIsRejected(t *testing.T) {
	alice := viewerFor(models.TierPremium)
	repo := newFakeProfiles(profileFor(alice, "Alice Co"))
	svc := NewMessageService(newTestStore(t), repo, nil, nopLogger)

	_, err := svc.OpenWith(context.Background(), alice, alice.AccountID)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestMessages_Send(t *testing.T) {
	alice := viewerFor(models.TierFree)
	bob := viewerFor(models.TierFree)
	eve := viewerFor(models.TierBoard)
	repo := newFakeProfiles(profileFor(alice, "Alice Co"), profileFor(bob, "Bob Co"))
	svc := NewMessageService(newTestStore(t), repo, nil, nopLogger)
	ctx := context.Background()

	conv, err := svc.OpenWith(ctx, alice, bob.AccountID)
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)

	msg, err := svc.Send(ctx, alice, conv.ID, "  Hello Bob  ")
	require.NoError(t, err)
	assert.Equal(t, "Hello Bob", msg.Text)
	assert.Equal(t, alice.ID(), msg.SenderID)

	_, err = svc.Send(ctx, bob, conv.ID, "Hi Alice")
	require.NoError(t, err)

	_, err = svc.Send(ctx, eve, conv.ID, "Sneaking in")
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	_, err = svc.Send(ctx, alice, "missing", "Hello?")
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = svc.Send(ctx, alice, conv.ID, "   ")
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	list, err := svc.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Messages, 2)
	assert.Equal(t, "Hello Bob", list[0].Messages[0].Text)
	assert.Equal(t, "Hi Alice", list[0].Messages[1].Text)

	none, err := svc.List(ctx, eve)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type recordingNotifier struct {
	accountIDs [][]string
	payloads   []interface{}
}

func (n *recordingNotifier) Deliver(accountIDs []string, payload interface{}) {
	n.accountIDs = append(n.accountIDs, accountIDs)
	n.payloads = append(n.payloads, payload)
}

func TestMessages_SendNotifiesBothParticipants(t *testing.T) {
	alice := viewerFor(models.TierPremium)
	bob := viewerFor(models.TierPremium)
	repo := newFakeProfiles(profileFor(alice, "Alice Co"), profileFor(bob, "Bob Co"))
	notifier := &recordingNotifier{}
	svc := NewMessageService(newTestStore(t), repo, notifier, nopLogger)
	ctx := context.Background()

	conv, err := svc.OpenWith(ctx, alice, bob.AccountID)
	require.NoError(t, err)
	assert.Empty(t, notifier.payloads)

	msg, err := svc.Send(ctx, alice, conv.ID, "Lunch on Friday?")
	require.NoError(t, err)

	require.Len(t, notifier.payloads, 1)
	assert.ElementsMatch(t, []string{alice.ID(), bob.ID()}, notifier.accountIDs[0])
	event, ok := notifier.payloads[0].(dto.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, MessageEventType, event.Type)
	assert.Equal(t, conv.ID, event.ConversationID)
	assert.Equal(t, msg.ID, event.Message.ID)

	_, err = svc.Send(ctx, alice, conv.ID, "  ")
	require.Error(t, err)
	assert.Len(t, notifier.payloads, 1)
}
