package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlist_RepeatedSignupIsNotAnError(t *testing.T) {
	repo := &fakeWaitlist{}
	svc := NewWaitlistService(repo, nopLogger)
	ctx := context.Background()

	first, err := svc.Join(ctx, "Owner@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", first.Email)
	assert.False(t, first.AlreadyListed)

	second, err := svc.Join(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, second.AlreadyListed)

	assert.Len(t, repo.emails, 1)
}

func TestWaitlist_GatewayFailure(t *testing.T) {
	svc := NewWaitlistService(&fakeWaitlist{err: errors.New("connection refused")}, nopLogger)

	resp, err := svc.Join(context.Background(), "owner@example.com")
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "failed to join waitlist")
}
