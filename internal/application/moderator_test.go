package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

func TestModeratorService_CreateParty(t *testing.T) {
	gw := &fakeGateway{
		createParty: func(_ context.Context, req entities.CreatePartyRequest) (*entities.Party, error) {
			return &entities.Party{ID: "p1", Name: req.Name, EventType: req.EventType, Code: "QWERTY"}, nil
		},
	}
	svc := NewModeratorService(gw)

	party, err := svc.CreateParty(context.Background(), "  Finals  ", domain.EventGrandFinal)
	require.NoError(t, err)
	assert.Equal(t, "Finals", party.Name)

	_, err = svc.CreateParty(context.Background(), " ", domain.EventGrandFinal)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.CreateParty(context.Background(), "x", "eurovision")
	assert.Error(t, err)
}

func TestModeratorService_GuestDecisions(t *testing.T) {
	var calls []string
	gw := &fakeGateway{
		approveGuest: func(_ context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
			calls = append(calls, "approve "+partyID+" "+guestID)
			return &entities.StatusOKResponse{Status: "ok"}, nil
		},
		rejectGuest: func(_ context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
			calls = append(calls, "reject "+partyID+" "+guestID)
			return &entities.StatusOKResponse{Status: "ok"}, nil
		},
		removeGuest: func(_ context.Context, partyID, guestID string) error {
			calls = append(calls, "remove "+partyID+" "+guestID)
			return nil
		},
		endVoting: func(_ context.Context, partyID string) (*entities.EndVotingResponse, error) {
			return &entities.EndVotingResponse{ID: partyID, Status: domain.PartyStatusClosed}, nil
		},
	}
	svc := NewModeratorService(gw)
	ctx := context.Background()

	require.NoError(t, svc.ApproveGuest(ctx, "p1", "g1"))
	require.NoError(t, svc.RejectGuest(ctx, "p1", "g2"))
	require.NoError(t, svc.RemoveGuest(ctx, "p1", "g3"))
	status, err := svc.EndVoting(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, domain.PartyStatusClosed, status)
	assert.Equal(t, []string{"approve p1 g1", "reject p1 g2", "remove p1 g3"}, calls)
}

func TestModeratorService_WrapsGatewayErrors(t *testing.T) {
	gw := &fakeGateway{
		listParties: func(context.Context) ([]entities.Party, error) {
			return nil, domain.ErrUnauthenticated
		},
	}
	svc := NewModeratorService(gw)

	_, err := svc.ListParties(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, domain.MsgUnauthenticated, domain.MessageKey(err))
}

func TestModeratorService_UpdateProfile(t *testing.T) {
	gw := &fakeGateway{
		updateProfile: func(_ context.Context, req entities.UpdateProfileRequest) (*entities.User, error) {
			return &entities.User{ID: "u1", Username: req.Username}, nil
		},
	}
	svc := NewModeratorService(gw)

	user, err := svc.UpdateProfile(context.Background(), " host ")
	require.NoError(t, err)
	assert.Equal(t, "host", user.Username)

	_, err = svc.UpdateProfile(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}
