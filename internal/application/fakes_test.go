package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"voteparty/internal/adapters/gateway"
	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/ports/output"
)

var errUnexpected = errors.New("unexpected call")

func apiErr(status int) error {
	return &gateway.APIError{Status: status, StatusText: http.StatusText(status), Message: http.StatusText(status)}
}

// fakeGateway implements every gateway port with overridable functions.
type fakeGateway struct {
	joinParty          func(ctx context.Context, code string, req entities.JoinPartyRequest) (*entities.Guest, error)
	getGuestStatus     func(ctx context.Context, code, guestID string) (*entities.Guest, error)
	getPartyByCode     func(ctx context.Context, code string) (*entities.Party, error)
	listApprovedGuests func(ctx context.Context, partyID string) ([]entities.Guest, error)
	listActs           func(ctx context.Context, event domain.EventType) ([]entities.Act, error)
	getGuestVote       func(ctx context.Context, partyID, guestID string) (*entities.Vote, error)
	submitVote         func(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error)
	updateVote         func(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error)
	getResults         func(ctx context.Context, partyID string) (*entities.PartyResults, error)

	createParty      func(ctx context.Context, req entities.CreatePartyRequest) (*entities.Party, error)
	listParties      func(ctx context.Context) ([]entities.Party, error)
	getPartyByID     func(ctx context.Context, id string) (*entities.Party, error)
	deleteParty      func(ctx context.Context, id string) error
	listGuests       func(ctx context.Context, partyID string) ([]entities.Guest, error)
	listJoinRequests func(ctx context.Context, partyID string) ([]entities.Guest, error)
	approveGuest     func(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error)
	rejectGuest      func(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error)
	removeGuest      func(ctx context.Context, partyID, guestID string) error
	endVoting        func(ctx context.Context, partyID string) (*entities.EndVotingResponse, error)
	getProfile       func(ctx context.Context) (*entities.User, error)
	updateProfile    func(ctx context.Context, req entities.UpdateProfileRequest) (*entities.User, error)
}

func (f *fakeGateway) JoinParty(ctx context.Context, code string, req entities.JoinPartyRequest) (*entities.Guest, error) {
	if f.joinParty == nil {
		return nil, errUnexpected
	}
	return f.joinParty(ctx, code, req)
}

func (f *fakeGateway) GetGuestStatus(ctx context.Context, code, guestID string) (*entities.Guest, error) {
	if f.getGuestStatus == nil {
		return nil, errUnexpected
	}
	return f.getGuestStatus(ctx, code, guestID)
}

func (f *fakeGateway) GetPartyByCode(ctx context.Context, code string) (*entities.Party, error) {
	if f.getPartyByCode == nil {
		return nil, apiErr(http.StatusNotFound)
	}
	return f.getPartyByCode(ctx, code)
}

func (f *fakeGateway) ListApprovedGuests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	if f.listApprovedGuests == nil {
		return nil, errUnexpected
	}
	return f.listApprovedGuests(ctx, partyID)
}

func (f *fakeGateway) ListActs(ctx context.Context, event domain.EventType) ([]entities.Act, error) {
	if f.listActs == nil {
		return nil, errUnexpected
	}
	return f.listActs(ctx, event)
}

func (f *fakeGateway) GetGuestVote(ctx context.Context, partyID, guestID string) (*entities.Vote, error) {
	if f.getGuestVote == nil {
		return nil, apiErr(http.StatusNotFound)
	}
	return f.getGuestVote(ctx, partyID, guestID)
}

func (f *fakeGateway) SubmitVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error) {
	if f.submitVote == nil {
		return nil, errUnexpected
	}
	return f.submitVote(ctx, partyID, req)
}

func (f *fakeGateway) UpdateVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error) {
	if f.updateVote == nil {
		return nil, errUnexpected
	}
	return f.updateVote(ctx, partyID, req)
}

func (f *fakeGateway) GetResults(ctx context.Context, partyID string) (*entities.PartyResults, error) {
	if f.getResults == nil {
		return nil, errUnexpected
	}
	return f.getResults(ctx, partyID)
}

func (f *fakeGateway) CreateParty(ctx context.Context, req entities.CreatePartyRequest) (*entities.Party, error) {
	if f.createParty == nil {
		return nil, errUnexpected
	}
	return f.createParty(ctx, req)
}

func (f *fakeGateway) ListParties(ctx context.Context) ([]entities.Party, error) {
	if f.listParties == nil {
		return nil, errUnexpected
	}
	return f.listParties(ctx)
}

func (f *fakeGateway) GetPartyByID(ctx context.Context, id string) (*entities.Party, error) {
	if f.getPartyByID == nil {
		return nil, errUnexpected
	}
	return f.getPartyByID(ctx, id)
}

func (f *fakeGateway) DeleteParty(ctx context.Context, id string) error {
	if f.deleteParty == nil {
		return errUnexpected
	}
	return f.deleteParty(ctx, id)
}

func (f *fakeGateway) ListGuests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	if f.listGuests == nil {
		return nil, errUnexpected
	}
	return f.listGuests(ctx, partyID)
}

func (f *fakeGateway) ListJoinRequests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	if f.listJoinRequests == nil {
		return nil, errUnexpected
	}
	return f.listJoinRequests(ctx, partyID)
}

func (f *fakeGateway) ApproveGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
	if f.approveGuest == nil {
		return nil, errUnexpected
	}
	return f.approveGuest(ctx, partyID, guestID)
}

func (f *fakeGateway) RejectGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
	if f.rejectGuest == nil {
		return nil, errUnexpected
	}
	return f.rejectGuest(ctx, partyID, guestID)
}

func (f *fakeGateway) RemoveGuest(ctx context.Context, partyID, guestID string) error {
	if f.removeGuest == nil {
		return errUnexpected
	}
	return f.removeGuest(ctx, partyID, guestID)
}

func (f *fakeGateway) EndVoting(ctx context.Context, partyID string) (*entities.EndVotingResponse, error) {
	if f.endVoting == nil {
		return nil, errUnexpected
	}
	return f.endVoting(ctx, partyID)
}

func (f *fakeGateway) GetProfile(ctx context.Context) (*entities.User, error) {
	if f.getProfile == nil {
		return nil, errUnexpected
	}
	return f.getProfile(ctx)
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, req entities.UpdateProfileRequest) (*entities.User, error) {
	if f.updateProfile == nil {
		return nil, errUnexpected
	}
	return f.updateProfile(ctx, req)
}

// recordingStore is an in-memory session store that records every call.
type recordingStore struct {
	mu       sync.Mutex
	sessions map[string]string
	calls    []string
	saveErr  error

	// beforeSave runs outside the lock when Save is entered.
	beforeSave func()
	// deleteErrs fail the next Delete calls, one entry per call.
	deleteErrs []error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{sessions: map[string]string{}}
}

func (s *recordingStore) Save(_ context.Context, code, guestID string) error {
	if s.beforeSave != nil {
		s.beforeSave()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("save %s %s", code, guestID))
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[code] = guestID
	return nil
}

func (s *recordingStore) Lookup(_ context.Context, code string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[code]
	return id, ok, nil
}

func (s *recordingStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete "+code)
	if len(s.deleteErrs) > 0 {
		err := s.deleteErrs[0]
		s.deleteErrs = s.deleteErrs[1:]
		if err != nil {
			return err
		}
	}
	delete(s.sessions, code)
	return nil
}

func (s *recordingStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingStore) Has(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[code]
	return ok
}

// keyTranslator renders "<locale>:<key>".
type keyTranslator struct{}

func (keyTranslator) T(locale, key string, _ map[string]any) string {
	return locale + ":" + key
}

type notifierFunc func(ctx context.Context, event output.LifecycleEvent) error

func (f notifierFunc) Notify(ctx context.Context, event output.LifecycleEvent) error {
	return f(ctx, event)
}
