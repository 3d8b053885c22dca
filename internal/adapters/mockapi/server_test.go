package mockapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/infrastructure/credential"
)

const testSecret = "mock-secret-0123456789"

type harness struct {
	t   *testing.T
	srv *Server
	url string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s, err := New(testSecret)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Echo())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: s, url: ts.URL}
}

func (h *harness) token(sub string) string {
	signer, err := credential.NewHMACSigner(sub, testSecret, time.Minute)
	require.NoError(h.t, err)
	tok, err := signer.Token(context.Background())
	require.NoError(h.t, err)
	return tok
}

func (h *harness) do(method, path, token, body string) (int, []byte) {
	h.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.url+path, r)
	require.NoError(h.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func (h *harness) party(owner string) entities.Party {
	status, body := h.do(http.MethodPost, "/api/parties", h.token(owner), `{"name":"Finale","eventType":"grandfinal"}`)
	require.Equal(h.t, http.StatusCreated, status, string(body))
	return decode[entities.Party](h.t, body)
}

func (h *harness) approvedGuest(p entities.Party, owner, name string) entities.Guest {
	status, body := h.do(http.MethodPost, "/api/parties/"+p.Code+"/join", "", `{"username":"`+name+`"}`)
	require.Equal(h.t, http.StatusCreated, status, string(body))
	g := decode[entities.Guest](h.t, body)
	status, body = h.do(http.MethodPut, "/api/parties/"+p.ID+"/guests/"+g.ID+"/approve", h.token(owner), "")
	require.Equal(h.t, http.StatusOK, status, string(body))
	return g
}

func fullBallot(t *testing.T, acts []entities.Act, guestID string) string {
	t.Helper()
	votes := map[string]string{}
	for i, p := range []int{12, 10, 8, 7, 6, 5, 4, 3, 2, 1} {
		votes[strconv.Itoa(p)] = acts[i].ID
	}
	data, err := json.Marshal(entities.SubmitVoteRequest{GuestID: guestID, Votes: votes})
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	status, body := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))
}

func TestActs(t *testing.T) {
	h := newHarness(t)

	for _, event := range []domain.EventType{domain.EventSemifinal1, domain.EventSemifinal2, domain.EventGrandFinal} {
		status, body := h.do(http.MethodGet, "/api/acts?event="+string(event), "", "")
		require.Equal(t, http.StatusOK, status)
		acts := decode[entities.ActsResponse](t, body).Acts
		require.GreaterOrEqual(t, len(acts), 10, event)
		for i, a := range acts {
			assert.Equal(t, event, a.EventType)
			assert.Equal(t, i+1, a.RunningOrder)
		}
	}

	status, body := h.do(http.MethodGet, "/api/acts?event=final", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"unknown event"}`, string(body))
}

func TestAuth(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodGet, "/api/parties", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"missing bearer token"}`, string(body))

	status, _ = h.do(http.MethodGet, "/api/parties", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = h.do(http.MethodGet, "/api/parties", h.token("host"), "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestParties_CodeAndOwnership(t *testing.T) {
	h := newHarness(t)
	p := h.party("host")

	assert.Len(t, p.Code, domain.CodeLength)
	for _, r := range p.Code {
		assert.Contains(t, codeAlphabet, string(r))
	}
	assert.Equal(t, domain.PartyStatusActive, p.Status)

	status, body := h.do(http.MethodGet, "/api/parties/"+strings.ToLower(p.Code), "", "")
	require.Equal(t, http.StatusOK, status)
	anon := decode[entities.Party](t, body)
	assert.Equal(t, p.ID, anon.ID)
	assert.Empty(t, anon.AdminID)

	status, _ = h.do(http.MethodDelete, "/api/parties/"+p.ID, h.token("intruder"), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodDelete, "/api/parties/"+p.ID, h.token("host"), "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = h.do(http.MethodGet, "/api/parties/"+p.Code, "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGuests_Visibility(t *testing.T) {
	h := newHarness(t)
	p := h.party("host")
	approved := h.approvedGuest(p, "host", "Ana")
	status, _ := h.do(http.MethodPost, "/api/parties/"+p.Code+"/join", "", `{"username":"Ben"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := h.do(http.MethodPost, "/api/parties/"+p.Code+"/join", "", `{"username":"ana"}`)
	assert.Equal(t, http.StatusConflict, status, string(body))

	_, body = h.do(http.MethodGet, "/api/parties/"+p.ID+"/guests", "", "")
	anon := decode[[]entities.Guest](t, body)
	require.Len(t, anon, 1)
	assert.Equal(t, approved.ID, anon[0].ID)

	_, body = h.do(http.MethodGet, "/api/parties/"+p.ID+"/guests", h.token("host"), "")
	assert.Len(t, decode[[]entities.Guest](t, body), 2)

	_, body = h.do(http.MethodGet, "/api/parties/"+p.ID+"/join-requests", h.token("host"), "")
	pending := decode[[]entities.Guest](t, body)
	require.Len(t, pending, 1)
	assert.Equal(t, "Ben", pending[0].Username)

	status, body = h.do(http.MethodGet, "/api/parties/"+p.Code+"/guest-status?guestId="+approved.ID, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.GuestStatusApproved, decode[entities.Guest](t, body).Status)

	status, _ = h.do(http.MethodGet, "/api/parties/"+p.Code+"/guest-status?guestId=nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVotes(t *testing.T) {
	h := newHarness(t)
	p := h.party("host")
	g := h.approvedGuest(p, "host", "Ana")
	acts := h.srv.actsOf(p.EventType)

	status, body := h.do(http.MethodPost, "/api/parties/"+p.ID+"/votes", "", `{"guestId":"`+g.ID+`","votes":{"12":"`+acts[0].ID+`"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status, string(body))

	status, body = h.do(http.MethodPut, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, acts, g.ID))
	assert.Equal(t, http.StatusNotFound, status, string(body))

	status, body = h.do(http.MethodPost, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, acts, g.ID))
	require.Equal(t, http.StatusCreated, status, string(body))
	first := decode[entities.Vote](t, body)

	status, _ = h.do(http.MethodPost, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, acts, g.ID))
	assert.Equal(t, http.StatusConflict, status)

	status, body = h.do(http.MethodPut, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, acts[1:], g.ID))
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[entities.Vote](t, body)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, acts[1].ID, updated.Votes["12"])

	status, _ = h.do(http.MethodGet, "/api/parties/"+p.ID+"/votes/"+g.ID, "", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodGet, "/api/parties/"+p.ID+"/results", "", "")
	assert.Equal(t, http.StatusConflict, status)

	status, body = h.do(http.MethodPost, "/api/parties/"+p.ID+"/end-voting", h.token("host"), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.PartyStatusClosed, decode[entities.EndVotingResponse](t, body).Status)

	status, _ = h.do(http.MethodPut, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, acts, g.ID))
	assert.Equal(t, http.StatusConflict, status)

	status, body = h.do(http.MethodGet, "/api/parties/"+p.ID+"/results", "", "")
	require.Equal(t, http.StatusOK, status)
	res := decode[entities.PartyResults](t, body)
	assert.Equal(t, 1, res.TotalVoters)
	assert.Equal(t, acts[1].ID, res.Results[0].ActID)
	assert.Equal(t, 12, res.Results[0].TotalPoints)
}

func TestVotes_PendingGuestRejected(t *testing.T) {
	h := newHarness(t)
	p := h.party("host")
	_, body := h.do(http.MethodPost, "/api/parties/"+p.Code+"/join", "", `{"username":"Ana"}`)
	g := decode[entities.Guest](t, body)

	status, _ := h.do(http.MethodPost, "/api/parties/"+p.ID+"/votes", "", fullBallot(t, h.srv.actsOf(p.EventType), g.ID))
	assert.Equal(t, http.StatusConflict, status)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	tok := h.token("host-1")

	_, body := h.do(http.MethodGet, "/api/users/profile", tok, "")
	u := decode[entities.User](t, body)
	assert.Equal(t, "host-1", u.ID)
	assert.Equal(t, "host-1", u.Username)

	status, body := h.do(http.MethodPut, "/api/users/profile", tok, `{"username":"  Party   Host "}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Party Host", decode[entities.User](t, body).Username)

	status, _ = h.do(http.MethodPut, "/api/users/profile", tok, `{"username":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTally_TiesShareRank(t *testing.T) {
	acts := []entities.Act{
		{ID: "a", RunningOrder: 1},
		{ID: "b", RunningOrder: 2},
		{ID: "c", RunningOrder: 3},
		{ID: "d", RunningOrder: 4},
	}
	votes := map[string]*entities.Vote{
		"g1": {Votes: map[string]string{"12": "b", "10": "c", "8": "a"}},
		"g2": {Votes: map[string]string{"12": "c", "10": "b", "1": "a"}},
	}

	res := tally(entities.Party{ID: "p", Name: "Finale"}, acts, votes)

	require.Len(t, res.Results, 4)
	got := make([]string, 0, 4)
	ranks := make([]int, 0, 4)
	for _, r := range res.Results {
		got = append(got, r.ActID)
		ranks = append(ranks, r.Rank)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)
	assert.Equal(t, []int{1, 1, 3, 4}, ranks)
	assert.Equal(t, 2, res.TotalVoters)
	assert.Equal(t, "Finale", res.PartyName)
}
