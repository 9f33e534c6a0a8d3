package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/config"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/notifier"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/JocaCola1972/LevelUP-Connect/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	server   *Server
	store    *club.Store
	advisor  *advisor.Mock
	notifier *notifier.Mock
	admin    club.Player
}

// setupTestServer initializes a new server with an in-memory store and mock clients.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	backend := kv.NewMemory()
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock()

	store := club.New(backend, club.State{}, metricsSvc, ps)
	admin, err := store.EnsureAdmin(ctx, "Admin", "999")
	require.NoError(t, err)
	setPassword(t, store, admin.ID, "admin-pass")

	sessions, err := session.New(ctx, store, backend, metricsSvc)
	require.NoError(t, err)

	adv := &advisor.Mock{}
	notif := notifier.NewMock()
	server := NewServer(store, sessions, adv, notif, metricsSvc, metricsHandler, config.Config{}, ps)

	return &testServer{server: server, store: store, advisor: adv, notifier: notif, admin: admin}
}

func setPassword(t *testing.T, store *club.Store, id, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.SetPassword(context.Background(), id, string(hash)))
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, target, &buf)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	ts.server.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, phone, password string) {
	t.Helper()
	rr := ts.do(t, "POST", "/session/phone", phoneRequest{Phone: phone})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.do(t, "POST", "/session/password", passwordRequest{Password: password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func (ts *testServer) addPlayer(t *testing.T, name, phone string) club.Player {
	t.Helper()
	p, err := ts.store.AddPlayer(context.Background(), club.PlayerDraft{Name: name, Phone: phone})
	require.NoError(t, err)
	return p
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheckHandler(t *testing.T) {
	ts := setupTestServer(t)
	rr := ts.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	rr := ts.do(t, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "padel_players_registered_total 1")
}

func TestFirstLoginFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.addPlayer(t, "Ana", "111")

	rr := ts.do(t, "POST", "/session/phone", phoneRequest{Phone: "000"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, CodeUnauthorized, decodeError(t, rr).Code)

	rr = ts.do(t, "POST", "/session/phone", phoneRequest{Phone: "111"})
	require.Equal(t, http.StatusOK, rr.Code)
	var state stateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, session.StateAwaitingSetup, state.State)

	rr = ts.do(t, "POST", "/session/setup", passwordRequest{Password: "ab"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, "POST", "/session/setup", passwordRequest{Password: "abcd"})
	require.Equal(t, http.StatusOK, rr.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, session.StateAuthenticated, snap.State)
	require.NotNil(t, snap.Player)
	assert.Equal(t, "Ana", snap.Player.Name)
	assert.NotContains(t, rr.Body.String(), "$2a$")

	rr = ts.do(t, "POST", "/session/logout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.do(t, "GET", "/players", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListPlayers_Visibility(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	ts.addPlayer(t, "Bruno", "222")
	setPassword(t, ts.store, ana.ID, "abcd")

	ts.login(t, "111", "abcd")
	rr := ts.do(t, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, ana.ID, players[0].ID)

	ts.do(t, "POST", "/session/logout", nil)
	ts.login(t, "999", "admin-pass")
	rr = ts.do(t, "GET", "/players?q=bru", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Bruno", players[0].Name)
}

func TestAddPlayerHandler(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	setPassword(t, ts.store, ana.ID, "abcd")

	ts.login(t, "111", "abcd")
	rr := ts.do(t, "POST", "/players", playerRequest{Name: "Bruno", Phone: "222"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts.do(t, "POST", "/session/logout", nil)
	ts.login(t, "999", "admin-pass")
	rr = ts.do(t, "POST", "/players", playerRequest{Name: "Bruno", Phone: "222", Level: club.LevelAdvanced, Side: club.SideBackhand})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created club.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, club.LevelAdvanced, created.Level)
	assert.Equal(t, club.RolePlayer, created.Role)

	rr = ts.do(t, "POST", "/players", playerRequest{Name: "Other", Phone: "222"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = ts.do(t, "POST", "/players", playerRequest{Name: "", Phone: "333"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProfileHandler(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	bruno := ts.addPlayer(t, "Bruno", "222")
	setPassword(t, ts.store, ana.ID, "abcd")
	ts.login(t, "111", "abcd")

	rr := ts.do(t, "PUT", "/me", playerRequest{Name: "Ana Maria", Phone: "111", Level: club.LevelElite, Side: club.SideForehand})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got, err := ts.store.Player(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)

	rr = ts.do(t, "PUT", "/players/"+bruno.ID, playerRequest{Name: "X", Phone: "222"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.do(t, "POST", "/me/password", passwordRequest{Password: "newpass"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestBookingFlow(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	bruno := ts.addPlayer(t, "Bruno", "222")
	setPassword(t, ts.store, ana.ID, "abcd")

	ts.login(t, "111", "abcd")
	rr := ts.do(t, "POST", "/bookings/enroll", enrollRequest{SlotTime: club.SlotEarly})
	require.Equal(t, http.StatusCreated, rr.Code)
	var booking club.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &booking))

	rr = ts.do(t, "POST", "/bookings/enroll", enrollRequest{SlotTime: club.SlotEarly})
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = ts.do(t, "POST", "/bookings/enroll", enrollRequest{SlotTime: "20:00-21:00"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, "POST", "/bookings/"+booking.ID+"/partner", partnerRequest{PlayerIDs: []string{ana.ID, bruno.ID}})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts.do(t, "POST", "/session/logout", nil)
	ts.login(t, "999", "admin-pass")
	rr = ts.do(t, "POST", "/bookings/"+booking.ID+"/partner", partnerRequest{PlayerIDs: []string{ana.ID, bruno.ID}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, "GET", "/slots", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var slots []slotView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &slots))
	require.Len(t, slots, 3)
	require.Len(t, slots[0].Bookings, 1)
	assert.True(t, slots[0].Bookings[0].CanCancel)
	assert.ElementsMatch(t, []string{ana.ID, bruno.ID}, slots[0].Bookings[0].Removable)
	assert.Len(t, slots[0].Available, 1) // only the admin is free
	assert.Len(t, slots[1].Available, 3)

	rr = ts.do(t, "POST", "/bookings/"+booking.ID+"/leave", leaveRequest{PlayerID: ana.ID, Action: club.LeaveDropMember})
	require.Equal(t, http.StatusOK, rr.Code)
	var leave leaveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &leave))
	require.NotNil(t, leave.Booking)
	assert.Equal(t, booking.ID, leave.Booking.ID)
	assert.Equal(t, []string{bruno.ID}, leave.Booking.PlayerIDs)

	rr = ts.do(t, "DELETE", "/bookings/"+booking.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.do(t, "DELETE", "/bookings/"+booking.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateBookingHandler_Validation(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	ts.login(t, "999", "admin-pass")

	rr := ts.do(t, "POST", "/bookings", createBookingRequest{SlotTime: club.SlotLate, Mode: club.ModeSolo})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, "POST", "/bookings", createBookingRequest{SlotTime: club.SlotLate, PlayerIDs: []string{ana.ID}, Mode: club.ModeSolo})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestDeletePlayerHandler_ReportsBookings(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	bruno := ts.addPlayer(t, "Bruno", "222")
	ts.login(t, "999", "admin-pass")

	ctx := context.Background()
	adminActor := ts.admin.Actor()
	_, err := ts.store.CreateBooking(ctx, adminActor, club.SlotEarly, []string{ana.ID}, club.ModeSolo)
	require.NoError(t, err)
	_, err = ts.store.CreateBooking(ctx, adminActor, club.SlotMid, []string{ana.ID, bruno.ID}, club.ModeDoubles)
	require.NoError(t, err)

	rr := ts.do(t, "DELETE", "/players/"+ana.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp deletePlayerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, deletePlayerResponse{Deleted: true, AffectedBookings: 2, CancelledBookings: 1}, resp)
	assert.Len(t, ts.store.Bookings(), 1)
}

func TestLeaveHandler_DoublesNeedsAction(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	bruno := ts.addPlayer(t, "Bruno", "222")
	ctx := context.Background()
	pair, err := ts.store.CreateBooking(ctx, ts.admin.Actor(), club.SlotLate, []string{ana.ID, bruno.ID}, club.ModeDoubles)
	require.NoError(t, err)
	ts.login(t, "999", "admin-pass")

	rr := ts.do(t, "POST", "/bookings/"+pair.ID+"/leave", leaveRequest{PlayerID: ana.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, rr).Code)
	stored, err := ts.store.Booking(pair.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ana.ID, bruno.ID}, stored.PlayerIDs)

	solo, err := ts.store.SelfEnroll(ctx, ana.Actor(), club.SlotEarly)
	require.NoError(t, err)
	rr = ts.do(t, "POST", "/bookings/"+solo.ID+"/leave", leaveRequest{PlayerID: ana.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	_, err = ts.store.Booking(solo.ID)
	assert.ErrorIs(t, err, club.ErrBookingNotFound)
}

func TestMatchmakingHandler_RequiresFourPlayers(t *testing.T) {
	ts := setupTestServer(t)
	ts.addPlayer(t, "Ana", "111")
	ts.addPlayer(t, "Bruno", "222")
	ts.login(t, "999", "admin-pass")

	rr := ts.do(t, "POST", "/matchmaking", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, CodeInsufficientPlayers, decodeError(t, rr).Code)
	assert.Empty(t, ts.advisor.SuggestCalls)
}

func TestMatchmakingHandler_Suggests(t *testing.T) {
	ts := setupTestServer(t)
	ts.addPlayer(t, "Ana", "111")
	ts.addPlayer(t, "Bruno", "222")
	ts.addPlayer(t, "Carla", "333")
	ts.login(t, "999", "admin-pass")

	ts.advisor.SuggestFunc = func(ctx context.Context, players []club.Player) (*advisor.Suggestion, error) {
		return &advisor.Suggestion{Team1: players[:2], Team2: players[2:4], Reasoning: "ok", BalanceScore: 75}, nil
	}

	rr := ts.do(t, "POST", "/matchmaking?announce=true&dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, ts.advisor.SuggestCalls, 1)
	assert.Len(t, ts.advisor.SuggestCalls[0], 4)

	var suggestion advisor.Suggestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &suggestion))
	assert.Len(t, suggestion.Team1, 2)
	assert.Equal(t, 75.0, suggestion.BalanceScore)

	require.Len(t, ts.notifier.SendMatchSuggestionCalls, 1)
	assert.True(t, ts.notifier.SendMatchSuggestionCalls[0].DryRun)
}

func TestMatchmakingHandler_PlayerSeesNoContactDetails(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	ts.addPlayer(t, "Bruno", "222")
	ts.addPlayer(t, "Carla", "333")
	setPassword(t, ts.store, ana.ID, "abcd")
	ts.login(t, "111", "abcd")

	ts.advisor.SuggestFunc = func(ctx context.Context, players []club.Player) (*advisor.Suggestion, error) {
		return &advisor.Suggestion{Team1: players[:2], Team2: players[2:4], Reasoning: "ok", BalanceScore: 60}, nil
	}

	rr := ts.do(t, "POST", "/matchmaking", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, phone := range []string{"999", "222", "333"} {
		assert.NotContains(t, body, `"`+phone+`"`)
	}
	assert.NotContains(t, body, `"phone"`)
	assert.NotContains(t, body, `"role"`)

	var resp suggestionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Team1, 2)
	require.Len(t, resp.Team2, 2)
	assert.Equal(t, "Admin", resp.Team1[0].Name)
	assert.Equal(t, club.LevelBeginner.Label(), resp.Team1[0].LevelLabel)
}

func TestMatchmakingHandler_AdvisorFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.addPlayer(t, "Ana", "111")
	ts.addPlayer(t, "Bruno", "222")
	ts.addPlayer(t, "Carla", "333")
	ts.login(t, "999", "admin-pass")

	ts.advisor.SuggestFunc = func(ctx context.Context, players []club.Player) (*advisor.Suggestion, error) {
		return nil, errors.Join(advisor.ErrAdvisor, errors.New("malformed"))
	}

	rr := ts.do(t, "POST", "/matchmaking", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Empty(t, ts.notifier.SendMatchSuggestionCalls)
}

func TestClubEventHandler_PostsLineup(t *testing.T) {
	ts := setupTestServer(t)
	ana := ts.addPlayer(t, "Ana", "111")
	booking, err := ts.store.SelfEnroll(context.Background(), ana.Actor(), club.SlotMid)
	require.NoError(t, err)

	data, err := msgpack.Marshal(pubsub.ClubEvent{Type: pubsub.EventBookingCreated, BookingID: booking.ID, SlotTime: string(club.SlotMid)})
	require.NoError(t, err)
	envelope := map[string]any{
		"subscription": "projects/p/subscriptions/club-events",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data)},
	}

	rr := ts.do(t, "POST", "/pubsub/club-events", envelope)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, ts.notifier.SendSlotLineupCalls, 1)
	call := ts.notifier.SendSlotLineupCalls[0]
	assert.Equal(t, club.SlotMid, call.Slot)
	require.Len(t, call.Lineup, 1)
	assert.Equal(t, "Ana", call.Lineup[0][0].Name)

	rr = ts.do(t, "POST", "/pubsub/club-events", map[string]any{"message": map[string]string{"data": "%%%"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClubEventHandler_RequiresPushToken(t *testing.T) {
	ts := setupTestServer(t)
	ts.server.Cfg.PushToken = "push-secret"
	ana := ts.addPlayer(t, "Ana", "111")
	_, err := ts.store.SelfEnroll(context.Background(), ana.Actor(), club.SlotEarly)
	require.NoError(t, err)

	data, err := msgpack.Marshal(pubsub.ClubEvent{Type: pubsub.EventBookingCreated, SlotTime: string(club.SlotEarly)})
	require.NoError(t, err)
	envelope := map[string]any{"message": map[string]string{"data": base64.StdEncoding.EncodeToString(data)}}

	rr := ts.do(t, "POST", "/pubsub/club-events", envelope)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = ts.do(t, "POST", "/pubsub/club-events?token=wrong", envelope)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, ts.notifier.SendSlotLineupCalls)

	rr = ts.do(t, "POST", "/pubsub/club-events?token=push-secret", envelope)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, ts.notifier.SendSlotLineupCalls, 1)
}
