package club

import (
	"context"
	"testing"

	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayer_Defaults(t *testing.T) {
	env := setupTestStore(t)

	p, err := env.store.AddPlayer(context.Background(), PlayerDraft{Name: "  Ana ", Phone: " 111 "})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "111", p.Phone)
	assert.Equal(t, LevelBeginner, p.Level)
	assert.Equal(t, SideBoth, p.Side)
	assert.Equal(t, RolePlayer, p.Role)
	assert.Zero(t, p.MatchesPlayed)
	assert.False(t, p.HasPassword())
	// The admin seeded by the helper counts as well.
	assert.Equal(t, 2, env.metrics.PlayersRegistered())
	assert.Contains(t, env.pubsub.Topics(), pubsub.EventPlayerRegistered)
}

func TestAddPlayer_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft PlayerDraft
		want  error
	}{
		{"blank name", PlayerDraft{Name: "  ", Phone: "111"}, ErrBlankField},
		{"blank phone", PlayerDraft{Name: "Ana", Phone: ""}, ErrBlankField},
		{"level out of range", PlayerDraft{Name: "Ana", Phone: "111", Level: 7}, ErrInvalidField},
		{"unknown side", PlayerDraft{Name: "Ana", Phone: "111", Side: "left"}, ErrInvalidField},
		{"duplicate phone", PlayerDraft{Name: "Other", Phone: "999"}, ErrDuplicatePhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestStore(t)
			_, err := env.store.AddPlayer(context.Background(), tt.draft)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, env.store.Players(), 1)
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, ErrBlankField, ErrValidation)
	assert.ErrorIs(t, ErrInvalidSelection, ErrValidation)
	assert.ErrorIs(t, ErrDuplicatePhone, ErrConflict)
	assert.ErrorIs(t, ErrAlreadyEnrolled, ErrConflict)
	assert.ErrorIs(t, ErrForbidden, ErrPermission)
	assert.ErrorIs(t, ErrUnknownSlot, ErrNotFound)
	assert.ErrorIs(t, ErrNotAMember, ErrNotFound)
}

func TestUpdatePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("phone collision leaves state unchanged", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")
		env.addPlayer(t, "Bruno", "222")

		a.Phone = "222"
		_, err := env.store.UpdatePlayer(ctx, env.admin, a)
		assert.ErrorIs(t, err, ErrDuplicatePhone)

		got, err := env.store.Player(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "111", got.Phone)
	})

	t.Run("keeping own phone is not a collision", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")
		a.Level = LevelElite
		a.Side = SideBackhand

		got, err := env.store.UpdatePlayer(ctx, a.Actor(), a)
		require.NoError(t, err)
		assert.Equal(t, LevelElite, got.Level)
		assert.Equal(t, SideBackhand, got.Side)
	})

	t.Run("player cannot edit someone else", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")
		b := env.addPlayer(t, "Bruno", "222")

		b.Name = "Hacked"
		_, err := env.store.UpdatePlayer(ctx, a.Actor(), b)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("player cannot promote themselves", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")

		a.Role = RoleAdmin
		_, err := env.store.UpdatePlayer(ctx, a.Actor(), a)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can change roles", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")

		a.Role = RoleAdmin
		got, err := env.store.UpdatePlayer(ctx, env.admin, a)
		require.NoError(t, err)
		assert.True(t, got.Actor().IsAdmin())
	})

	t.Run("password hash survives update", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")
		require.NoError(t, env.store.SetPassword(ctx, a.ID, "stored-hash"))

		a.Name = "Ana Maria"
		a.PasswordHash = "overwritten"
		got, err := env.store.UpdatePlayer(ctx, a.Actor(), a)
		require.NoError(t, err)
		assert.Equal(t, "stored-hash", got.PasswordHash)
	})

	t.Run("unknown player", func(t *testing.T) {
		env := setupTestStore(t)
		_, err := env.store.UpdatePlayer(ctx, env.admin, Player{ID: "nope", Name: "X", Phone: "1"})
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestDeletePlayer_Cascade(t *testing.T) {
	ctx := context.Background()
	env := setupTestStore(t)
	a := env.addPlayer(t, "Ana", "111")
	b := env.addPlayer(t, "Bruno", "222")

	solo, err := env.store.SelfEnroll(ctx, a.Actor(), SlotEarly)
	require.NoError(t, err)
	pair, err := env.store.CreateBooking(ctx, env.admin, SlotMid, []string{a.ID, b.ID}, ModeDoubles)
	require.NoError(t, err)

	var removed []string
	env.store.OnPlayerRemoved(func(_ context.Context, id string) {
		removed = append(removed, id)
	})

	assert.True(t, env.store.HasBookings(a.ID))
	require.NoError(t, env.store.DeletePlayer(ctx, a.ID, env.admin))

	_, err = env.store.Player(a.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = env.store.Booking(solo.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	survivor, err := env.store.Booking(pair.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, survivor.PlayerIDs)
	assert.False(t, env.store.HasBookings(a.ID))
	assert.Equal(t, []string{a.ID}, removed)
	assert.Equal(t, 1, env.metrics.PlayersRemoved())
	assert.Equal(t, 1, env.metrics.BookingsCancelled())

	for _, bk := range env.store.Bookings() {
		assert.NotEmpty(t, bk.PlayerIDs)
		assert.NotContains(t, bk.PlayerIDs, a.ID)
	}

	// Deleting again is a no-op.
	require.NoError(t, env.store.DeletePlayer(ctx, a.ID, env.admin))
	assert.Equal(t, []string{a.ID}, removed)
	assert.Len(t, env.store.Players(), 2)
}

func TestDeletePlayer_Permissions(t *testing.T) {
	ctx := context.Background()
	env := setupTestStore(t)
	a := env.addPlayer(t, "Ana", "111")
	b := env.addPlayer(t, "Bruno", "222")

	err := env.store.DeletePlayer(ctx, b.ID, a.Actor())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, env.store.Players(), 3)

	require.NoError(t, env.store.DeletePlayer(ctx, a.ID, a.Actor()))
	assert.Len(t, env.store.Players(), 2)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		env := setupTestStore(t)
		again, err := env.store.EnsureAdmin(ctx, "Admin", "999")
		require.NoError(t, err)
		assert.Equal(t, env.admin.ID, again.ID)
		assert.Len(t, env.store.Players(), 1)
	})

	t.Run("promotes existing player with the admin phone", func(t *testing.T) {
		env := setupTestStore(t)
		a := env.addPlayer(t, "Ana", "111")

		promoted, err := env.store.EnsureAdmin(ctx, "Whatever", "111")
		require.NoError(t, err)
		assert.Equal(t, a.ID, promoted.ID)
		assert.Equal(t, RoleAdmin, promoted.Role)
		assert.Equal(t, "Ana", promoted.Name)
	})

	t.Run("blank", func(t *testing.T) {
		env := setupTestStore(t)
		_, err := env.store.EnsureAdmin(ctx, "", "123")
		assert.ErrorIs(t, err, ErrBlankField)
	})
}

func TestFilterPlayers(t *testing.T) {
	players := []Player{
		{ID: "1", Name: "Ana Costa", Phone: "911", Level: LevelElite},
		{ID: "2", Name: "Bruno", Phone: "922", Level: LevelIntermediate},
		{ID: "3", Name: "Carla", Phone: "933", Level: LevelUpperIntermediate},
	}

	ids := func(ps []Player) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1"}, ids(FilterPlayers(players, "ana")))
	assert.Equal(t, []string{"2", "3"}, ids(FilterPlayers(players, "intermediate")))
	assert.Equal(t, []string{"3"}, ids(FilterPlayers(players, "933")))
	assert.Len(t, FilterPlayers(players, " "), 3)
	assert.Empty(t, FilterPlayers(players, "zzz"))
}
