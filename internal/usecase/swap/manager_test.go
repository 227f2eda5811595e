package swap

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memStore
	events *recordingPublisher
	mgr    *Manager

	x, y, stranger user.User
	xCaller        identity.Caller
	yCaller        identity.Caller
	strangerCaller identity.Caller

	xGuitar      skill.UserSkill
	xWantsPython skill.UserSkill
	yPython      skill.UserSkill
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	store := newMemStore()
	events := &recordingPublisher{}
	clock := &stepClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}

	f := &fixture{store: store, events: events}
	f.x = store.addUser(user.User{ExternalID: "ext_x", FirstName: "Xavier", IsPublic: true, Availability: user.AvailabilityAvailable})
	f.y = store.addUser(user.User{ExternalID: "ext_y", FirstName: "Yara", IsPublic: true, Availability: user.AvailabilityAvailable})
	f.stranger = store.addUser(user.User{ExternalID: "ext_z", FirstName: "Zed", IsPublic: true})
	f.xCaller = identity.Caller{ExternalID: "ext_x"}
	f.yCaller = identity.Caller{ExternalID: "ext_y"}
	f.strangerCaller = identity.Caller{ExternalID: "ext_z"}

	f.xGuitar = store.addListing(f.x.ID, "Guitar", skill.ListingOffered)
	f.xWantsPython = store.addListing(f.x.ID, "Python", skill.ListingWanted)
	f.yPython = store.addListing(f.y.ID, "Python", skill.ListingOffered)

	f.mgr = NewManager(store, store, store, Options{
		StrictRoles:  strict,
		CompletionXP: 100,
		Events:       events,
		Logger:       log.New(io.Discard, "", 0),
		Now:          clock.Now,
	})
	return f
}

func (f *fixture) create(t *testing.T) swap.Detail {
	t.Helper()
	d, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, CreateInput{
		ProviderID:       f.y.ID,
		RequesterSkillID: f.xGuitar.ID,
		ProviderSkillID:  f.yPython.ID,
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) forceStatus(id uuid.UUID, s swap.Status) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r := f.store.requests[id]
	r.Status = s
	f.store.requests[id] = r
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestScenarioA_CreateDefaultsToPendingOneHour(t *testing.T) {
	f := newFixture(t, true)

	d := f.create(t)

	assert.Equal(t, swap.StatusPending, d.Status)
	assert.Equal(t, 1.0, d.DurationHours)
	assert.Nil(t, d.Message)
	assert.Equal(t, f.x.ID, d.RequesterID)
	assert.Equal(t, f.y.ID, d.ProviderID)
	assert.Equal(t, "Guitar", d.RequesterSkill.SkillName)
	assert.Equal(t, "Python", d.ProviderSkill.SkillName)
	assert.Equal(t, "Xavier", d.Requester.FirstName)
	assert.Equal(t, "Yara", d.Provider.FirstName)
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)
	assert.Equal(t, []swap.EventType{swap.EventCreated}, f.events.types())
}

func TestScenarioB_ProviderAccepts(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	d, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, swap.StatusAccepted, d.Status)
	assert.True(t, d.UpdatedAt.After(created.UpdatedAt))

	got, err := f.mgr.GetSwapRequest(context.Background(), f.xCaller, created.ID)
	require.NoError(t, err)
	assert.Equal(t, swap.StatusAccepted, got.Status)
}

func TestScenarioC_AcceptedCannotBeRejected(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)
	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusAccepted)
	require.NoError(t, err)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.xCaller, created.ID, swap.StatusRejected)
	require.ErrorIs(t, err, swap.ErrInvalidTransition)

	st, _ := f.store.status(created.ID)
	assert.Equal(t, swap.StatusAccepted, st)
}

func TestScenarioD_CompleteAwardsBothParticipants(t *testing.T) {
	for _, who := range []string{"requester", "provider"} {
		t.Run(who, func(t *testing.T) {
			f := newFixture(t, true)
			created := f.create(t)
			_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusAccepted)
			require.NoError(t, err)

			caller := f.xCaller
			if who == "provider" {
				caller = f.yCaller
			}
			_, err = f.mgr.TransitionSwapRequest(context.Background(), caller, created.ID, swap.StatusCompleted)
			require.NoError(t, err)

			list, err := f.mgr.ListSwapRequestsForUser(context.Background(), f.xCaller)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, swap.StatusCompleted, list[0].Status)

			for _, id := range []uuid.UUID{f.x.ID, f.y.ID} {
				u := f.store.user(id)
				assert.Equal(t, 1, u.TotalSwapsCompleted)
				assert.Equal(t, 100, u.XPPoints)
			}
		})
	}
}

func TestScenarioE_RequesterDeletesPending(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	require.NoError(t, f.mgr.DeleteSwapRequest(context.Background(), f.xCaller, created.ID))

	for _, c := range []identity.Caller{f.xCaller, f.yCaller} {
		list, err := f.mgr.ListSwapRequestsForUser(context.Background(), c)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
	assert.Equal(t, []swap.EventType{swap.EventCreated, swap.EventDeleted}, f.events.types())
}

func TestCreate_SelfSwapRejected(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, CreateInput{
		ProviderID:       f.x.ID,
		RequesterSkillID: f.xGuitar.ID,
		ProviderSkillID:  f.xWantsPython.ID,
	})
	require.ErrorIs(t, err, swap.ErrInvalidArgument)
}

func TestCreate_CallerResolution(t *testing.T) {
	f := newFixture(t, true)
	in := CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: f.yPython.ID}

	_, err := f.mgr.CreateSwapRequest(context.Background(), identity.Caller{}, in)
	require.ErrorIs(t, err, swap.ErrUnauthenticated)

	_, err = f.mgr.CreateSwapRequest(context.Background(), identity.Caller{ExternalID: "ghost"}, in)
	require.ErrorIs(t, err, swap.ErrNotFound)

	banned := f.store.addUser(user.User{ExternalID: "ext_banned", IsBanned: true, IsPublic: true})
	listing := f.store.addListing(banned.ID, "Chess", skill.ListingOffered)
	_, err = f.mgr.CreateSwapRequest(context.Background(), identity.Caller{ExternalID: "ext_banned"}, CreateInput{
		ProviderID: f.y.ID, RequesterSkillID: listing.ID, ProviderSkillID: f.yPython.ID,
	})
	require.ErrorIs(t, err, swap.ErrForbidden)
}

func TestCreate_ProviderVisibility(t *testing.T) {
	f := newFixture(t, true)
	hidden := f.store.addUser(user.User{ExternalID: "ext_hidden", IsPublic: false})
	hiddenListing := f.store.addListing(hidden.ID, "Piano", skill.ListingOffered)
	banned := f.store.addUser(user.User{ExternalID: "ext_banned", IsPublic: true, IsBanned: true})
	bannedListing := f.store.addListing(banned.ID, "Chess", skill.ListingOffered)

	cases := []CreateInput{
		{ProviderID: uuid.New(), RequesterSkillID: f.xGuitar.ID, ProviderSkillID: f.yPython.ID},
		{ProviderID: hidden.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: hiddenListing.ID},
		{ProviderID: banned.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: bannedListing.ID},
	}
	for _, in := range cases {
		_, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, in)
		require.ErrorIs(t, err, swap.ErrNotFound)
	}
}

func TestCreate_ListingChecks(t *testing.T) {
	f := newFixture(t, true)

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{
			name: "missing requester listing",
			in:   CreateInput{ProviderID: f.y.ID, RequesterSkillID: uuid.New(), ProviderSkillID: f.yPython.ID},
			want: swap.ErrNotFound,
		},
		{
			name: "missing provider listing",
			in:   CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: uuid.New()},
			want: swap.ErrNotFound,
		},
		{
			name: "requester listing is wanted",
			in:   CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.xWantsPython.ID, ProviderSkillID: f.yPython.ID},
			want: swap.ErrInvalidArgument,
		},
		{
			name: "requester listing owned by provider",
			in:   CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.yPython.ID, ProviderSkillID: f.yPython.ID},
			want: swap.ErrInvalidArgument,
		},
		{
			name: "provider listing owned by requester",
			in:   CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: f.xWantsPython.ID},
			want: swap.ErrInvalidArgument,
		},
		{
			name: "nil ids",
			in:   CreateInput{ProviderID: f.y.ID},
			want: swap.ErrInvalidArgument,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.events.types())
}

func TestCreate_MessageAndDuration(t *testing.T) {
	f := newFixture(t, true)
	base := CreateInput{ProviderID: f.y.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: f.yPython.ID}

	in := base
	in.Message = strPtr("  <b>Hi</b> Yara, fancy a jam?  ")
	in.DurationHours = floatPtr(2.5)
	d, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, in)
	require.NoError(t, err)
	require.NotNil(t, d.Message)
	assert.Equal(t, "Hi Yara, fancy a jam?", *d.Message)
	assert.Equal(t, 2.5, d.DurationHours)

	for _, bad := range []float64{0, 0.25, 8.5, -1} {
		in := base
		in.DurationHours = floatPtr(bad)
		_, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, in)
		require.ErrorIs(t, err, swap.ErrInvalidArgument, "duration %v", bad)
	}

	in = base
	in.Message = strPtr(strings.Repeat("a", swap.MaxMessageLength+1))
	_, err = f.mgr.CreateSwapRequest(context.Background(), f.xCaller, in)
	require.ErrorIs(t, err, swap.ErrInvalidArgument)
}

func TestCreate_DuplicatePendingIsConflict(t *testing.T) {
	f := newFixture(t, true)
	f.create(t)

	_, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, CreateInput{
		ProviderID: f.y.ID, RequesterSkillID: f.xGuitar.ID, ProviderSkillID: f.yPython.ID,
	})
	require.ErrorIs(t, err, swap.ErrConflict)
}

func TestTransition_DisallowedPairsLeaveStatusUnchanged(t *testing.T) {
	all := []swap.Status{swap.StatusPending, swap.StatusAccepted, swap.StatusRejected, swap.StatusCancelled, swap.StatusCompleted}

	for _, from := range all {
		for _, to := range all {
			if swap.CanTransition(from, to) {
				continue
			}
			f := newFixture(t, false)
			created := f.create(t)
			f.forceStatus(created.ID, from)

			_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, to)
			require.ErrorIs(t, err, swap.ErrInvalidTransition, "%s -> %s", from, to)

			st, _ := f.store.status(created.ID)
			require.Equal(t, from, st)
		}
	}
}

func TestTransition_RepeatedTerminalTargetFails(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusRejected)
	require.NoError(t, err)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusRejected)
	require.ErrorIs(t, err, swap.ErrInvalidTransition)
}

func TestTransition_UnknownStatus(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.Status("archived"))
	require.ErrorIs(t, err, swap.ErrInvalidArgument)
}

func TestNonParticipantSeesNotFound(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.strangerCaller, created.ID, swap.StatusAccepted)
	require.ErrorIs(t, err, swap.ErrNotFound)

	err = f.mgr.DeleteSwapRequest(context.Background(), f.strangerCaller, created.ID)
	require.ErrorIs(t, err, swap.ErrNotFound)

	_, err = f.mgr.GetSwapRequest(context.Background(), f.strangerCaller, created.ID)
	require.ErrorIs(t, err, swap.ErrNotFound)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.strangerCaller, uuid.New(), swap.StatusAccepted)
	require.ErrorIs(t, err, swap.ErrNotFound)

	st, _ := f.store.status(created.ID)
	assert.Equal(t, swap.StatusPending, st)
}

func TestDelete_ProviderCannotDelete(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	err := f.mgr.DeleteSwapRequest(context.Background(), f.yCaller, created.ID)
	require.ErrorIs(t, err, swap.ErrNotFound)

	_, ok := f.store.status(created.ID)
	assert.True(t, ok)
}

func TestDelete_OnlyPending(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)
	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusAccepted)
	require.NoError(t, err)

	err = f.mgr.DeleteSwapRequest(context.Background(), f.xCaller, created.ID)
	require.ErrorIs(t, err, swap.ErrInvalidTransition)

	st, ok := f.store.status(created.ID)
	require.True(t, ok)
	assert.Equal(t, swap.StatusAccepted, st)
}

func TestStrictRoles(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	_, err := f.mgr.TransitionSwapRequest(context.Background(), f.xCaller, created.ID, swap.StatusAccepted)
	require.ErrorIs(t, err, swap.ErrForbidden)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, swap.StatusCancelled)
	require.ErrorIs(t, err, swap.ErrForbidden)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.xCaller, created.ID, swap.StatusCancelled)
	require.NoError(t, err)
}

func TestLenientRoles(t *testing.T) {
	f := newFixture(t, false)
	created := f.create(t)

	d, err := f.mgr.TransitionSwapRequest(context.Background(), f.xCaller, created.ID, swap.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, swap.StatusAccepted, d.Status)
}

func TestConcurrentAcceptAndRejectExactlyOneWins(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture(t, true)
		created := f.create(t)

		targets := []swap.Status{swap.StatusAccepted, swap.StatusRejected}
		errs := make([]error, len(targets))
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i, to := range targets {
			wg.Add(1)
			go func(i int, to swap.Status) {
				defer wg.Done()
				<-start
				_, errs[i] = f.mgr.TransitionSwapRequest(context.Background(), f.yCaller, created.ID, to)
			}(i, to)
		}
		close(start)
		wg.Wait()

		winners := 0
		var winner swap.Status
		for i, err := range errs {
			if err == nil {
				winners++
				winner = targets[i]
				continue
			}
			require.True(t, errors.Is(err, swap.ErrConflict) || errors.Is(err, swap.ErrInvalidTransition), "unexpected err %v", err)
		}
		require.Equal(t, 1, winners)
		st, _ := f.store.status(created.ID)
		require.Equal(t, winner, st)
	}
}

func TestList_UnknownCallerGetsEmpty(t *testing.T) {
	f := newFixture(t, true)
	f.create(t)

	list, err := f.mgr.ListSwapRequestsForUser(context.Background(), identity.Caller{ExternalID: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.mgr.ListSwapRequestsForUser(context.Background(), identity.Caller{})
	require.ErrorIs(t, err, swap.ErrUnauthenticated)
}

func TestList_NewestFirst(t *testing.T) {
	f := newFixture(t, true)
	first := f.create(t)
	drums := f.store.addListing(f.x.ID, "Drums", skill.ListingOffered)
	second, err := f.mgr.CreateSwapRequest(context.Background(), f.xCaller, CreateInput{
		ProviderID: f.y.ID, RequesterSkillID: drums.ID, ProviderSkillID: f.yPython.ID,
	})
	require.NoError(t, err)

	list, err := f.mgr.ListSwapRequestsForUser(context.Background(), f.yCaller)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestInfrastructureErrorsAreNotBusinessErrors(t *testing.T) {
	f := newFixture(t, true)
	f.store.err = errors.New("connection refused")

	_, err := f.mgr.ListSwapRequestsForUser(context.Background(), f.xCaller)
	require.Error(t, err)
	for _, target := range businessErrors {
		assert.False(t, errors.Is(err, target))
	}
}

func TestLeaveFeedback(t *testing.T) {
	f := newFixture(t, true)
	created := f.create(t)

	_, err := f.mgr.LeaveFeedback(context.Background(), f.xCaller, created.ID, FeedbackInput{Rating: 5})
	require.ErrorIs(t, err, swap.ErrInvalidTransition)

	_, err = f.mgr.TransitionSwapRequest(context.Background(), f.xCaller, created.ID, swap.StatusCompleted)
	require.NoError(t, err)

	_, err = f.mgr.LeaveFeedback(context.Background(), f.xCaller, created.ID, FeedbackInput{Rating: 6})
	require.ErrorIs(t, err, swap.ErrInvalidArgument)

	fb, err := f.mgr.LeaveFeedback(context.Background(), f.xCaller, created.ID, FeedbackInput{Rating: 4, Comment: strPtr("great"), IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, f.y.ID, fb.RevieweeID)
	assert.Equal(t, 4.0, f.store.user(f.y.ID).AverageRating)

	_, err = f.mgr.LeaveFeedback(context.Background(), f.xCaller, created.ID, FeedbackInput{Rating: 3})
	require.ErrorIs(t, err, swap.ErrConflict)

	_, err = f.mgr.LeaveFeedback(context.Background(), f.strangerCaller, created.ID, FeedbackInput{Rating: 3})
	require.ErrorIs(t, err, swap.ErrNotFound)
}
