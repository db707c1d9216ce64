package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"festreg/internal/domain"
	"festreg/internal/rules"
)

var (
	propertyUsers      = []string{"u1", "u2", "u3", "u4", "u5"}
	propertySoloEvents = []string{"Essay Writing (English)", "Poem Writing", "Light Music", "Mimicry", "Spotlight"}
)

func TestProperty_ChestNumbersUniqueAndStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture(rt)
		firstSeen := make(map[string]string)
		teams := 0

		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(rt, "team") {
				ids := rapid.SliceOfNDistinct(rapid.SampledFrom(propertyUsers), 3, 5, rapid.ID[string]).Draw(rt, "members")
				team, err := f.svc.CreateTeam(ctx, teamInput("MIME", ids[0], ids[1:]...))
				if err != nil {
					// a participant may sit in only one MIME team
					requireRejection(rt, err)
					continue
				}
				teams++
				if team.TeamChestNo != TeamChestNumber("MI", teams) {
					rt.Fatalf("team %d got chest number %s", teams, team.TeamChestNo)
				}
			} else {
				uid := rapid.SampledFrom(propertyUsers).Draw(rt, "user")
				events := rapid.SliceOfDistinct(rapid.SampledFrom(propertySoloEvents), rapid.ID[string]).Draw(rt, "events")
				require.NoError(rt, f.svc.UpdateUserSoloRegistrations(ctx, uid, events))
			}

			owners := make(map[string]string)
			for _, uid := range propertyUsers {
				no := f.chestNo(rt, uid)
				if no == "" {
					continue
				}
				if prev, ok := firstSeen[uid]; ok && prev != no {
					rt.Fatalf("chest number of %s changed from %s to %s", uid, prev, no)
				}
				firstSeen[uid] = no
				if other, dup := owners[no]; dup {
					rt.Fatalf("chest number %s held by %s and %s", no, other, uid)
				}
				owners[no] = uid
			}
		}

		// every index entry carries the participant's profile chest number
		docs, err := f.store.List(ctx, domain.CollectionEventRegistrations)
		require.NoError(rt, err)
		for _, doc := range docs {
			var entry domain.EventRegistration
			require.NoError(rt, doc.Decode(&entry))
			if entry.Type == domain.RegistrationTypeIndividual {
				require.Equal(rt, firstSeen[entry.UserID], entry.UserChestNo)
				continue
			}
			for uid, no := range entry.MemberChestNos {
				require.Equal(rt, firstSeen[uid], no)
			}
		}
	})
}

var propertyPool = []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}

// requireRejection fails unless err is a participant-facing rejection.
func requireRejection(t require.TestingT, err error) {
	var regErr *domain.RegistrationError
	require.ErrorAs(t, err, &regErr)
	if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrQuotaExceeded) {
		require.Failf(t, "unexpected rejection", "%v", err)
	}
}

func TestProperty_QuotaHoldsForEveryParticipant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture(rt)
		validator := rules.NewValidator(f.catalog)
		query := NewRegistrationQueryService(f.store, discardLogger(), f.svc.contextTimeout)

		var soloTitles, groupTitles []string
		for _, ev := range f.catalog.List() {
			if ev.Mode == domain.ModeGroup {
				groupTitles = append(groupTitles, ev.Title)
			} else {
				soloTitles = append(soloTitles, ev.Title)
			}
		}

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			var err error
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				uid := rapid.SampledFrom(propertyPool).Draw(rt, "user")
				proposed := rapid.SliceOfDistinct(rapid.SampledFrom(soloTitles), rapid.ID[string]).Draw(rt, "proposed")
				err = f.svc.UpdateUserSoloRegistrations(ctx, uid, proposed)
			case 1:
				title := rapid.SampledFrom(groupTitles).Draw(rt, "team_event")
				event, _ := f.catalog.Get(title)
				size := rapid.IntRange(event.MinParticipants, min(event.MaxParticipants, len(propertyPool))).Draw(rt, "size")
				ids := rapid.SliceOfNDistinct(rapid.SampledFrom(propertyPool), size, size, rapid.ID[string]).Draw(rt, "members")
				_, err = f.svc.CreateTeam(ctx, teamInput(title, ids[0], ids[1:]...))
			default:
				uid := rapid.SampledFrom(propertyPool).Draw(rt, "leaver")
				regs, loadErr := query.LoadUserRegistrations(ctx, uid)
				require.NoError(rt, loadErr)
				for _, team := range regs.TeamEvents {
					if team.LeaderID == uid {
						err = f.svc.LeaveTeam(ctx, uid, team.ID)
						require.NoError(rt, err)
						break
					}
				}
			}
			if err != nil {
				requireRejection(rt, err)
			}

			for _, uid := range propertyPool {
				regs, loadErr := query.LoadUserRegistrations(ctx, uid)
				require.NoError(rt, loadErr)
				titles := regs.TeamEventTitles()
				counts := validator.Count(regs.SoloEvents, titles)
				if counts.OffStage > rules.MaxOffStage || counts.OnStageIndividual > rules.MaxOnStageIndividual || counts.Group > rules.MaxGroup {
					rt.Fatalf("quota exceeded for %s: %+v", uid, counts)
				}
				seen := make(map[string]bool)
				for _, title := range titles {
					if seen[title] {
						rt.Fatalf("%s is in two teams for %s", uid, title)
					}
					seen[title] = true
				}

				var memberships domain.TeamMemberships
				_, getErr := f.store.Get(ctx, domain.TeamMembershipsRef(uid), &memberships)
				require.NoError(rt, getErr)
				sort.Strings(titles)
				require.Equal(rt, titles, memberships.EventTitles(), "memberships of %s", uid)
			}
		}
	})
}
