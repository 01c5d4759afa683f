package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

func TestTierProvisioner_ProvisionTiers(t *testing.T) {
	t.Run("creates missing tiers and skips existing ones", func(t *testing.T) {
		guild := newFakeGuild()
		existing := guild.addRole(testGuildID, "Tier 5", 0x000001)
		sleeper := &recordingSleeper{}

		provisioner := NewTierProvisioner(guild, domain.DefaultTierTable(), 500*time.Millisecond)
		provisioner.sleep = sleeper.Sleep

		out, err := provisioner.ProvisionTiers(context.Background(), testGuildID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Created) != 9 {
			t.Errorf("expected 9 created roles, got %d", len(out.Created))
		}
		if len(out.Unchanged) != 1 || out.Unchanged[0].ID != existing.ID {
			t.Errorf("expected existing Tier 5 to be left alone, got %+v", out.Unchanged)
		}
		for _, spec := range guild.created {
			entry := domain.DefaultTierTable()
			var tier domain.Tier
			for _, e := range entry.Entries() {
				if domain.TierRoleName(e.Tier) == spec.Name {
					tier = e.Tier
				}
			}
			color, _ := entry.ColorFor(tier)
			if spec.Color != color {
				t.Errorf("%s created with color %s, want %s", spec.Name, spec.Color.Hex(), color.Hex())
			}
		}
		// Pauses only between creations.
		if got := len(sleeper.Delays()); got != 8 {
			t.Errorf("expected 8 pauses, got %d", got)
		}
	})

	t.Run("collects per-role failures", func(t *testing.T) {
		guild := newFakeGuild()
		guild.createErr = errors.New("missing permissions")

		provisioner := NewTierProvisioner(guild, domain.DefaultTierTable(), 0)
		out, err := provisioner.ProvisionTiers(context.Background(), testGuildID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Failed) != 10 {
			t.Errorf("expected 10 failures, got %d", len(out.Failed))
		}
		if len(out.Created) != 0 {
			t.Errorf("expected no created roles, got %d", len(out.Created))
		}
	})

	t.Run("listing failure aborts", func(t *testing.T) {
		guild := newFakeGuild()
		guild.listErr = errors.New("unauthorized")

		provisioner := NewTierProvisioner(guild, domain.DefaultTierTable(), 0)
		_, err := provisioner.ProvisionTiers(context.Background(), testGuildID)
		if !errors.Is(err, ErrRoleProvision) {
			t.Fatalf("expected ErrRoleProvision, got %v", err)
		}
	})
}

func TestTierProvisioner_RecolorTiers(t *testing.T) {
	guild := newFakeGuild()
	wrong := guild.addRole(testGuildID, "Tier 5", 0x123456)
	right := guild.addRole(testGuildID, "Tier 10", 0xE80129)
	guild.addRole(testGuildID, "Rating 1000", domain.NeutralRoleColor)

	provisioner := NewTierProvisioner(guild, domain.DefaultTierTable(), 0)
	out, err := provisioner.RecolorTiers(context.Background(), testGuildID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Updated) != 1 || out.Updated[0].ID != wrong.ID {
		t.Fatalf("expected Tier 5 to be recolored, got %+v", out.Updated)
	}
	if out.Updated[0].Color != 0xFFCD22 {
		t.Errorf("expected #ffcd22, got %s", out.Updated[0].Color.Hex())
	}
	if len(out.Unchanged) != 1 || out.Unchanged[0].ID != right.ID {
		t.Errorf("expected Tier 10 unchanged, got %+v", out.Unchanged)
	}
	if guild.editCalls != 1 {
		t.Errorf("expected 1 edit, got %d", guild.editCalls)
	}
}

func TestMemberLocks_ReleasesIdleEntries(t *testing.T) {
	locks := newMemberLocks()

	unlockA, err := locks.lock(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unlockB, err := locks.lock(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locks.size() != 2 {
		t.Errorf("expected 2 locks, got %d", locks.size())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locks.lock(ctx, 1, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled while member is busy, got %v", err)
	}

	unlockA()
	unlockB()
	if locks.size() != 0 {
		t.Errorf("expected all locks released, got %d", locks.size())
	}
}
