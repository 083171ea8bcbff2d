package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/remdocs/remdocs/internal/activity"
	"github.com/remdocs/remdocs/internal/task"
)

// PublicProfile is a profile together with its owner's statistics.
type PublicProfile struct {
	Profile task.Profile
	Stats   task.Stats
}

// GetProfile returns the user's own profile, or the default one if none
// has been saved.
func (s *Service) GetProfile(ctx context.Context, userID string) (task.Profile, error) {
	if err := requireUser(userID); err != nil {
		return task.Profile{}, err
	}
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, task.ErrProfileNotFound) {
		return task.DefaultProfile(userID), nil
	}
	return p, err
}

// GetPublicProfile returns ownerID's profile as seen by viewerID. Private
// profiles are only visible to their owner.
func (s *Service) GetPublicProfile(ctx context.Context, viewerID, ownerID string) (PublicProfile, error) {
	p, err := s.GetProfile(ctx, ownerID)
	if err != nil {
		return PublicProfile{}, err
	}
	if !p.IsPublic && viewerID != ownerID {
		return PublicProfile{}, task.ErrForbidden
	}
	stats, err := s.Stats(ctx, ownerID)
	if err != nil {
		return PublicProfile{}, err
	}
	return PublicProfile{Profile: p, Stats: stats}, nil
}

// UpdateProfile applies a patch to the user's profile and stores it.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch task.ProfilePatch) (task.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return task.Profile{}, err
	}

	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			name = task.DefaultDisplayName
		}
		p.DisplayName = name
	}
	if patch.Bio != nil {
		bio := strings.TrimSpace(*patch.Bio)
		if len([]rune(bio)) > maxBioLength {
			return task.Profile{}, fmt.Errorf("%w: bio exceeds %d characters", task.ErrTaskInvalidArgs, maxBioLength)
		}
		p.Bio = bio
	}
	if patch.IsPublic != nil {
		p.IsPublic = *patch.IsPublic
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.store.UpsertProfile(ctx, p); err != nil {
		s.log.Warn("failed to save profile", "user_id", userID, "error", err)
		return task.Profile{}, err
	}
	s.record(activity.EventProfileSaved, userID, "", map[string]interface{}{"is_public": p.IsPublic})
	return p, nil
}

const maxBioLength = 500
