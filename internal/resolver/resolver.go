package resolver

import (
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Signalis-Media/beacon/internal/model"
)

// Source tags which priority step produced a resolution. Operators and the
// materializer both branch on it, so the values are part of the API.
type Source string

const (
	SourceEmergency        Source = "emergency"
	SourceDeviceOverride   Source = "device_override"
	SourceGroupOverride    Source = "group_override"
	SourceScheduledScene   Source = "scheduled_scene"
	SourceLegacySchedule   Source = "legacy_schedule"
	SourceAssignedLayout   Source = "assigned_layout"
	SourceAssignedPlaylist Source = "assigned_playlist"
)

// ErrNoContent is the terminal "show nothing" result: every priority step
// fell through. It is a valid outcome, not a failure.
var ErrNoContent = errors.New("no content resolved for device")

// Resolved is the winning content reference for a device at an instant.
// Scene is set when the winner was reached through a scene (override or
// scene schedule), after language resolution.
type Resolved struct {
	Source Source
	Ref    model.ContentRef
	Scene  *model.Scene
}

// Store is the read surface the resolver needs. db.Store satisfies it; tests
// supply fakes.
type Store interface {
	GetDeviceByID(id int) (model.Device, error)
	GetActiveEmergency(tenantID int) (model.EmergencyState, error)
	ClearExpiredEmergency(tenantID int, now time.Time) (bool, error)
	GetScreenGroupByID(id int) (model.ScreenGroup, error)
	GetSceneByID(id int) (model.Scene, error)
	GetSceneVariantByLanguage(languageGroupID int, language string) (model.Scene, error)
	GetDefaultSceneVariant(languageGroupID int) (model.Scene, error)
	ListScheduleEntries(scheduleID int) ([]model.ScheduleEntry, error)
}

type Resolver struct {
	store Store
}

func New(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks the fixed priority chain for one device and returns the
// single winning content reference. Each step short-circuits the rest:
// emergency, device override, group override, scene schedule, legacy
// schedule, assigned layout, assigned playlist. ErrNoContent when everything
// falls through.
func (r *Resolver) Resolve(deviceID int, now time.Time) (Resolved, error) {
	device, err := r.store.GetDeviceByID(deviceID)
	if err != nil {
		return Resolved{}, err
	}
	return r.ResolveDevice(device, now)
}

// ResolveDevice is Resolve for an already-loaded device row.
func (r *Resolver) ResolveDevice(device model.Device, now time.Time) (Resolved, error) {
	if res, ok, err := r.resolveEmergency(device.TenantID, now); err != nil {
		return Resolved{}, err
	} else if ok {
		return res, nil
	}

	if device.OverrideSceneID != nil {
		res, ok, err := r.resolveScene(*device.OverrideSceneID, device.Language, SourceDeviceOverride)
		if err != nil || ok {
			return res, err
		}
	}

	if device.GroupID != nil {
		group, err := r.store.GetScreenGroupByID(*device.GroupID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// stale membership, fall through
		case err != nil:
			return Resolved{}, err
		case group.OverrideSceneID != nil:
			res, ok, err := r.resolveScene(*group.OverrideSceneID, device.Language, SourceGroupOverride)
			if err != nil || ok {
				return res, err
			}
		}
	}

	if device.SceneScheduleID != nil {
		entry, ok, err := r.matchSchedule(*device.SceneScheduleID, now, device.Timezone)
		if err != nil {
			return Resolved{}, err
		}
		if ok && model.ContentType(entry.ContentType) == model.ContentTypeScene {
			res, ok, err := r.resolveScene(entry.ContentID, device.Language, SourceScheduledScene)
			if err != nil || ok {
				return res, err
			}
		}
	}

	if device.ScheduleID != nil {
		entry, ok, err := r.matchSchedule(*device.ScheduleID, now, device.Timezone)
		if err != nil {
			return Resolved{}, err
		}
		if ok {
			// Legacy entries reference concrete content, never
			// language-grouped scenes; no variant resolution.
			ref, err := entry.Ref()
			if err != nil {
				log.Error().Err(err).Int("entry_id", entry.ID).Msg("legacy schedule entry has invalid target")
			} else {
				return Resolved{Source: SourceLegacySchedule, Ref: ref}, nil
			}
		}
	}

	if device.LayoutID != nil {
		return Resolved{
			Source: SourceAssignedLayout,
			Ref:    model.ContentRef{Type: model.ContentTypeLayout, ID: *device.LayoutID},
		}, nil
	}
	if device.PlaylistID != nil {
		return Resolved{
			Source: SourceAssignedPlaylist,
			Ref:    model.ContentRef{Type: model.ContentTypePlaylist, ID: *device.PlaylistID},
		}, nil
	}

	return Resolved{}, ErrNoContent
}

// resolveEmergency returns the tenant's emergency override when one is
// active and unexpired. An expired row is cleared in place with a single
// conditional update; clearing failures are logged and retried on the next
// resolution, never surfaced to the device.
func (r *Resolver) resolveEmergency(tenantID int, now time.Time) (Resolved, bool, error) {
	em, err := r.store.GetActiveEmergency(tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return Resolved{}, false, nil
	}
	if err != nil {
		return Resolved{}, false, err
	}

	if em.Expired(now) {
		if _, err := r.store.ClearExpiredEmergency(tenantID, now); err != nil {
			log.Error().Err(err).Int("tenant_id", tenantID).Msg("failed to clear expired emergency")
		}
		return Resolved{}, false, nil
	}

	ref, err := em.Ref()
	if err != nil {
		log.Error().Err(err).Int("tenant_id", tenantID).Msg("emergency state has invalid target")
		return Resolved{}, false, nil
	}
	// Emergency content is tenant-wide and language-agnostic: no variant
	// resolution on this path.
	return Resolved{Source: SourceEmergency, Ref: ref}, true, nil
}

// resolveScene loads a scene, applies language variant resolution and
// returns its renderable reference. ok=false when the scene row is missing
// or points at nothing, so the caller can fall through to the next step.
func (r *Resolver) resolveScene(sceneID int, language string, source Source) (Resolved, bool, error) {
	scene, err := r.store.GetSceneByID(sceneID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn().Int("scene_id", sceneID).Str("source", string(source)).Msg("referenced scene does not exist")
		return Resolved{}, false, nil
	}
	if err != nil {
		return Resolved{}, false, err
	}

	variant, err := r.ResolveVariant(scene, language)
	if err != nil {
		return Resolved{}, false, err
	}

	ref, ok := variant.Ref()
	if !ok {
		log.Warn().Int("scene_id", variant.ID).Msg("scene has neither layout nor playlist")
		return Resolved{}, false, nil
	}
	return Resolved{Source: source, Ref: ref, Scene: &variant}, true, nil
}

// matchSchedule evaluates every entry of a schedule against the current
// instant and returns the winner: highest priority first, ties broken by
// earliest start time, then by id for determinism.
func (r *Resolver) matchSchedule(scheduleID int, now time.Time, timezone string) (model.ScheduleEntry, bool, error) {
	entries, err := r.store.ListScheduleEntries(scheduleID)
	if err != nil {
		return model.ScheduleEntry{}, false, err
	}

	matched := entries[:0:0]
	for _, e := range entries {
		if IsEntryActive(e, now, timezone) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return model.ScheduleEntry{}, false, nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		si, sj := entryStartMinute(matched[i]), entryStartMinute(matched[j])
		if si != sj {
			return si < sj
		}
		return matched[i].ID < matched[j].ID
	})
	return matched[0], true, nil
}

// entryStartMinute orders entries for tie-breaking; an unset start time
// counts as the start of the day.
func entryStartMinute(e model.ScheduleEntry) int {
	if e.StartTime == nil {
		return 0
	}
	if m, ok := parseClock(*e.StartTime); ok {
		return m
	}
	return 0
}
