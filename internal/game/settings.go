package game

import "time"

// Settings holds all host-adjustable game configuration.
type Settings struct {
	DurationSeconds       int     `json:"duration_seconds"`
	MinPlayers            int     `json:"min_players"`
	TagRadiusMeters       float64 `json:"tag_radius_meters"`
	TagCooldownMs         int     `json:"tag_cooldown_ms"`
	ReassignTaggerOnLeave bool    `json:"reassign_tagger_on_leave"`

	ZoneEnabled           bool    `json:"zone_enabled"`
	InitialCircleSize     float64 `json:"initial_circle_size"`
	CircleShrinkPercent   float64 `json:"circle_shrink_percent"`
	ShrinkDurationSeconds int     `json:"shrink_duration_seconds"`
	ShrinkIntervalSeconds int     `json:"shrink_interval_seconds"`
	WarningSeconds        int     `json:"warning_seconds"`
	MinRadiusMeters       float64 `json:"min_radius_meters"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		DurationSeconds:       300,
		MinPlayers:            2,
		TagRadiusMeters:       30,
		TagCooldownMs:         30000,
		ReassignTaggerOnLeave: true,
		ZoneEnabled:           false,
		InitialCircleSize:     500,
		CircleShrinkPercent:   30,
		ShrinkDurationSeconds: 30,
		ShrinkIntervalSeconds: 60,
		WarningSeconds:        10,
		MinRadiusMeters:       25,
	}
}

// TagCooldown returns the tag cooldown as a duration.
func (s Settings) TagCooldown() time.Duration {
	return time.Duration(s.TagCooldownMs) * time.Millisecond
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	DurationSeconds       *int     `json:"duration_seconds,omitempty"`
	MinPlayers            *int     `json:"min_players,omitempty"`
	TagRadiusMeters       *float64 `json:"tag_radius_meters,omitempty"`
	TagCooldownMs         *int     `json:"tag_cooldown_ms,omitempty"`
	ReassignTaggerOnLeave *bool    `json:"reassign_tagger_on_leave,omitempty"`

	ZoneEnabled           *bool    `json:"zone_enabled,omitempty"`
	InitialCircleSize     *float64 `json:"initial_circle_size,omitempty"`
	CircleShrinkPercent   *float64 `json:"circle_shrink_percent,omitempty"`
	ShrinkDurationSeconds *int     `json:"shrink_duration_seconds,omitempty"`
	ShrinkIntervalSeconds *int     `json:"shrink_interval_seconds,omitempty"`
	WarningSeconds        *int     `json:"warning_seconds,omitempty"`
	MinRadiusMeters       *float64 `json:"min_radius_meters,omitempty"`
}

// Apply merges the patch into the settings. Non-positive numeric values are
// ignored rather than rejected, so a sloppy client cannot wedge the session
// into an unplayable configuration.
func (s *Settings) Apply(p SettingsPatch) {
	if p.DurationSeconds != nil && *p.DurationSeconds > 0 {
		s.DurationSeconds = *p.DurationSeconds
	}
	if p.MinPlayers != nil && *p.MinPlayers > 0 {
		s.MinPlayers = *p.MinPlayers
	}
	if p.TagRadiusMeters != nil && *p.TagRadiusMeters > 0 {
		s.TagRadiusMeters = *p.TagRadiusMeters
	}
	if p.TagCooldownMs != nil && *p.TagCooldownMs > 0 {
		s.TagCooldownMs = *p.TagCooldownMs
	}
	if p.ReassignTaggerOnLeave != nil {
		s.ReassignTaggerOnLeave = *p.ReassignTaggerOnLeave
	}
	if p.ZoneEnabled != nil {
		s.ZoneEnabled = *p.ZoneEnabled
	}
	if p.InitialCircleSize != nil && *p.InitialCircleSize > 0 {
		s.InitialCircleSize = *p.InitialCircleSize
	}
	if p.CircleShrinkPercent != nil && *p.CircleShrinkPercent > 0 && *p.CircleShrinkPercent < 100 {
		s.CircleShrinkPercent = *p.CircleShrinkPercent
	}
	if p.ShrinkDurationSeconds != nil && *p.ShrinkDurationSeconds > 0 {
		s.ShrinkDurationSeconds = *p.ShrinkDurationSeconds
	}
	if p.ShrinkIntervalSeconds != nil && *p.ShrinkIntervalSeconds > 0 {
		s.ShrinkIntervalSeconds = *p.ShrinkIntervalSeconds
	}
	if p.WarningSeconds != nil && *p.WarningSeconds > 0 {
		s.WarningSeconds = *p.WarningSeconds
	}
	if p.MinRadiusMeters != nil && *p.MinRadiusMeters > 0 {
		s.MinRadiusMeters = *p.MinRadiusMeters
	}
}
