package config

import "time"

// Config represents the complete configuration structure for campctl
type Config struct {
	Platform  Platform  `mapstructure:"platform"`
	Snapshots Snapshots `mapstructure:"snapshots"`
	Template  Template  `mapstructure:"template"`
	Output    Output    `mapstructure:"output"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
}

// Platform holds the campaign platform connection settings
type Platform struct {
	BaseURL    string `mapstructure:"base_url"`
	GraphQLURL string `mapstructure:"graphql_url"`
	APIToken   string `mapstructure:"api_token"`
	Timeout    int    `mapstructure:"timeout"` // seconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// TimeoutDuration returns the request timeout as a duration
func (p Platform) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// Snapshots configures the local version history
type Snapshots struct {
	Dir string `mapstructure:"dir"`
}

// Template holds defaults for template application
type Template struct {
	CampaignID      int64 `mapstructure:"campaign_id"`
	IncludeSubjects bool  `mapstructure:"include_subjects"`
}

// Output controls diagnostic rendering
type Output struct {
	Color         bool `mapstructure:"color"`
	ContextWindow int  `mapstructure:"context_window"`
}
