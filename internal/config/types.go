package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	Intra         IntraConfig
	Elo           EloConfig
	ProjectID     string
	AllowedOrigin string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// IntraConfig configures the 42 intra identity boundary.
type IntraConfig struct {
	BaseURL        string
	RequiredCampus string
}

// EloConfig holds the tunables of the rating engine.
type EloConfig struct {
	KFactor    int
	Floor      int
	BaseRating int
}
