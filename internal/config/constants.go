package config

const (
	// DefaultDatabasePath is the default path for the lexicon database
	DefaultDatabasePath = "./lexicon.db"

	// DefaultPrincipal is the user every request runs as when AUTH_MODE=none
	DefaultPrincipal = "default@localhost.localdomain"
)
