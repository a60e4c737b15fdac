package vault

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv represents a DotEnv vault (for development).
	TypeDotEnv Type = "dotenv"
)
