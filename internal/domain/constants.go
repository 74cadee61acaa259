package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
	PurchaseRefunded  = "refunded"
)

const (
	ProviderDiscord = "discord"
	ProviderEmail   = "email"
	ProviderSteam   = "steam"
)

// Artifact naming convention: every mod ships a single current build at
// {modID}/{modID}-latest.zip inside the storage folder.
const ArtifactSuffix = "-latest.zip"
