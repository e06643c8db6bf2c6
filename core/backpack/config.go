package backpack

// Config holds configuration for the backpack.tf API client.
type Config struct {
	// Token is the backpack.tf user access token.
	Token string `mapstructure:"token" default:""`
	// SteamID is the SteamID64 of the account the token belongs to.
	SteamID string `mapstructure:"steamid" default:""`
	// APIURL is the base URL of the classifieds API.
	APIURL string `mapstructure:"api_url" default:"https://backpack.tf/api"`
	// InventoryURL is the base URL of the inventory refresh endpoint.
	InventoryURL string `mapstructure:"inventory_url" default:"https://backpack.tf"`
	// TimeoutSeconds bounds every remote call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
	// RetryCount is the number of transport-level retries on 5xx responses.
	RetryCount int `mapstructure:"retry_count" default:"2"`
}
