package firestore

// Config holds connection settings for one Firestore project side.
type Config struct {
	// Project is the Firebase/GCP project ID.
	Project string `mapstructure:"project" default:""`
	// Database is the Firestore database ID.
	Database string `mapstructure:"database" default:"(default)"`
	// Token is the OAuth2 bearer token used for authentication.
	Token string `mapstructure:"token" default:""`
	// Endpoint is the API base URL. Overridable for emulators and tests.
	Endpoint string `mapstructure:"endpoint" default:"https://firestore.googleapis.com"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the page size for collection listing.
	PageSize int `mapstructure:"page_size" default:"300"`
}
