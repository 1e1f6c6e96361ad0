package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./linkdepot.db"

	// DefaultAppName is the branding shown in page titles
	DefaultAppName = "Link Depot"

	// DefaultFaviconProxyURL resolves a favicon from a host name when the user
	// didn't provide an explicit icon location.
	DefaultFaviconProxyURL = "https://www.google.com/s2/favicons?sz=32&domain=%s"
)
