package config

// HasEncryptionKey returns true if an encryption key is configured for the
// secrets store.
func (c *Config) HasEncryptionKey() bool {
	return c.EncryptionKey != ""
}

// GetEncryptionKey returns the encryption key or empty string if not set.
func (c *Config) GetEncryptionKey() string {
	return c.EncryptionKey
}

// HasReleaseGroupFeedURL returns true if a release-group feed source is
// configured.
func (c *Config) HasReleaseGroupFeedURL() bool {
	return c.ReleaseGroupFeedURL != ""
}

// GetReleaseGroupFeedURL returns the configured release-group feed URL or
// empty string if not set.
func (c *Config) GetReleaseGroupFeedURL() string {
	return c.ReleaseGroupFeedURL
}
