package config

// Archive points at the S3-compatible bucket (Cloudflare R2 in production)
// that keeps a copy of every uploaded certificate. Credentials come from
// ARCHIVE_ACCESS_KEY and ARCHIVE_SECRET_KEY, never from the config file.
type Archive struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// StaticCredentials reports whether explicit keys were supplied. Without them
// the AWS default credential chain is used.
func (a Archive) StaticCredentials() bool {
	return a.AccessKey != "" && a.SecretKey != ""
}
