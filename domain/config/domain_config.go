package config

// DomainConfig holds the business rules applied to posts
type DomainConfig struct {
	MaxIDLength      int
	MaxTitleLength   int
	MaxContentLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxIDLength:      128,
		MaxTitleLength:   300,
		MaxContentLength: 100000, // well below the 400KB DynamoDB item limit
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxContentLength = 60000
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	if environment == "production" {
		return ProductionDomainConfig()
	}
	return DefaultDomainConfig()
}
