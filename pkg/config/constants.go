package config

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "PARTSPOINT"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
