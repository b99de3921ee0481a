package config

const (
	// EnvPrefix is empty because every variable carries the HOOPSCOUT_ prefix in
	// its envconfig tag already.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "HOOPSCOUT_DB_DSN"
	EnvDBHost = "HOOPSCOUT_DB_HOST"
	EnvDBUser = "HOOPSCOUT_DB_USER"
	EnvDBName = "HOOPSCOUT_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
