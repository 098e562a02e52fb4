package types

// AppName is the service name reported in logs and health responses.
const AppName = "tagship"

// Version is overridden at build time via -ldflags.
var Version = "dev"

// EnvPrefix is the prefix of all environment variable sources.
const EnvPrefix = "TAGSHIP_"
