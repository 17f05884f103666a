package constants

// CLIName is the binary name used in user-facing output.
const CLIName = "conflint"
