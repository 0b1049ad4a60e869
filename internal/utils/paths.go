package utils

const (
	// ConfigFilePath is resolved relative to the binary's working
	// directory, matching the layout the deployment scripts set up.
	ConfigFilePath = "../../config/parameter.conf"
)
