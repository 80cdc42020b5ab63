package constants

// StagehandHome is the name of the stagehand home directory,
// relative to the user home directory (~/.stagehand).
const StagehandHome = ".stagehand"

// Configuration and data file names.
const (
	// GlobalConfigName is the name of the global stagehand configuration file.
	// This file is located in the stagehand home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file.
	// This file is located in the project root directory.
	ProjectConfigName = ".stagehand.yaml"

	// StoreFileName is the name of the SQLite database holding
	// projects, versions, and executions.
	StoreFileName = "stagehand.db"

	// MachinesDirName is the directory (inside the stagehand home) that
	// holds the state-machine configuration files.
	MachinesDirName = "statemachines"

	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.stagehand/logs/stagehand.log
	CLILogFileName = "stagehand.log"

	// LogsDirName is the logs directory inside the stagehand home.
	LogsDirName = "logs"
)

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated log files.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)
