package ir

// Version constants for the IR schema and the generator.
const (
	// IRVersion is the IR schema version. Bumping it invalidates cached output.
	IRVersion = "1"

	// GeneratorVersion is the valobs generator version.
	GeneratorVersion = "0.1.0"
)
