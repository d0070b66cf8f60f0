package version

// Version is the engine version written into every result summary.
// Set at build time with:
// -ldflags "-X github.com/rxtech-lab/argo-crossover/internal/version.Version=1.2.3"
// "main" marks a development build.
var Version = "v0.4.0"

// GetVersion returns the current engine version.
func GetVersion() string {
	return Version
}
