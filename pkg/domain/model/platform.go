package model

// OS is the target operating system of one build matrix entry.
type OS string

const (
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
	OSMacOS   OS = "macos"
)

// Target is one platform entry of the build matrix.
type Target struct {
	OS   OS
	Arch string
}

// DefaultMatrix is the fixed platform table. It is static configuration:
// extending to a new platform means adding a row, and no row depends on
// another.
var DefaultMatrix = []Target{
	{OS: OSLinux, Arch: "amd64"},
	{OS: OSWindows, Arch: "amd64"},
	{OS: OSMacOS, Arch: "amd64"},
}

// Label returns the human-readable platform label, e.g. "linux/amd64".
func (t Target) Label() string {
	return string(t.OS) + "/" + t.Arch
}

// Slug returns the file-system-safe platform name, e.g. "linux-amd64".
func (t Target) Slug() string {
	return string(t.OS) + "-" + t.Arch
}

// BinaryName returns the platform-native file name of the built binary:
// the repository name, with an ".exe" suffix on windows.
func (t Target) BinaryName(repo string) string {
	if t.OS == OSWindows {
		return repo + ".exe"
	}
	return repo
}

// AssetName returns the published asset name, <repo>-<os>-<arch>, keeping
// the windows executable suffix. This is the single place the naming
// convention lives.
func (t Target) AssetName(repo string) string {
	name := repo + "-" + t.Slug()
	if t.OS == OSWindows {
		name += ".exe"
	}
	return name
}

// BuildOS returns the toolchain spelling of the OS for GOOS-style target
// parameters; "macos" is spelled "darwin" there.
func (t Target) BuildOS() string {
	if t.OS == OSMacOS {
		return "darwin"
	}
	return string(t.OS)
}
