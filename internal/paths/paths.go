package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Well-known file names for the two coupled configuration documents.
const (
	// RooDirName is the project-local directory holding the server config.
	RooDirName = ".roo"

	// MCPConfigName is the server-configuration document file name.
	MCPConfigName = "mcp.json"

	// RoomodesName is the assistant-mode registry file name, stored at the
	// project root.
	RoomodesName = ".roomodes"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error. Use ResolveHome for proper
// error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns the roowiz configuration directory.
// Returns: <ConfigHome>/roowiz/
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), "roowiz")
}

// MCPConfigPath returns the server-configuration document path for a project.
// Returns: <projectRoot>/.roo/mcp.json
func MCPConfigPath(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	return filepath.Join(projectRoot, RooDirName, MCPConfigName)
}

// RoomodesPath returns the mode-registry document path for a project.
// Returns: <projectRoot>/.roomodes
func RoomodesPath(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	return filepath.Join(projectRoot, RoomodesName)
}
