// Package paths provides path resolution for the two coupled configuration
// documents roowiz manages and for roowiz's own XDG directories.
//
// # Project Documents
//
// Each project carries a server-configuration document and a mode-registry
// document:
//
//	paths.MCPConfigPath(root)  // <root>/.roo/mcp.json
//	paths.RoomodesPath(root)   // <root>/.roomodes
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions.
//
//	paths.AppConfigDir()  // ~/.config/roowiz/
package paths
