// Package config provides configuration management for the roowiz CLI.
//
// This package handles the tool's own options file. It is distinct from the
// two project documents (.roo/mcp.json and .roomodes) which are managed by
// the wizard workflows.
//
// # Configuration File
//
// The default configuration file location is ~/.config/roowiz/config.yaml:
//
//	project_path: .
//	registry_url: https://registry.example.com/api/mcp
//	cache_enabled: true
//	retry_attempts: 2
//	retry_delay: 1s
//	request_timeout: 10s
//	auto_fix: false
//
// Environment variables with the ROOWIZ_ prefix override file values
// (e.g. ROOWIZ_REGISTRY_URL, ROOWIZ_REGISTRY_TOKEN).
//
// # Validation
//
// All loaded configurations can be validated:
//
//	errs := config.Validate(opts)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config
