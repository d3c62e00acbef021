// Package mcpconfig generates, merges, validates, and persists the two
// coupled configuration documents roowiz manages: the server-configuration
// document (.roo/mcp.json) and the assistant-mode registry (.roomodes).
//
// # Documents
//
// The server-configuration document keys connector records by id:
//
//	{
//	  "mcpServers": {
//	    "test-server": {
//	      "command": "npx",
//	      "args": ["-y", "@test-server/mcp-server@latest", "--apiKey", "${env:TEST_SERVER_API_KEY}"],
//	      "alwaysAllow": ["read", "write"]
//	    }
//	  }
//	}
//
// The mode registry pairs each connector with a capability profile:
//
//	{
//	  "customModes": [
//	    {
//	      "slug": "mcp-test-server",
//	      "name": "Test Server Integration",
//	      "groups": ["read", "edit", "mcp"],
//	      "source": "project"
//	    }
//	  ]
//	}
//
// # Secret Handling
//
// Parameters flagged secret by the catalog, or whose names look secret
// (token, key, secret, password, credential, auth, case-insensitive), are
// persisted only as ${env:VAR} placeholders. The literal value never reaches
// disk; it is resolved from the process environment at invocation time.
//
// # Merge Semantics
//
// Server records merge by shallow per-id replacement. Mode records merge by
// slug: project-sourced records keep the user's Name and CustomInstructions
// while taking the new RoleDefinition and Model; records from any other
// source are never modified.
//
// All generation and merge functions are pure: they never touch the
// filesystem and never mutate their inputs. Reading and writing live in
// io.go; transactional writes with backup and rollback belong to the
// filemanager and wizard packages.
package mcpconfig
