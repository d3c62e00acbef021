// Package audit runs security heuristics over server-configuration
// documents: literal secrets in args or env, high-risk alwaysAllow grants,
// unpinned package versions. It also rewrites literal secrets into
// ${env:NAME} placeholders, verifies that every placeholder resolves in the
// process environment, and computes tamper-detection hashes.
//
// Finding messages mask secret values using the helpers in
// internal/redact, which the logging handler also uses so secrets never
// appear in log output either.
package audit
