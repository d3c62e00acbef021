package errors

import (
	crdberrors "github.com/cockroachdb/errors"
)

// Re-exported helpers from cockroachdb/errors so callers need a single
// errors import for both sentinels and wrapping.
var (
	New    = crdberrors.New
	Newf   = crdberrors.Newf
	Wrap   = crdberrors.Wrap
	Wrapf  = crdberrors.Wrapf
	Is     = crdberrors.Is
	As     = crdberrors.As
	Unwrap = crdberrors.Unwrap
)
