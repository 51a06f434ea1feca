package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

// wrapStorage classifies repository failures: an unreachable store surfaces
// as STORAGE_UNAVAILABLE so callers can retry externally, anything else as a
// generic internal error.
func wrapStorage(err error, message string) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, appErrors.ErrStorageUnavailable.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
