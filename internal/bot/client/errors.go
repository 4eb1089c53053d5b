package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/rest"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
)

// ErrInvalidCacheSize is returned when a cache is configured with a non-positive size.
var ErrInvalidCacheSize = errors.New("invalid cache size")

// wrapError marks server-side REST failures as transient.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %w", interfaces.ErrTransient, err)
	}

	return err
}
