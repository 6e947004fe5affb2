package transport

import (
	"context"

	"github.com/pkg/errors"
	proto "github.com/ystepanoff/blecte/protocol"
)

// retryUntil calls attempt until it reports done, returns an error or limit
// attempts have been made. limit <= 0 means no limit.
func retryUntil(ctx context.Context, limit int, attempt func(context.Context) (bool, error)) error {
	for n := 1; limit <= 0 || n <= limit; n++ {
		done, err := attempt(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := expired(ctx); err != nil {
			return err
		}
	}
	return errors.Wrapf(proto.ErrAttemptsExhausted, "%d attempts", limit)
}
