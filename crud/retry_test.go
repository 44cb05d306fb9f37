package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/errs"
)

func TestWithRetryRecovers(t *testing.T) {
	calls := 0
	v, err := withRetry(context.Background(), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errs.Errorf(errs.EUNAVAILABLE, "down")
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, errs.Errorf(errs.EUNAVAILABLE, "down")
	})
	requireCode(t, err, errs.EUNAVAILABLE)
	assert.Equal(t, readAttempts, calls)
}

func TestWithRetrySkipsOtherErrors(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, errs.Errorf(errs.ENOTFOUND, "gone")
	})
	requireCode(t, err, errs.ENOTFOUND)
	assert.Equal(t, 1, calls)
}

func TestWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := withRetry(ctx, func() (int, error) {
		calls++
		return 0, errs.Errorf(errs.EUNAVAILABLE, "down")
	})
	requireCode(t, err, errs.EUNAVAILABLE)
	assert.LessOrEqual(t, calls, 1)
}

func TestWithRetryWrapsPlainErrors(t *testing.T) {
	_, err := withRetry(context.Background(), func() (int, error) {
		return 0, errors.New("boom")
	})
	requireCode(t, err, errs.EUNAVAILABLE)
}
