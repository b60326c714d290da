package grpc

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

func TestErrorCodesRoundTrip(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range errorCodes {
		t.Run(e.reason, func(t *testing.T) {
			require.False(t, seen[e.reason], "duplicate reason")
			seen[e.reason] = true

			err := fromStatus(toStatus(fmt.Errorf("op failed: %w", e.err)))
			assert.ErrorIs(t, err, e.err)
			assert.Equal(t, e.code, status.Code(err))
			assert.Equal(t, "op failed: "+e.err.Error(), err.Error())
		})
	}
}

func TestFromStatusUsesReasonNotMessage(t *testing.T) {
	// 訊息同時提到兩個領域錯誤，只有被包裝的那個才算數
	err := fmt.Errorf("%w (after %v)", domain.ErrInsufficientBalance, domain.ErrAccountNotFound)
	got := fromStatus(toStatus(err))
	assert.ErrorIs(t, got, domain.ErrInsufficientBalance)
	assert.NotErrorIs(t, got, domain.ErrAccountNotFound)

	// 沒有 ErrorInfo 的 status 不還原，即使訊息與領域錯誤相同
	plain := status.Error(codes.NotFound, domain.ErrAccountNotFound.Error())
	got = fromStatus(plain)
	assert.NotErrorIs(t, got, domain.ErrAccountNotFound)
	assert.Equal(t, codes.NotFound, status.Code(got))

	// 其他服務的 ErrorInfo 不採用
	foreign, derr := status.New(codes.NotFound, "nope").
		WithDetails(&errdetails.ErrorInfo{Reason: "ACCOUNT_NOT_FOUND", Domain: "other.v1"})
	require.NoError(t, derr)
	assert.NotErrorIs(t, fromStatus(foreign.Err()), domain.ErrAccountNotFound)
}

func TestToStatusContextErrors(t *testing.T) {
	assert.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(fmt.Errorf("call: %w", context.DeadlineExceeded))))
	assert.Equal(t, codes.Internal, status.Code(toStatus(fmt.Errorf("boom"))))
	assert.NoError(t, toStatus(nil))
}
