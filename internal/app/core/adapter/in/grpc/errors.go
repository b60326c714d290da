package grpc

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// errorDomain ErrorInfo 的 domain，用來辨識由本服務產生的錯誤
const errorDomain = "bank.v1"

// errorCodes 領域錯誤與 gRPC 狀態碼的對應
//
// reason 放在 status details 的 ErrorInfo 中，client 端依 reason 還原錯誤。
// reason 一旦發佈就不可更改。
var errorCodes = []struct {
	err    error
	code   codes.Code
	reason string
}{
	{domain.ErrCustomerNotFound, codes.NotFound, "CUSTOMER_NOT_FOUND"},
	{domain.ErrAccountNotFound, codes.NotFound, "ACCOUNT_NOT_FOUND"},
	{domain.ErrCustomerAlreadyExists, codes.AlreadyExists, "CUSTOMER_ALREADY_EXISTS"},
	{domain.ErrCustomerHasAccounts, codes.FailedPrecondition, "CUSTOMER_HAS_ACCOUNTS"},
	{domain.ErrInsufficientBalance, codes.FailedPrecondition, "INSUFFICIENT_BALANCE"},
	{domain.ErrOverdraftLimitExceeded, codes.FailedPrecondition, "OVERDRAFT_LIMIT_EXCEEDED"},
	{domain.ErrAmountMustBePositive, codes.InvalidArgument, "AMOUNT_MUST_BE_POSITIVE"},
	{domain.ErrNegativeInterestRate, codes.InvalidArgument, "NEGATIVE_INTEREST_RATE"},
	{domain.ErrNegativeOverdraftLimit, codes.InvalidArgument, "NEGATIVE_OVERDRAFT_LIMIT"},
	{domain.ErrUnknownAccountKind, codes.InvalidArgument, "UNKNOWN_ACCOUNT_KIND"},
	{domain.ErrVariantMismatch, codes.InvalidArgument, "VARIANT_MISMATCH"},
	{usecase.ErrPersistFailed, codes.Internal, "PERSIST_FAILED"},
}

// toStatus 將錯誤轉成 gRPC status，訊息保留原始錯誤字串
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			st := status.New(e.code, err.Error())
			detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: e.reason, Domain: errorDomain})
			if derr != nil {
				return st.Err()
			}
			return detailed.Err()
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// remoteError 保留伺服端的錯誤訊息，並可用 errors.Is 比對領域錯誤
type remoteError struct {
	st     *status.Status
	target error
}

func (e *remoteError) Error() string              { return e.st.Message() }
func (e *remoteError) Unwrap() error              { return e.target }
func (e *remoteError) GRPCStatus() *status.Status { return e.st }

// fromStatus 依 ErrorInfo 的 reason 還原領域錯誤；沒有可辨識的 reason 時原樣回傳
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != errorDomain {
			continue
		}
		for _, e := range errorCodes {
			if e.reason == info.GetReason() {
				return &remoteError{st: st, target: e.err}
			}
		}
	}
	return err
}
