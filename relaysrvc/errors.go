package relaysrvc

import (
	"net/http"

	"github.com/submit-bridge/backend/srvcerror"
)

const ErrCodeEmptyProblemCode = "empty_problem_code"

func ErrEmptyProblemCode() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptyProblemCode,
		"problem code must not be empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeDuplicateRequestID = "duplicate_request_id"

func ErrDuplicateRequestID() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeDuplicateRequestID,
		"request id is already registered",
	).SetHttpStatusCode(http.StatusConflict)
}

func ErrInternal() *srvcerror.Error {
	return srvcerror.ErrInternalSE()
}
