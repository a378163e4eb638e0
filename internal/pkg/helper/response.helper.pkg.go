package helper

import (
	"net/http"

	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/logger"
)

// ParseResponse normalizes a service response before it is sent: default
// code and message are filled in, server-side failures are logged.
func ParseResponse(r *types.Response) *types.Response {
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}
	if r.Error != nil && r.Code >= http.StatusInternalServerError {
		logger.Error.Printf("%d %s: %v", r.Code, r.Message, r.Error)
	}
	return r
}
