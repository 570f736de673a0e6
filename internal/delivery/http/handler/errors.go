package handler

import (
	"net/http"

	"staff-service/internal/delivery/http/middleware"
	"staff-service/pkg/response"

	"github.com/sirupsen/logrus"
)

// writeError logs the failure with the request's method, url and ip, then writes {"message": ...}.
func writeError(log *logrus.Logger, w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	entry := log.WithFields(middleware.RequestFields(r)).WithField("status", status)
	if err != nil {
		entry = entry.WithError(err)
	}
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}
	response.Error(w, status, message)
}
