package httpapi

import (
	"net/http"
)

func (s *Server) healthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: StatusOK})
}

// ready pings the database when a readiness check is configured.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.readiness != nil {
		if err := s.readiness.Ping(r.Context()); err != nil {
			s.logWarnOrError(r, http.StatusServiceUnavailable, logMsgRequestFailed,
				logAttrRequestID, RequestIDFrom(r.Context()),
				logAttrPath, r.URL.Path,
				logAttrError, err.Error(),
			)

			writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: StatusUnavailable})
			return
		}
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: StatusOK})
}
