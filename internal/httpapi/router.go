package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", api.HandleCategories)
	mux.HandleFunc("/preferences", api.HandlePreferences)
	mux.HandleFunc("/quiz", api.HandleStartQuiz)
	mux.HandleFunc("/quiz/{session_id}", api.HandleSession)
	mux.HandleFunc("/quiz/{session_id}/restart", api.HandleRestart)
	mux.HandleFunc("/quiz/{session_id}/select", api.HandleSelect)
	mux.HandleFunc("/quiz/{session_id}/skip", api.HandleSkip)
	mux.HandleFunc("/quiz/{session_id}/next", api.HandleNext)
	mux.HandleFunc("/quiz/{session_id}/prev", api.HandlePrev)
	mux.HandleFunc("/quiz/{session_id}/result", api.HandleResult)

	return withRequestLogging(api.log, mux)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	written, err := r.ResponseWriter.Write(payload)
	r.bytesWritten += written
	return written, err
}

func withRequestLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)
		log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.statusCode),
			zap.Int("bytes", recorder.bytesWritten),
		)
	})
}
