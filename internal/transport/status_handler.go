// Package transport exposes the sync status over HTTP.
package transport

import (
	"net/http"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
)

type statusResponse struct {
	Network           string    `json:"network"`
	Alias             string    `json:"alias"`
	State             string    `json:"state"`
	Phase             string    `json:"phase"`
	Progress          float64   `json:"progress"`
	ChainTip          uint32    `json:"chainTip"`
	LastDownloaded    uint32    `json:"lastDownloaded"`
	LastScanned       uint32    `json:"lastScanned"`
	DownloadRange     string    `json:"downloadRange"`
	ScanRange         string    `json:"scanRange"`
	ConsecutiveErrors int       `json:"consecutiveErrors"`
	LastError         string    `json:"lastError,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type healthResponse struct {
	Status string `json:"status"`
	Phase  string `json:"phase"`
}

// StatusHandler serves /v1/status and /v1/health.
type StatusHandler struct {
	source    StatusSource
	network   model.Network
	alias     model.Alias
	marshaler gwruntime.Marshaler
	logger    *zap.Logger
}

// NewStatusHandler returns a StatusHandler instance.
func NewStatusHandler(source StatusSource, network model.Network, alias model.Alias, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		source:  source,
		network: network,
		alias:   alias,
		marshaler: &gwruntime.JSONPb{
			MarshalOptions: protojson.MarshalOptions{EmitUnpopulated: true},
		},
		logger: logger,
	}
}

// Register mounts the handler routes on mux.
func (h *StatusHandler) Register(mux *gwruntime.ServeMux) error {
	if err := mux.HandlePath(http.MethodGet, "/v1/status", h.status); err != nil {
		return err
	}
	return mux.HandlePath(http.MethodGet, "/v1/health", h.health)
}

func (h *StatusHandler) status(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	s := h.source.Status()
	h.write(w, http.StatusOK, statusResponse{
		Network:           string(h.network),
		Alias:             string(h.alias),
		State:             string(s.State),
		Phase:             string(s.State.Phase()),
		Progress:          s.Progress,
		ChainTip:          uint32(s.ChainTip),
		LastDownloaded:    uint32(s.LastDownloaded),
		LastScanned:       uint32(s.LastScanned),
		DownloadRange:     s.DownloadRange.String(),
		ScanRange:         s.ScanRange.String(),
		ConsecutiveErrors: s.ConsecutiveErrors,
		LastError:         s.LastError,
		UpdatedAt:         s.UpdatedAt.UTC(),
	})
}

// health reports 503 once the processor stopped on an unrecoverable error.
func (h *StatusHandler) health(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	phase := h.source.Status().State.Phase()
	if phase == model.PhaseError {
		h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Phase: string(phase)})
		return
	}
	h.write(w, http.StatusOK, healthResponse{Status: "healthy", Phase: string(phase)})
}

func (h *StatusHandler) write(w http.ResponseWriter, code int, v any) {
	body, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
