package handler

import (
	"errors"
	"io"
	"net/http"

	backupdomain "asociacion-app-go/internal/domain/backup"
)

const maxImportSize = 32 << 20

func (h *Handlers) ExportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := h.Backups.ExportJSON(r.Context())
	if err != nil {
		h.log.InternalError("backup.export: export failed", err)
		writeInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) ImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read request body")
		return
	}

	snapshot, err := h.Backups.Import(r.Context(), data)
	if err != nil {
		switch {
		case errors.Is(err, backupdomain.ErrStoreNotEmpty):
			h.log.BusinessError("backup.import: store not empty", err)
			writeError(w, http.StatusConflict, "store_not_empty", "la base de datos no está vacía")
		case errors.Is(err, backupdomain.ErrUnsupportedVersion):
			h.log.BusinessError("backup.import: unsupported version", err)
			writeError(w, http.StatusBadRequest, "unsupported_version", "versión de copia no soportada")
		default:
			h.log.InternalError("backup.import: import failed", err)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":  snapshot.Version,
		"imported": true,
	})
}
