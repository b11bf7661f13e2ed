package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-auditor-api/internal/usecases/auditing"
	"github.com/vfg2006/ad-auditor-api/pkg/apiErrors"
)

// GetAudit retorna uma auditoria persistida pelo id
func GetAudit(service auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da auditoria não fornecido", nil)
			return
		}

		entry, err := service.GetAudit(id)
		if err != nil {
			handleAuditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entry)
	}
}
