package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	apperrors "github.com/marketgraph/marketgraph-backend/internal/errors"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
)

type SyncController struct {
	syncService service.SyncService
	exportPath  string
}

func NewSyncController(syncService service.SyncService, exportPath string) *SyncController {
	return &SyncController{
		syncService: syncService,
		exportPath:  exportPath,
	}
}

// TriggerReconcile runs a reconciliation pass on demand, outside the
// scheduled window. Failed records are reported in the stats, not as an
// HTTP error.
func (ctrl *SyncController) TriggerReconcile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.syncService.Reconcile()
	if err != nil {
		log.Error("Reconciliation run failed", err, nil)
		apperrors.InternalError(c, "Reconciliation run failed")
		return
	}

	if err := ctrl.syncService.ExportTaxonomy(ctrl.exportPath); err != nil {
		log.Error("Taxonomy export failed after reconciliation", err, map[string]interface{}{
			"path": ctrl.exportPath,
		})
	}

	status := http.StatusOK
	body := gin.H{"stats": stats}
	if stats.Failed > 0 {
		body["warning"] = apperrors.SyncPartialFailure
	}

	c.JSON(status, body)
}
