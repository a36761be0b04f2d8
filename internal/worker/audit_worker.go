package worker

import (
	"github.com/spec-kit/playback-token-service/internal/service"
)

// StartAuditWorker registers playback audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
