package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"staff-service/internal/domain/entity"
	domainRepo "staff-service/internal/domain/repository"
)

type AuditLogRepository struct {
	mu     sync.RWMutex
	nextID int64
	logs   map[int64]entity.AuditLog
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{logs: make(map[int64]entity.AuditLog)}
}

var _ domainRepo.AuditLogRepository = (*AuditLogRepository)(nil)

func (r *AuditLogRepository) Create(_ context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	log.CreatedAt = time.Now().UTC()
	r.logs[log.ID] = *log
	return nil
}

func (r *AuditLogRepository) Find(_ context.Context, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]entity.AuditLog, 0, len(r.logs))
	for _, l := range r.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.DoctorID != nil && l.Metadata[entity.AuditMetadataEntityID] != filter.DoctorID.String() {
			continue
		}
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })
	return logs, nil
}

func (r *AuditLogRepository) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.logs[id]; ok {
		return &l, nil
	}
	return nil, nil
}
