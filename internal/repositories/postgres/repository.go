package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/cache"
	"github.com/SAP-F-2025/exam-grading-service/internal/models"
	"github.com/SAP-F-2025/exam-grading-service/internal/repositories"
	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type repository struct {
	db            *gorm.DB
	logger        utils.Logger
	submissions   repositories.SubmissionRepository
	sectionGrades repositories.SectionGradeRepository
	users         repositories.UserRepository
}

// NewRepository wires the postgres repositories. redisClient may be nil,
// which disables read-through caching.
func NewRepository(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration, logger utils.Logger) repositories.Repository {
	return &repository{
		db:            db,
		logger:        logger,
		submissions:   NewSubmissionPostgreSQL(db, cache.NewRedisCache(redisClient, cache.SubmissionPrefix, logger), cacheTTL),
		sectionGrades: NewSectionGradePostgreSQL(db, cache.NewRedisCache(redisClient, cache.SectionGradePrefix, logger), cacheTTL),
		users:         NewUserPostgreSQL(db),
	}
}

func (r *repository) Submissions() repositories.SubmissionRepository {
	return r.submissions
}

func (r *repository) SectionGrades() repositories.SectionGradeRepository {
	return r.sectionGrades
}

func (r *repository) Users() repositories.UserRepository {
	return r.users
}

// WithTransaction runs fn in a transaction. Cache entries invalidated by
// writes inside fn are dropped only after the commit, so a concurrent read
// cannot put the old row back into the cache.
func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	pending := &pendingInvalidations{}
	if err := r.db.WithContext(withPendingInvalidations(ctx, pending)).Transaction(fn); err != nil {
		return err
	}
	pending.flush(ctx, r.logger)
	return nil
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates the tables owned by this service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.SectionGrade{},
	)
}

func pickDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

type pendingInvalidationsKey struct{}

type invalidation struct {
	cache cache.CacheService
	keys  []string
}

// pendingInvalidations collects the cache deletes of one transaction.
type pendingInvalidations struct {
	mu    sync.Mutex
	items []invalidation
}

func withPendingInvalidations(ctx context.Context, p *pendingInvalidations) context.Context {
	return context.WithValue(ctx, pendingInvalidationsKey{}, p)
}

func (p *pendingInvalidations) add(c cache.CacheService, keys ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, invalidation{cache: c, keys: keys})
}

func (p *pendingInvalidations) flush(ctx context.Context, logger utils.Logger) {
	p.mu.Lock()
	items := p.items
	p.items = nil
	p.mu.Unlock()

	for _, item := range items {
		if err := item.cache.Delete(ctx, item.keys...); err != nil && logger != nil {
			logger.WarnContext(ctx, "cache invalidation failed", "keys", item.keys, "error", err)
		}
	}
}

// invalidate drops keys from c. Inside a transaction opened by
// WithTransaction the delete is deferred until that transaction commits and
// skipped when it rolls back.
func invalidate(ctx context.Context, tx *gorm.DB, c cache.CacheService, keys ...string) error {
	if tx != nil && tx.Statement != nil && tx.Statement.Context != nil {
		if p, ok := tx.Statement.Context.Value(pendingInvalidationsKey{}).(*pendingInvalidations); ok {
			p.add(c, keys...)
			return nil
		}
	}
	return c.Delete(ctx, keys...)
}
