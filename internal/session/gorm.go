package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/prompt2model/types"
)

// GormRepository persists sessions in a relational database so they survive
// process restarts. Supported drivers: sqlite (glebarez, cgo-free) and
// postgres.
type GormRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Config 数据库后端配置
type Config struct {
	// Driver is sqlite or postgres.
	Driver string
	// DSN is the postgres connection string or the sqlite file path.
	DSN string
}

// NewGormRepository opens the database and migrates the sessions table.
func NewGormRepository(cfg Config, logger *zap.Logger) (*GormRepository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&types.GenerationSession{}); err != nil {
		return nil, fmt.Errorf("migrate sessions table: %w", err)
	}

	logger.Info("session repository initialized", zap.String("driver", cfg.Driver))
	return &GormRepository{
		db:     db,
		logger: logger.With(zap.String("component", "session_repository")),
	}, nil
}

// Create stores a new session record.
func (r *GormRepository) Create(ctx context.Context, s *types.GenerationSession) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get returns the session or SESSION_EXPIRED.
func (r *GormRepository) Get(ctx context.Context, id string) (*types.GenerationSession, error) {
	var s types.GenerationSession
	err := r.db.WithContext(ctx).First(&s, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// Update saves the full record; SESSION_EXPIRED when absent.
func (r *GormRepository) Update(ctx context.Context, s *types.GenerationSession) error {
	res := r.db.WithContext(ctx).Model(&types.GenerationSession{}).
		Where("session_id = ?", s.ID).
		Updates(map[string]any{
			"prompt":                 s.Prompt,
			"reconstruction_task_id": s.ReconstructionTaskID,
			"remesh_task_id":         s.RemeshTaskID,
		})
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound(s.ID)
	}
	return nil
}
