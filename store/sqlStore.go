package store

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mmdatafocus/devitrack/models"
	"gorm.io/gorm"
)

// SQLStore keeps deviations in the MySQL table "deviations".
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Backend() string { return BackendMySQL }

// Migrate creates the deviations table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.Deviation{})
}

func (s *SQLStore) Save(ctx context.Context, d *models.Deviation) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return sqlError("save", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]*models.Deviation, error) {
	var results []*models.Deviation
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&results).Error; err != nil {
		return nil, sqlError("list", err)
	}
	if results == nil {
		results = []*models.Deviation{}
	}
	return results, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Deviation{}).Error; err != nil {
		return sqlError("delete", err)
	}
	return nil
}

// sqlError carries the server error number when MySQL rejected the statement.
func sqlError(op string, err error) *StoreError {
	storeErr := &StoreError{Op: op, Backend: BackendMySQL, Err: err}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		storeErr.Status = int(myErr.Number)
		storeErr.Message = myErr.Message
	}
	return storeErr
}
