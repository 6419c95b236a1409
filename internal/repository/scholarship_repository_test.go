package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edugrant/internal/model"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock, func() { sqlDB.Close() }
}

func scholarshipRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "amount", "currency", "application_deadline", "status", "created_by_id", "created_at"})
	for _, id := range ids {
		rows.AddRow(id.String(), "Merit Award", "5000.00", "USD", time.Now().Add(24*time.Hour), "active", uuid.New().String(), time.Now())
	}
	return rows
}

func TestScholarshipRepository_List_FilterAndPagination(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewScholarshipRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `scholarships`").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery("SELECT \\* FROM `scholarships` WHERE status = \\?.*ORDER BY created_at DESC LIMIT \\?").
		WillReturnRows(scholarshipRows(uuid.New(), uuid.New()))

	scholarships, total, err := repo.List(context.Background(), ScholarshipFilter{
		Status: model.ScholarshipStatusActive,
		Page:   2,
		Limit:  10,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, scholarships, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipRepository_List_SearchUsesLike(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewScholarshipRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `scholarships`").
		WithArgs("%STEM%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `scholarships` WHERE title LIKE \\?").
		WillReturnRows(scholarshipRows(uuid.New()))

	scholarships, total, err := repo.List(context.Background(), ScholarshipFilter{
		Search: "STEM",
		Page:   1,
		Limit:  20,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, scholarships, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewScholarshipRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT \\* FROM `scholarships` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(scholarshipRows(id))

	scholarship, err := repo.FindByIDForUpdate(context.Background(), id)

	assert.NoError(t, err)
	if assert.NotNil(t, scholarship) {
		assert.Equal(t, id, scholarship.ID)
		assert.True(t, decimal.NewFromInt(5000).Equal(scholarship.Amount))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_ExistsForStudent(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	studentID := uuid.New()
	scholarshipID := uuid.New()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `applications` WHERE student_id = \\? AND scholarship_id = \\?").
		WithArgs(studentID.String(), scholarshipID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForStudent(context.Background(), studentID, scholarshipID)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_CountByStatus(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewApplicationRepository(db)
	scholarshipID := uuid.New()

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) as count FROM `applications` WHERE scholarship_id = \\?").
		WithArgs(scholarshipID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("submitted", 3).
			AddRow("approved", 1))

	counts, err := repo.CountByStatus(context.Background(), &scholarshipID)

	assert.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, model.ApplicationStatusSubmitted, counts[0].Status)
	assert.Equal(t, int64(3), counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
