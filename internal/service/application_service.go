package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"edugrant/internal/errors"
	"edugrant/internal/events"
	"edugrant/internal/model"
	"edugrant/internal/repository"
)

// DocumentInput is metadata for one file attached at submission time.
// The blob itself is already in the external store under StorageKey.
type DocumentInput struct {
	Name        string
	ContentType string
	Size        int64
	StorageKey  string
}

// ApplicationUpdate is a reviewer's partial update of an assigned
// application. Nil fields leave the stored value untouched.
type ApplicationUpdate struct {
	Status      *model.ApplicationStatus
	Score       *float64
	ReviewNotes *string
}

// ReviewInput carries a reviewer's explicit ledger entry.
type ReviewInput struct {
	ApplicationID uuid.UUID
	OverallScore  float64
	Comments      string
	Criteria      datatypes.JSON
	Complete      bool
}

// ApplicationService governs the application workflow: submission,
// reviewer assignment, status transitions and the review ledger.
type ApplicationService interface {
	Submit(ctx context.Context, studentID, scholarshipID uuid.UUID, formData datatypes.JSON, documents []DocumentInput) (*model.Application, error)
	AssignReviewer(ctx context.Context, applicationID, reviewerID uuid.UUID) (*model.Application, error)
	// UpdateAssigned applies a reviewer's update. The returned bool is
	// true when the application was already finalized and the call was
	// a no-op.
	UpdateAssigned(ctx context.Context, actor *Identity, applicationID uuid.UUID, update ApplicationUpdate) (*model.Application, bool, error)
	CreateReview(ctx context.Context, actor *Identity, input ReviewInput) (*model.Review, error)
	ListReviews(ctx context.Context, actor *Identity, applicationID uuid.UUID) ([]model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	List(ctx context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error)
	Recent(ctx context.Context, limit int) ([]model.Application, error)
	Stats(ctx context.Context) ([]repository.StatusCount, error)
	ExportCSV(ctx context.Context, w io.Writer, filter repository.ApplicationFilter) error
}

type applicationService struct {
	appRepo          repository.ApplicationRepository
	scholarshipRepo  repository.ScholarshipRepository
	userRepo         repository.UserRepository
	roleRepo         repository.RoleRepository
	reviewRepo       repository.ReviewRepository
	notificationRepo repository.NotificationRepository
	producer         *events.Producer
}

// NewApplicationService creates a new application workflow service.
func NewApplicationService(
	appRepo repository.ApplicationRepository,
	scholarshipRepo repository.ScholarshipRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	reviewRepo repository.ReviewRepository,
	notificationRepo repository.NotificationRepository,
	producer *events.Producer,
) ApplicationService {
	return &applicationService{
		appRepo:          appRepo,
		scholarshipRepo:  scholarshipRepo,
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		reviewRepo:       reviewRepo,
		notificationRepo: notificationRepo,
		producer:         producer,
	}
}

// Submit creates an application in state submitted. The scholarship
// row is locked for the duration of the transaction so that the
// capacity check and counter increment are atomic, and the duplicate
// check pairs with the unique (student, scholarship) index.
func (s *applicationService) Submit(ctx context.Context, studentID, scholarshipID uuid.UUID, formData datatypes.JSON, documents []DocumentInput) (*model.Application, error) {
	application := &model.Application{
		ID:            uuid.New(),
		StudentID:     studentID,
		ScholarshipID: scholarshipID,
		Status:        model.ApplicationStatusSubmitted,
		FormData:      formData,
	}
	for _, doc := range documents {
		application.Documents = append(application.Documents, model.Document{
			ApplicationID: application.ID,
			OwnerID:       studentID,
			Name:          doc.Name,
			ContentType:   doc.ContentType,
			Size:          doc.Size,
			StorageKey:    doc.StorageKey,
		})
	}

	err := s.appRepo.WithTransaction(ctx, func(ctx context.Context, apps repository.ApplicationRepository, scholarships repository.ScholarshipRepository) error {
		scholarship, err := scholarships.FindByIDForUpdate(ctx, scholarshipID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrScholarshipNotFound
			}
			return err
		}

		now := time.Now()
		if scholarship.Status != model.ScholarshipStatusActive {
			return errors.ErrScholarshipNotActive
		}
		if !now.Before(scholarship.ApplicationDeadline) {
			return errors.ErrDeadlinePassed
		}
		if scholarship.MaxApplications != nil && scholarship.CurrentApplications >= *scholarship.MaxApplications {
			return errors.ErrScholarshipFull
		}

		exists, err := apps.ExistsForStudent(ctx, studentID, scholarshipID)
		if err != nil {
			return err
		}
		if exists {
			return errors.ErrDuplicateApplication
		}

		if err := apps.Create(ctx, application); err != nil {
			if isDuplicateKey(err) {
				return errors.ErrDuplicateApplication
			}
			return err
		}

		scholarship.CurrentApplications++
		return scholarships.Update(ctx, scholarship)
	})
	if err != nil {
		if httpErr := errors.FromError(err); httpErr.StatusCode < 500 {
			return nil, err
		}
		return nil, fmt.Errorf("submit application: %w", err)
	}

	_ = s.producer.Publish(ctx, events.TypeApplicationSubmitted, application.ID.String(), map[string]interface{}{
		"application_id": application.ID,
		"student_id":     studentID,
		"scholarship_id": scholarshipID,
	})

	return application, nil
}

// AssignReviewer sets the application's assignee and moves a submitted
// application to under_review. The target user must hold the reviewer
// role, either as primary type or as a grant.
func (s *applicationService) AssignReviewer(ctx context.Context, applicationID, reviewerID uuid.UUID) (*model.Application, error) {
	application, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.Status.Terminal() {
		return nil, errors.Conflict("application is finalized")
	}

	reviewer, err := s.userRepo.FindByID(ctx, reviewerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find reviewer: %w", err)
	}
	if reviewer.UserType != model.UserTypeReviewer {
		grants, err := s.roleRepo.GrantNames(ctx, reviewerID)
		if err != nil {
			return nil, fmt.Errorf("load role grants: %w", err)
		}
		if !containsRole(grants, string(model.UserTypeReviewer)) {
			return nil, errors.Validation("user does not hold the reviewer role")
		}
	}

	application.AssignedReviewerID = &reviewerID
	if application.Status == model.ApplicationStatusSubmitted {
		application.Status = model.ApplicationStatusUnderReview
	}

	if err := s.appRepo.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("assign reviewer: %w", err)
	}
	return application, nil
}

// UpdateAssigned applies a status/score/notes update on behalf of the
// assigned reviewer, or of an admin who bypasses the assignee check.
// A terminal application is returned unchanged with finalized=true.
func (s *applicationService) UpdateAssigned(ctx context.Context, actor *Identity, applicationID uuid.UUID, update ApplicationUpdate) (*model.Application, bool, error) {
	application, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, false, err
	}

	isAdmin := actor.UserType == model.UserTypeAdmin
	if !isAdmin && !application.AssignedTo(actor.UserID) {
		return nil, false, errors.ErrNotAssignedReviewer
	}

	if application.Status.Terminal() {
		// The workflow refuses further mutation once terminal. The
		// caller gets the unchanged record plus a distinct signal, not
		// an error and not a silent success.
		return application, true, nil
	}

	if update.Status != nil && !update.Status.Valid() {
		return nil, false, errors.Validation("invalid application status")
	}
	if update.Status != nil && *update.Status == model.ApplicationStatusSubmitted &&
		application.Status != model.ApplicationStatusSubmitted {
		return nil, false, errors.Validation("application cannot return to submitted")
	}

	statusChanged := update.Status != nil && *update.Status != application.Status
	if update.Status != nil {
		application.Status = *update.Status
	}
	if update.Score != nil {
		application.Score = update.Score
	}
	if update.ReviewNotes != nil {
		application.ReviewNotes = *update.ReviewNotes
	}

	if err := s.appRepo.Update(ctx, application); err != nil {
		return nil, false, fmt.Errorf("update application: %w", err)
	}

	if statusChanged {
		s.recordDecision(ctx, application, actor.UserID)
	}

	return application, false, nil
}

// recordDecision mirrors a status change into the append-only review
// ledger and fans out the student notification and platform event.
func (s *applicationService) recordDecision(ctx context.Context, application *model.Application, reviewerID uuid.UUID) {
	score := 0.0
	if application.Score != nil {
		score = *application.Score
	}
	review := &model.Review{
		ApplicationID:  application.ID,
		ReviewerID:     reviewerID,
		OverallScore:   score,
		Comments:       application.ReviewNotes,
		Recommendation: model.RecommendationFor(application.Status),
		Complete:       application.Status.Terminal(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The application update already committed; a ledger write
		// failure must not roll the decision back.
		log.Printf("record review: %v", err)
	}

	_ = s.notificationRepo.Create(ctx, &model.Notification{
		UserID: application.StudentID,
		Title:  "Application status updated",
		Body:   fmt.Sprintf("Your application is now %s.", application.Status),
	})

	_ = s.producer.Publish(ctx, events.TypeApplicationStatusChanged, application.ID.String(), map[string]interface{}{
		"application_id": application.ID,
		"student_id":     application.StudentID,
		"status":         application.Status,
	})
}

// CreateReview appends an explicit ledger entry authored by the
// application's assigned reviewer.
func (s *applicationService) CreateReview(ctx context.Context, actor *Identity, input ReviewInput) (*model.Review, error) {
	application, err := s.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	isAdmin := actor.UserType == model.UserTypeAdmin
	if !isAdmin && !application.AssignedTo(actor.UserID) {
		return nil, errors.ErrNotAssignedReviewer
	}

	review := &model.Review{
		ApplicationID:  input.ApplicationID,
		ReviewerID:     actor.UserID,
		Criteria:       input.Criteria,
		OverallScore:   input.OverallScore,
		Comments:       input.Comments,
		Recommendation: model.RecommendationFor(application.Status),
		Complete:       input.Complete,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// ListReviews returns the evaluation history of an application to an
// admin or its assigned reviewer.
func (s *applicationService) ListReviews(ctx context.Context, actor *Identity, applicationID uuid.UUID) ([]model.Review, error) {
	application, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	isAdmin := actor.UserType == model.UserTypeAdmin
	if !isAdmin && !application.AssignedTo(actor.UserID) {
		return nil, errors.ErrNotAssignedReviewer
	}

	return s.reviewRepo.ListByApplication(ctx, applicationID)
}

// Get retrieves an application by ID.
func (s *applicationService) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return application, nil
}

// List returns a page of applications plus the total count.
func (s *applicationService) List(ctx context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.Validation("invalid application status")
	}
	return s.appRepo.List(ctx, filter)
}

// Recent returns the latest applications platform-wide.
func (s *applicationService) Recent(ctx context.Context, limit int) ([]model.Application, error) {
	return s.appRepo.Recent(ctx, limit)
}

// Stats aggregates application counts by status platform-wide.
func (s *applicationService) Stats(ctx context.Context) ([]repository.StatusCount, error) {
	return s.appRepo.CountByStatus(ctx, nil)
}

// ExportCSV streams the applications matching the filter as CSV.
func (s *applicationService) ExportCSV(ctx context.Context, w io.Writer, filter repository.ApplicationFilter) error {
	filter.Page = 1
	filter.Limit = exportPageSize

	writer := csv.NewWriter(w)
	header := []string{"id", "student_id", "scholarship_id", "status", "score", "awarded_amount", "assigned_reviewer_id", "submitted_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for {
		applications, _, err := s.appRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, a := range applications {
			score := ""
			if a.Score != nil {
				score = strconv.FormatFloat(*a.Score, 'f', 2, 64)
			}
			awarded := ""
			if a.AwardedAmount != nil {
				awarded = a.AwardedAmount.String()
			}
			reviewer := ""
			if a.AssignedReviewerID != nil {
				reviewer = a.AssignedReviewerID.String()
			}
			record := []string{
				a.ID.String(),
				a.StudentID.String(),
				a.ScholarshipID.String(),
				string(a.Status),
				score,
				awarded,
				reviewer,
				a.SubmittedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}
		if len(applications) < filter.Limit {
			return nil
		}
		filter.Page++
	}
}

const exportPageSize = 500

func containsRole(grants []string, role string) bool {
	for _, g := range grants {
		if g == role {
			return true
		}
	}
	return false
}
