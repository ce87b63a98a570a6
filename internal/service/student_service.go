package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// StudentService covers the student roster CRUD surface.
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error)
	Get(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo   repository.StudentRepository
	logger *zap.Logger
}

func NewStudentService(repo repository.StudentRepository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error) {
	student := &model.Student{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if callerID != "" {
		student.CreatedBy = &callerID
	}
	if err := s.repo.Create(ctx, student); err != nil {
		s.logger.Error("student creation failed", zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("student", id)
	}
	return student, err
}

func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	return s.repo.List(ctx)
}

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if callerID != "" {
		student.UpdatedBy = &callerID
	}
	if err := s.repo.Update(ctx, student); err != nil {
		s.logger.Error("student update failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
