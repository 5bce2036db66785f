package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/erp-backend-go/internal/pkg/validator"
)

const defaultRemoteNotes = "Remote work"

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	policy         attendance.Policy
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	policy attendance.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		policy:         policy,
		now:            time.Now,
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Without view_all, only the caller's own rows are visible
	switch {
	case caller.Can(user.PermissionAttendanceViewAll):
	case caller.Can(user.PermissionAttendanceViewOwn):
		filter.UserID = &caller.UserID
	default:
		return attendance.ListAttendanceResponse{}, attendance.ErrForbidden
	}

	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	// Status and location are only known after derivation
	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		resp := attendance.NewAttendanceResponse(rec, s.policy)
		if filter.Status != nil && resp.Status != *filter.Status {
			continue
		}
		if filter.Location != nil && resp.Location != *filter.Location {
			continue
		}
		items = append(items, resp)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  len(items),
		Attendances: items,
	}, nil
}

// RecordAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, false, err
	}

	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, false, err
	}

	targetUserID := caller.UserID
	if req.UserID != "" {
		targetUserID = req.UserID
	}
	if !caller.Can(user.PermissionAttendanceRecord) {
		return attendance.AttendanceResponse{}, false, attendance.ErrForbidden
	}
	if targetUserID != caller.UserID && !caller.Can(user.PermissionAttendanceRecordAny) {
		return attendance.AttendanceResponse{}, false, attendance.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.AttendanceResponse{}, false, attendance.ErrTargetUserNotFound
		}
		return attendance.AttendanceResponse{}, false, fmt.Errorf("failed to get target user: %w", err)
	}

	date := s.policy.Today(s.now())
	if req.Date != "" {
		date, err = s.policy.ParseDate(req.Date)
		if err != nil {
			return attendance.AttendanceResponse{}, false, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
		}
	}

	checkIn := s.clockOn(date, req.CheckIn)
	checkOut := s.clockOn(date, req.CheckOut)

	var (
		recordID string
		created  bool
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByUserAndDate(ctx, targetUserID, date)
		if err != nil {
			return err
		}

		if existing != nil {
			// Merge: new values win, missing ones keep what is stored
			if checkIn != nil {
				existing.CheckIn = checkIn
			}
			if checkOut != nil {
				existing.CheckOut = checkOut
			}
			if req.Status != "" {
				existing.Status = stringPtr(req.Status)
			}
			if !validator.IsEmpty(req.Notes) {
				existing.Notes = stringPtr(req.Notes)
			}
			recordID = existing.ID
			return s.attendanceRepo.Update(ctx, *existing)
		}

		newRecord := attendance.Attendance{
			UserID:   targetUserID,
			Date:     date,
			CheckIn:  checkIn,
			CheckOut: checkOut,
		}
		if req.Status != "" {
			newRecord.Status = stringPtr(req.Status)
		}
		switch {
		case !validator.IsEmpty(req.Notes):
			newRecord.Notes = stringPtr(req.Notes)
		case req.Location == attendance.LocationRemote:
			newRecord.Notes = stringPtr(defaultRemoteNotes)
		}

		createdRecord, err := s.attendanceRepo.Create(ctx, newRecord)
		if err != nil {
			return err
		}
		recordID = createdRecord.ID
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			return attendance.AttendanceResponse{}, false, err
		}
		return attendance.AttendanceResponse{}, false, fmt.Errorf("failed to record attendance: %w", err)
	}

	saved, err := s.attendanceRepo.GetByID(ctx, recordID)
	if err != nil {
		return attendance.AttendanceResponse{}, false, fmt.Errorf("failed to reload attendance: %w", err)
	}

	return attendance.NewAttendanceResponse(saved, s.policy), created, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !canSee(caller, rec.UserID) {
		return attendance.AttendanceResponse{}, attendance.ErrForbidden
	}

	return attendance.NewAttendanceResponse(rec, s.policy), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if !canSee(caller, rec.UserID) {
			return attendance.ErrForbidden
		}

		// Moving the record keeps the recorded clock times
		if req.Date != nil {
			date, err := s.policy.ParseDate(*req.Date)
			if err != nil {
				return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
			}
			rec.CheckIn = s.rebase(date, rec.CheckIn)
			rec.CheckOut = s.rebase(date, rec.CheckOut)
			rec.Date = date
		}

		if req.CheckIn != nil {
			rec.CheckIn = s.clockOn(rec.Date, *req.CheckIn)
		}
		if req.CheckOut != nil {
			rec.CheckOut = s.clockOn(rec.Date, *req.CheckOut)
		}
		if req.Status != nil {
			rec.Status = optionalString(*req.Status)
		}
		if req.Notes != nil {
			rec.Notes = optionalString(*req.Notes)
		}

		return s.attendanceRepo.Update(ctx, rec)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	saved, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", err)
	}

	return attendance.NewAttendanceResponse(saved, s.policy), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	caller, err := jwt.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if !caller.Can(user.PermissionAttendanceDelete) {
		return attendance.ErrForbidden
	}

	return s.attendanceRepo.Delete(ctx, id)
}

// canSee reports whether caller may read or edit a record owned by ownerID.
func canSee(caller jwt.Caller, ownerID string) bool {
	if caller.Can(user.PermissionAttendanceViewAll) {
		return true
	}
	return ownerID == caller.UserID && caller.Can(user.PermissionAttendanceViewOwn)
}

// clockOn turns an "HH:MM" input into an instant on date, or nil when blank.
func (s *AttendanceServiceImpl) clockOn(date time.Time, clock string) *time.Time {
	offset, ok := validator.ParseClock(clock)
	if !ok {
		return nil
	}
	t := s.policy.At(date, offset)
	return &t
}

func (s *AttendanceServiceImpl) rebase(date time.Time, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	moved := s.policy.At(date, s.policy.ClockOf(*t))
	return &moved
}

func stringPtr(s string) *string {
	return &s
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
