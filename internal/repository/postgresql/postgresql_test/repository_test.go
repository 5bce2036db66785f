package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/erp-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/erp-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/erp-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, ctx context.Context, repo user.UserRepository, providerID, name string) user.User {
	t.Helper()
	u, err := repo.Create(ctx, user.User{
		ProviderID: providerID,
		Email:      providerID + "@example.com",
		Name:       name,
		Role:       user.RoleEmployee,
	})
	require.NoError(t, err)
	return u
}

func createTestDepartment(t *testing.T, ctx context.Context, repo department.DepartmentRepository, name string) department.Department {
	t.Helper()
	d, err := repo.Create(ctx, department.Department{
		Name:            name,
		Status:          department.StatusActive,
		EstablishedDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return d
}

func TestUserRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)
	departments := postgresql.NewDepartmentRepository(setup.DB)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	created := createTestUser(t, ctx, repo, "g-1", "Ana")
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Pending())

	_, err = repo.Create(ctx, user.User{ProviderID: "g-1", Email: "dup@example.com", Name: "Dup", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrProviderIDExists)

	_, err = repo.Create(ctx, user.User{ProviderID: "g-2", Email: "G-1@Example.com", Name: "Dup", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	engineering := createTestDepartment(t, ctx, departments, "Engineering")
	_, err = setup.DB.Exec(ctx, `
		INSERT INTO employees (user_id, employee_code, first_name, last_name, position, department_id, salary)
		VALUES ($1, 'EMP0001', 'Ana', 'Putri', 'Developer', $2, 5000000)
	`, created.ID, engineering.ID)
	require.NoError(t, err)

	found, err := repo.GetByProviderID(ctx, "g-1")
	require.NoError(t, err)
	require.NotNil(t, found.Profile)
	assert.Equal(t, "EMP0001", found.Profile.EmployeeCode)
	require.NotNil(t, found.Profile.DepartmentName)
	assert.Equal(t, "Engineering", *found.Profile.DepartmentName)
	assert.True(t, decimal.NewFromInt(5000000).Equal(found.BaseSalary()))

	byEmail, err := repo.GetByEmail(ctx, "G-1@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_PendingAccounts(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	first, err := repo.Create(ctx, user.User{Email: "budi@example.com", Name: "Budi", Role: user.RoleEmployee})
	require.NoError(t, err)
	second, err := repo.Create(ctx, user.User{Email: "citra@example.com", Name: "Citra", Role: user.RoleEmployee})
	require.NoError(t, err, "unclaimed accounts do not collide on provider ID")

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Pending())
	assert.Nil(t, got.Profile)

	require.NoError(t, repo.LinkProvider(ctx, first.ID, "g-budi"))
	got, err = repo.GetByProviderID(ctx, "g-budi")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.False(t, got.Pending())

	// A claimed account cannot be linked again
	assert.ErrorIs(t, repo.LinkProvider(ctx, first.ID, "g-other"), user.ErrUserNotFound)
	assert.ErrorIs(t, repo.LinkProvider(ctx, second.ID, "g-budi"), user.ErrProviderIDExists)

	require.NoError(t, repo.UpdateIdentity(ctx, second.ID, "Citra Dewi", "citra.dewi@example.com"))
	got, err = repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Citra Dewi", got.Name)
	assert.Equal(t, "citra.dewi@example.com", got.Email)

	assert.ErrorIs(t, repo.UpdateIdentity(ctx, second.ID, "Citra", "BUDI@example.com"), user.ErrEmailExists)
	assert.ErrorIs(t, repo.UpdateIdentity(ctx, "00000000-0000-0000-0000-000000000000", "X", "x@example.com"), user.ErrUserNotFound)
}

func TestDepartmentRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewDepartmentRepository(setup.DB)
	employees := postgresql.NewEmployeeRepository(setup.DB)

	manager := createTestUser(t, ctx, users, "g-mgr", "Maya")
	jakarta := "Jakarta"

	engineering, err := repo.Create(ctx, department.Department{
		Name:            "Engineering",
		ManagerEmail:    &manager.Email,
		Location:        &jakarta,
		Budget:          decimal.NewNullDecimal(decimal.NewFromInt(1000000)),
		Status:          department.StatusActive,
		EstablishedDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	finance := createTestDepartment(t, ctx, repo, "Finance")

	_, err = repo.Create(ctx, department.Department{Name: "Engineering", Status: department.StatusActive, EstablishedDate: time.Now()})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	got, err := repo.GetByName(ctx, "engineering")
	require.NoError(t, err)
	assert.Equal(t, engineering.ID, got.ID)
	require.NotNil(t, got.ManagerName)
	assert.Equal(t, "Maya", *got.ManagerName)
	assert.True(t, got.Budget.Valid)
	assert.Equal(t, int64(0), got.EmployeeCount)

	_, err = repo.GetByName(ctx, "Marketing")
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	_, err = employees.Create(ctx, employee.Employee{
		UserID:       manager.ID,
		EmployeeCode: "EMP0001",
		FirstName:    "Maya",
		LastName:     "Sari",
		Position:     "Engineering Manager",
		DepartmentID: &engineering.ID,
		Salary:       decimal.NewFromInt(9000),
		HireDate:     time.Date(2021, time.May, 3, 0, 0, 0, 0, time.UTC),
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)

	search := "maya"
	list, err := repo.List(ctx, department.DepartmentFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineering", list[0].Name)
	assert.Equal(t, int64(1), list[0].EmployeeCount)

	list, err = repo.List(ctx, department.DepartmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Finance", list[1].Name)

	members, err := repo.ListMembers(ctx, engineering.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, manager.Email, members[0].Email)

	finance.Name = "Engineering"
	assert.ErrorIs(t, repo.Update(ctx, finance), department.ErrDepartmentNameExists)
	finance.Name = "Finance & Tax"
	finance.Location = &jakarta
	require.NoError(t, repo.Update(ctx, finance))

	assert.ErrorIs(t, repo.Delete(ctx, engineering.ID), department.ErrDepartmentHasEmployees)
	require.NoError(t, repo.Delete(ctx, finance.ID))
	assert.ErrorIs(t, repo.Delete(ctx, finance.ID), department.ErrDepartmentNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	departments := postgresql.NewDepartmentRepository(setup.DB)
	repo := postgresql.NewEmployeeRepository(setup.DB)

	engineering := createTestDepartment(t, ctx, departments, "Engineering")
	ana := createTestUser(t, ctx, users, "g-ana", "Ana")
	budi, err := users.Create(ctx, user.User{Email: "budi@example.com", Name: "Budi", Role: user.RoleEmployee})
	require.NoError(t, err)

	code, err := repo.NextEmployeeCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", code)

	hired := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, employee.Employee{
		UserID:       ana.ID,
		EmployeeCode: code,
		FirstName:    "Ana",
		LastName:     "Putri",
		Position:     "Developer",
		DepartmentID: &engineering.ID,
		Salary:       decimal.NewFromInt(7000),
		HireDate:     hired,
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, employee.Employee{
		UserID: budi.ID, EmployeeCode: code, FirstName: "Budi", LastName: "Santoso",
		Position: "Analyst", HireDate: hired, Status: employee.StatusActive,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = repo.Create(ctx, employee.Employee{
		UserID: ana.ID, EmployeeCode: "EMP0099", FirstName: "Ana", LastName: "Putri",
		Position: "Developer", HireDate: hired, Status: employee.StatusActive,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	code, err = repo.NextEmployeeCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP0002", code)

	_, err = repo.Create(ctx, employee.Employee{
		UserID: budi.ID, EmployeeCode: code, FirstName: "Budi", LastName: "Santoso",
		Position: "Analyst", HireDate: hired, Status: employee.StatusInactive,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.Email, got.Email)
	assert.Equal(t, user.RoleEmployee, got.Role)
	require.NotNil(t, got.DepartmentName)
	assert.Equal(t, "Engineering", *got.DepartmentName)
	assert.True(t, decimal.NewFromInt(7000).Equal(got.Salary))

	dept := "ENGINEERING"
	list, total, err := repo.List(ctx, employee.EmployeeFilter{Department: &dept, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	search := "emp0002"
	list, total, err = repo.List(ctx, employee.EmployeeFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Budi", list[0].FirstName)

	list, total, err = repo.List(ctx, employee.EmployeeFilter{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)

	got.Position = "Senior Developer"
	got.DepartmentID = nil
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", got.Position)
	assert.Nil(t, got.DepartmentName)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), employee.ErrEmployeeNotFound)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	// The account outlives the employee record
	_, err = users.GetByID(ctx, ana.ID)
	require.NoError(t, err)
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	ana := createTestUser(t, ctx, users, "g-ana", "Ana")
	budi := createTestUser(t, ctx, users, "g-budi", "Budi")

	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	remote := "Remote work"

	var created attendance.Attendance
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := repo.GetByUserAndDate(ctx, ana.ID, date)
		if err != nil {
			return err
		}
		assert.Nil(t, existing)

		created, err = repo.Create(ctx, attendance.Attendance{UserID: ana.ID, Date: date, CheckIn: &checkIn, Notes: &remote})
		return err
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{UserID: budi.ID, Date: date})
	require.NoError(t, err)

	existing, err := repo.GetByUserAndDate(ctx, ana.ID, date)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, created.ID, existing.ID)

	checkOut := time.Date(2024, time.March, 4, 17, 0, 0, 0, time.UTC)
	existing.CheckOut = &checkOut
	require.NoError(t, repo.Update(ctx, *existing))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CheckOut)
	assert.True(t, checkOut.Equal(*got.CheckOut))
	assert.Nil(t, got.Status)
	assert.Equal(t, "Ana", *got.EmployeeName)

	search := "ana"
	list, err := repo.List(ctx, attendance.AttendanceFilter{Search: &search})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.List(ctx, attendance.AttendanceFilter{UserID: &budi.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Rollback keeps the table unchanged.
	rollback := errors.New("rollback")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Delete(ctx, created.ID); err != nil {
			return err
		}
		return rollback
	})
	assert.ErrorIs(t, err, rollback)
	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
}

func TestPayrollRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewPayrollRepository(setup.DB)

	ana := createTestUser(t, ctx, users, "g-ana", "Ana")

	record := payroll.Payroll{
		UserID:      ana.ID,
		Month:       1,
		Year:        2024,
		BasicSalary: decimal.NewFromInt(5000),
		Allowances:  decimal.NewFromInt(500),
		Deductions:  decimal.NewFromInt(200),
		Status:      payroll.PayrollStatusPending,
	}
	record.Recalculate()

	created, err := repo.Create(ctx, record)
	require.NoError(t, err)

	_, err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	exists, err := repo.ExistsForPeriod(ctx, ana.ID, 1, 2024, "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForPeriod(ctx, ana.ID, 1, 2024, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	record.Month = 2
	_, err = repo.Create(ctx, record)
	require.NoError(t, err)

	list, total, err := repo.List(ctx, payroll.PayrollFilter{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Month)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5300).Equal(got.NetSalary))

	got.Status = payroll.PayrollStatusPaid
	require.NoError(t, repo.Update(ctx, got))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}
