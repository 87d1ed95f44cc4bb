package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal/auth"
	attendanceDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data")
			for _, table := range []string{"notifications", "payrolls", "attendances", "users", "employees"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
		}

		employees := seedEmployees(gormDB)
		seedUsers(gormDB, cfg.Security.BCryptCost, employees)
		seedAttendance(gormDB, employees)

		fmt.Println("Seeding complete")
	},
}

func seedEmployees(db *gorm.DB) []*employeeDatamodel.Employee {
	employees := []*employeeDatamodel.Employee{
		{
			EmployeeCode: "EMP-0001",
			FirstName:    "Rizky",
			LastName:     "Pratama",
			Department:   "engineering",
			Position:     "Software Engineer",
			Status:       employeeDatamodel.StatusActive,
			BasicSalary:  decimal.NewFromInt(3000),
			Allowances: employeeDatamodel.AllowanceMap{
				"housing":   decimal.NewFromInt(500),
				"transport": decimal.NewFromInt(150),
			},
			HourlyRate:       decimal.NewFromInt(20),
			InsurancePremium: decimal.NewFromInt(50),
			TaxBracket:       "standard",
			Loans: employeeDatamodel.Loans{
				{Status: employeeDatamodel.LoanStatusActive, MonthlyInstallment: decimal.NewFromInt(100)},
				{Status: employeeDatamodel.LoanStatusClosed, MonthlyInstallment: decimal.NewFromInt(250)},
			},
		},
		{
			EmployeeCode:     "EMP-0002",
			FirstName:        "Siti",
			LastName:         "Rahayu",
			Department:       "finance",
			Position:         "Accountant",
			Status:           employeeDatamodel.StatusActive,
			BasicSalary:      decimal.NewFromInt(2500),
			Allowances:       employeeDatamodel.AllowanceMap{"meal": decimal.NewFromInt(120)},
			HourlyRate:       decimal.NewFromInt(15),
			InsurancePremium: decimal.NewFromInt(40),
			TaxBracket:       "low",
		},
		{
			EmployeeCode:     "EMP-0003",
			FirstName:        "Budi",
			LastName:         "Santoso",
			Department:       "engineering",
			Position:         "Engineering Manager",
			Status:           employeeDatamodel.StatusActive,
			BasicSalary:      decimal.NewFromInt(6000),
			Allowances:       employeeDatamodel.AllowanceMap{"housing": decimal.NewFromInt(800)},
			HourlyRate:       decimal.NewFromInt(40),
			InsurancePremium: decimal.NewFromInt(80),
			TaxBracket:       "high",
		},
	}

	for _, emp := range employees {
		var existing employeeDatamodel.Employee
		err := db.Where("employee_code = ?", emp.EmployeeCode).First(&existing).Error
		if err == nil {
			emp.ID = existing.ID
			fmt.Println("employee already exists:", emp.EmployeeCode)
			continue
		}
		if err := db.Create(emp).Error; err != nil {
			log.Fatalf("failed to insert employee %s: %v", emp.EmployeeCode, err)
		}
		fmt.Println("Seeded employee:", emp.EmployeeCode)
	}

	return employees
}

func seedUsers(db *gorm.DB, bcryptCost int, employees []*employeeDatamodel.Employee) {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []*auth.User{
		{Email: "admin@mail.com", Name: "Admin", Role: string(auth.RoleAdmin), IsActive: true, PasswordHash: string(hash)},
		{Email: "hr@mail.com", Name: "HR Staff", Role: string(auth.RoleHR), IsActive: true, PasswordHash: string(hash)},
		{Email: "payroll@mail.com", Name: "Payroll Officer", Role: string(auth.RolePayroll), IsActive: true, PasswordHash: string(hash)},
		{Email: "rizky@mail.com", Name: "Rizky Pratama", Role: string(auth.RoleEmployee), IsActive: true, PasswordHash: string(hash), EmployeeID: employees[0].ID},
	}

	for _, user := range users {
		var existing auth.User
		if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			fmt.Println("user already exists:", user.Email)
			continue
		}
		if err := db.Create(user).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", user.Email, err)
		}
		fmt.Println("Seeded user:", user.Email)
	}
}

// seedAttendance fills the previous month so a payroll run over it produces
// non-trivial figures right after seeding.
func seedAttendance(db *gorm.DB, employees []*employeeDatamodel.Employee) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, -1)

	for _, emp := range employees {
		var count int64
		db.Model(&attendanceDatamodel.Attendance{}).
			Where("employee_id = ? AND date >= ? AND date <= ?", emp.ID, start, end).
			Count(&count)
		if count > 0 {
			fmt.Println("attendance already seeded for employee:", emp.EmployeeCode)
			continue
		}

		var records []*attendanceDatamodel.Attendance
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}

			status := attendanceDatamodel.StatusPresent
			overtime := decimal.Zero
			switch day.Day() {
			case 5:
				status = attendanceDatamodel.StatusAbsent
			case 12:
				status = attendanceDatamodel.StatusLeave
			case 18, 19:
				overtime = decimal.NewFromInt(2)
			}

			records = append(records, &attendanceDatamodel.Attendance{
				EmployeeID:    emp.ID,
				Date:          day,
				Status:        status,
				OvertimeHours: overtime,
			})
		}

		if err := db.Create(&records).Error; err != nil {
			log.Fatalf("failed to seed attendance for %s: %v", emp.EmployeeCode, err)
		}
		fmt.Printf("Seeded %d attendance records for %s\n", len(records), emp.EmployeeCode)
	}
}
