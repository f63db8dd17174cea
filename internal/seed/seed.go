// Package seed provides the startup admin bootstrap and demo-data seeding
// for development and testing.
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"sehhaty/internal/config"
	"sehhaty/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdminAccount creates the reserved administrator account if it does
// not exist. The password hash only changes when the account is first
// created; rotating the configured password requires deleting the row.
func EnsureAdminAccount(db *gorm.DB, cfg *config.Config) (*models.Account, error) {
	var admin models.Account
	err := db.Where("national_id = ?", models.AdminNationalID).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD is required to bootstrap the administrator account")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin = models.Account{
		FullName:         "System Administrator",
		NationalID:       models.AdminNationalID,
		Email:            cfg.AdminEmail,
		Phone:            "0500000000",
		PasswordHash:     string(hash),
		Status:           models.AccountStatusActive,
		RegistrationDate: time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}

	log.Printf("administrator account created (id=%d)", admin.ID)
	return &admin, nil
}

// Seeder populates the database with demo citizens and requests.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes every seeded row. The administrator account survives.
func (s *Seeder) ClearAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("1 = 1").Delete(&models.Request{}).Error; err != nil {
		return err
	}
	return s.db.Where("national_id <> ?", models.AdminNationalID).Delete(&models.Account{}).Error
}

// SeedCitizens creates n citizen accounts with realistic profiles.
func (s *Seeder) SeedCitizens(n int) ([]models.Account, error) {
	accounts := make([]models.Account, 0, n)
	for i := 0; i < n; i++ {
		account := models.Account{
			FullName:         gofakeit.Name(),
			NationalID:       fmt.Sprintf("1%09d", s.r.Intn(1_000_000_000)),
			Email:            gofakeit.Email(),
			Phone:            fmt.Sprintf("05%08d", s.r.Intn(100_000_000)),
			Status:           models.AccountStatusActive,
			RegistrationDate: time.Now().AddDate(0, 0, -s.r.Intn(90)),
		}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// SeedRequests creates n requests spread over the given accounts with valid
// payloads per type and a realistic status mix.
func (s *Seeder) SeedRequests(accounts []models.Account, n int) error {
	if len(accounts) == 0 {
		return errors.New("no accounts to attach requests to")
	}

	types := []models.RequestType{
		models.RequestTypeAppointment,
		models.RequestTypeConsultation,
		models.RequestTypeMedicalRequest,
		models.RequestTypeMedicalExcuse,
		models.RequestTypeReviewCertificate,
		models.RequestTypeCompanionReport,
	}
	statuses := []models.RequestStatus{
		models.RequestStatusPending, models.RequestStatusPending,
		models.RequestStatusInProgress,
		models.RequestStatusCompleted,
		models.RequestStatusCancelled,
	}

	for i := 0; i < n; i++ {
		account := accounts[s.r.Intn(len(accounts))]
		requestType := types[s.r.Intn(len(types))]

		request := models.Request{
			AccountID: account.ID,
			Type:      requestType,
			Status:    statuses[s.r.Intn(len(statuses))],
			CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(60*24)) * time.Hour),
		}
		if err := request.SetData(s.payloadFor(requestType)); err != nil {
			return err
		}
		if err := s.db.Create(&request).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) payloadFor(t models.RequestType) map[string]string {
	payload := make(map[string]string)
	for _, field := range models.RequiredFields[t] {
		switch field {
		case "specialty":
			payload[field] = gofakeit.RandomString([]string{"cardiology", "dermatology", "pediatrics", "orthopedics", "internal medicine"})
		case "city", "region":
			payload[field] = gofakeit.City()
		case "workplace":
			payload[field] = gofakeit.Company()
		case "preferredDate", "reviewDate":
			payload[field] = gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 1, 0)).Format("2006-01-02")
		case "startDate", "hospitalEntryDate":
			payload[field] = time.Now().AddDate(0, 0, -s.r.Intn(14)).Format("2006-01-02")
		case "endDate", "hospitalExitDate":
			payload[field] = time.Now().AddDate(0, 0, s.r.Intn(14)).Format("2006-01-02")
		case "preferredTime":
			payload[field] = fmt.Sprintf("%02d:%02d", 8+s.r.Intn(9), []int{0, 15, 30, 45}[s.r.Intn(4)])
		case "consultationType":
			payload[field] = gofakeit.RandomString([]string{"general", "followup", "second_opinion"})
		case "reportType":
			payload[field] = gofakeit.RandomString([]string{"medical_report", "sick_leave", "lab_results"})
		case "patientName", "companionName":
			payload[field] = gofakeit.Name()
		case "patientNationalId", "companionNationalId":
			payload[field] = fmt.Sprintf("1%09d", s.r.Intn(1_000_000_000))
		case "relationship":
			payload[field] = gofakeit.RandomString([]string{"spouse", "parent", "sibling", "child"})
		default:
			payload[field] = gofakeit.Sentence(6)
		}
	}
	return payload
}
