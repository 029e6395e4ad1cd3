package validator

import (
	"log"

	"festmatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs domain-specific validation tags backed by the
// enums in internal/models.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-signup-role", validateSignupRole)
	mustRegister("is-doc-type", validateDocType)
	mustRegister("is-package-duration", validatePackageDuration)
	mustRegister("is-report-resolution", validateReportResolution)
}

// validateSignupRole accepts the self-service roles; admin accounts are
// seeded, never created through signup.
func validateSignupRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleUser, models.UserRoleHost, models.UserRoleReferrer:
		return true
	}
	return false
}

func validateDocType(fl validator.FieldLevel) bool {
	switch models.KycDocType(fl.Field().String()) {
	case models.KycDocAadhaar, models.KycDocPan, models.KycDocPassport, models.KycDocDrivingLicense:
		return true
	}
	return false
}

func validatePackageDuration(fl validator.FieldLevel) bool {
	switch models.PackageDuration(fl.Field().String()) {
	case models.DurationMonthly, models.DurationQuarterly, models.DurationYearly, models.DurationLifetime:
		return true
	}
	return false
}

func validateReportResolution(fl validator.FieldLevel) bool {
	switch models.ReportStatus(fl.Field().String()) {
	case models.ReportStatusReviewed, models.ReportStatusResolved, models.ReportStatusDismissed:
		return true
	}
	return false
}
