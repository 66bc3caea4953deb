package user

import (
	"strings"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d *CreateUserDTO) Validate() error {
	var errs []internal.ValidationError

	if !strings.Contains(d.Email, "@") {
		errs = append(errs, internal.ValidationError{
			Field: "email", Message: "a valid email is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, internal.ValidationError{
			Field: "name", Message: "name is required", Code: string(internal.ErrCodeValidationFailed)})
	}
	if len(d.Password) < 8 {
		errs = append(errs, internal.ValidationError{
			Field: "password", Message: "password must be at least 8 characters", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Role != RoleContractor && d.Role != RoleManager {
		errs = append(errs, internal.ValidationError{
			Field: "role", Message: "role must be CONTRACTOR or MANAGER", Code: string(internal.ErrCodeValidationFailed)})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d *UpdateRoleDTO) Validate() error {
	if d.Role != RoleContractor && d.Role != RoleManager {
		return internal.NewValidationError("validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{{
				Field: "role", Message: "role must be CONTRACTOR or MANAGER", Code: string(internal.ErrCodeValidationFailed)}}})
	}
	return nil
}
