package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()

	v, err := NewValidator()
	require.NoError(t, err)

	return v
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestValidateSignupRequest(t *testing.T) {
	v := newValidator(t)

	valid := SignupRequest{
		Name:            "Nina",
		Email:           "nina@example.com",
		Password:        "correct-horse-battery",
		PasswordConfirm: "correct-horse-battery",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(valid))
	})

	t.Run("password shorter than ten characters", func(t *testing.T) {
		req := valid
		req.Password = "too-short"
		req.PasswordConfirm = "too-short"

		err := v.Validate(req)
		require.Error(t, err)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		req := valid
		req.PasswordConfirm = "something-else-entirely"

		assert.Error(t, v.Validate(req))
	})

	t.Run("malformed email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"

		assert.Error(t, v.Validate(req))
	})

	t.Run("violations are joined into one message", func(t *testing.T) {
		err := v.Validate(SignupRequest{})
		require.Error(t, err)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Message, "Name")
		assert.Contains(t, appErr.Message, "Email")
	})
}

func TestValidateCreateFlowRequest(t *testing.T) {
	v := newValidator(t)

	t.Run("expense requires a status", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "expense",
			Description: "weekly groceries",
			Amount:      floatPtr(42.5),
		})
		assert.Error(t, err)
	})

	t.Run("expense with a valid status", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "expense",
			Description: "weekly groceries",
			Amount:      floatPtr(42.5),
			Status:      "Completed",
		})
		assert.NoError(t, err)
	})

	t.Run("income must not carry a status", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "income",
			Description: "salary",
			Amount:      floatPtr(1000),
			Status:      "Completed",
		})
		assert.Error(t, err)
	})

	t.Run("income without status", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "income",
			Description: "salary",
			Amount:      floatPtr(1000),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown chart", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "savings",
			Description: "piggy bank",
			Amount:      floatPtr(5),
		})
		assert.Error(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "expense",
			Description: "weekly groceries",
			Amount:      floatPtr(42.5),
			Status:      "Pending",
		})
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "expense",
			Description: "weekly groceries",
			Amount:      floatPtr(-1),
			Status:      "Processing",
		})
		assert.Error(t, err)
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "expense",
			Description: "free sample",
			Amount:      floatPtr(0),
			Status:      "Completed",
		})
		assert.NoError(t, err)
	})

	t.Run("missing amount", func(t *testing.T) {
		err := v.Validate(CreateFlowRequest{
			Chart:       "income",
			Description: "salary",
		})
		assert.Error(t, err)
	})
}

func TestValidateUpdatePasswordRequest(t *testing.T) {
	v := newValidator(t)

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(UpdatePasswordRequest{
			PasswordCurrent: "old-password-here",
			Password:        "a-whole-new-password",
			PasswordConfirm: "a-whole-new-password",
		})
		assert.NoError(t, err)
	})

	t.Run("missing current password", func(t *testing.T) {
		err := v.Validate(UpdatePasswordRequest{
			Password:        "a-whole-new-password",
			PasswordConfirm: "a-whole-new-password",
		})
		assert.Error(t, err)
	})
}
