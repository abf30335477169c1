package handlers

import (
	"net/http"

	"STOREFRONT_BACK-END/internal/dto"
	"STOREFRONT_BACK-END/internal/metrics"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/utils"
)

// ForgotPasswordHandler handles forgot password functionality
type ForgotPasswordHandler struct {
	resets  *services.PasswordResetService
	metrics *metrics.Metrics
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler instance
func NewForgotPasswordHandler(resets *services.PasswordResetService, m *metrics.Metrics) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{resets: resets, metrics: m}
}

// ForgotPassword sends verification code to user's email
// @Summary Request password reset
// @Description Send 6-digit verification code to user's email for password reset
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email address"
// @Success 200 {object} dto.ForgotPasswordResponse "Verification code sent successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 429 {object} dto.ErrorResponse "Code already sent"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/forgot-password [post]
func (h *ForgotPasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	ttl, err := h.resets.ForgotPassword(r.Context(), req)
	h.metrics.AuthEvent("forgot_password", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.ForgotPasswordResponse{
		Message:   "Verification code has been sent to your email",
		Email:     req.Email,
		ExpiresIn: ttl.String(),
	})
}

// VerifyOTP verifies the OTP and returns a reset token
// @Summary Verify OTP
// @Description Verify the 6-digit code and get a temporary reset token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and verification code"
// @Success 200 {object} dto.VerifyOTPResponse "OTP verified successfully"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired code"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/verify-otp [post]
func (h *ForgotPasswordHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	resetToken, err := h.resets.VerifyCode(r.Context(), req)
	h.metrics.AuthEvent("verify_otp", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.VerifyOTPResponse{
		Message:    "OTP verified successfully",
		ResetToken: resetToken,
		ExpiresIn:  h.resets.ResetTokenTTL().String(),
	})
}

// ResetPassword resets user's password using reset token
// @Summary Reset password
// @Description Reset user's password with new password using reset token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.MessageResponse "Password reset successfully"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Failure 422 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/reset-password [post]
func (h *ForgotPasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	err := h.resets.ResetPassword(r.Context(), req)
	h.metrics.AuthEvent("reset_password", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Password has been reset successfully"})
}
