package service

import (
	"github.com/wb-go/wbf/ginext"

	"eventplanner/internal/dto"
	"eventplanner/internal/model"
	"eventplanner/pkg/validator"
)

func validateSettings(fe validator.FieldErrors, req dto.SettingsRequest) validator.FieldErrors {
	if req.NotifyAdmin && req.AdminNotificationEmail == "" {
		fe.Add("admin_notification_email", "Please provide an administrator email address.")
	}
	return fe
}

func (s *service) GetSettings(ctx *ginext.Context) {
	st, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load settings")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, st)
}

func (s *service) UpdateSettings(ctx *ginext.Context) {
	var req dto.SettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if fe := validateSettings(validator.Validate(ctx, req), req); len(fe) > 0 {
		dto.ValidationError(ctx, dto.FieldIncorrect, fe)
		return
	}

	st := model.Settings{
		NotifyAdmin:            req.NotifyAdmin,
		AdminNotificationEmail: req.AdminNotificationEmail,
	}
	if err := s.settings.Save(ctx, st); err != nil {
		s.log.Error().Err(err).Msg("failed to save settings")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Bool("notify_admin", st.NotifyAdmin).Msg("settings saved")
	dto.SuccessResponse(ctx, dto.MessageResponse{
		Message: "The configuration options have been saved.",
		Data:    st,
	})
}
