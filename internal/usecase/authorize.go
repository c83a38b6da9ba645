package usecase

import (
	"fmt"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/rbac"
	"chess-shop/pkg/metrics"
	"chess-shop/pkg/utils"

	"github.com/google/uuid"
)

// authorize asks the engine and records the decision.
func authorize(principal rbac.Principal, action rbac.Action, scope uuid.UUID) error {
	err := rbac.Authorize(principal.Bindings, action, scope)
	metrics.RecordAuthzDecision(string(action), err == nil)
	return err
}

// validate runs struct validation and reports failures as ErrInvalidArgument.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrInvalidArgument, utils.FormatValidationErrors(errs))
	}
	return nil
}
