package timesheet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		err := validate.RegisterValidation("worklocation", func(fl validator.FieldLevel) bool {
			return model.WorkLocation(fl.Field().String()).Valid()
		})
		if err != nil {
			panic("registering worklocation validation: " + err.Error())
		}
	})
	return validate
}

// EntryInput is a requested time entry for one day of the week.
type EntryInput struct {
	Date         model.Date         `json:"date" validate:"-"`
	ProjectID    int64              `json:"projectId" validate:"required,gt=0"`
	Hours        float64            `json:"hours" validate:"gt=0,lte=24"`
	WorkLocation model.WorkLocation `json:"workLocation" validate:"required,worklocation"`
	Description  string             `json:"description" validate:"max=1000"`
}

type leaveInput struct {
	Hours float64 `validate:"gt=0,lte=8"`
}

func checkInput(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "worklocation":
		return fmt.Sprintf("must be %s or %s", model.LocationOffice, model.LocationHome)
	}
	return "failed " + fe.Tag()
}
