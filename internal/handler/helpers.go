package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modulartear/posventa/internal/apierror"
	"github.com/modulartear/posventa/internal/middleware"
	"github.com/modulartear/posventa/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// companyID extracts the tenant from the validated JWT claims.
func companyID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.CompanyID)
	return id
}

// pathID parses the :id path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps sentinel service errors onto HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPlanLimitReached):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessionConflict),
		errors.Is(err, service.ErrInconsistentState),
		errors.Is(err, service.ErrRegisterClosed),
		errors.Is(err, service.ErrNoOpenSession),
		errors.Is(err, service.ErrDuplicateImport),
		errors.Is(err, service.ErrSessionStillOpen):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrGatewayDisabled):
		c.JSON(http.StatusPreconditionFailed, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
