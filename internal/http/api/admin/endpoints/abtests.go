package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/packets"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

type ABTestController struct {
	store db.Store
}

func NewABTestController(store db.Store) *ABTestController {
	return &ABTestController{store: store}
}

func ABTestModule(store db.Store) api.Module {
	ctl := NewABTestController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/abtests", ctl.listTests)
		c.POST("/abtests", ctl.createTest)
		c.GET("/abtests/:id", ctl.getTest)
		c.PUT("/abtests/:id/status", ctl.updateStatus)
		c.DELETE("/abtests/:id", ctl.deleteTest)
		c.POST("/abtests/:id/variants", ctl.addVariant)
	})
}

func (a *ABTestController) listTests(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	tests, err := a.store.ListABTests(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list tests"}
	}
	if tests == nil {
		tests = []model.ABTest{}
	}
	return tests, nil
}

func (a *ABTestController) createTest(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var request packets.CreateABTestRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	test, err := a.store.CreateABTest(shop.Domain, request.Name)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create test"}
	}
	return test, nil
}

func (a *ABTestController) getTest(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	test, err := a.store.GetABTest(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "test not found"}
	}
	variants, err := a.store.ListABVariants(test.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list variants"}
	}
	if variants == nil {
		variants = []model.ABVariant{}
	}

	return packets.ABTestResponse{
		ID:        test.ID,
		Name:      test.Name,
		Status:    test.Status,
		Variants:  variants,
		CreatedAt: test.CreatedAt.Format(time.RFC3339),
		UpdatedAt: test.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (a *ABTestController) updateStatus(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	var request packets.UpdateABTestStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// a test needs at least two variants before it can take traffic
	if request.Status == model.ABTestRunning {
		variants, err := a.store.ListABVariants(id)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list variants"}
		}
		if len(variants) < 2 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "test needs at least two variants to run"}
		}
	}

	if err := a.store.UpdateABTestStatus(shop.Domain, id, request.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "test not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update status"}
	}
	return gin.H{"message": "updated"}, nil
}

func (a *ABTestController) deleteTest(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := a.store.GetABTest(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "test not found"}
	}

	if err := a.store.DeleteABTest(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete test"}
	}
	return gin.H{"message": "deleted"}, nil
}

func (a *ABTestController) addVariant(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := a.store.GetABTest(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "test not found"}
	}

	var request packets.AddABVariantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := a.store.GetTemplate(shop.Domain, request.TemplateID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
	}

	variant, err := a.store.AddABVariant(id, request.Name, request.TemplateID, request.Weight)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add variant"}
	}
	return variant, nil
}
