package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/packets"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

type TemplateController struct {
	store db.Store
}

func NewTemplateController(store db.Store) *TemplateController {
	return &TemplateController{store: store}
}

func TemplateModule(store db.Store) api.Module {
	ctl := NewTemplateController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/templates", ctl.listTemplates)
		c.POST("/templates", ctl.createTemplate)
		c.GET("/templates/:id", ctl.getTemplate)
		c.PUT("/templates/:id", ctl.updateTemplate)
		c.DELETE("/templates/:id", ctl.deleteTemplate)
	})
}

func (t *TemplateController) listTemplates(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	list, err := t.store.ListTemplates(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list templates"}
	}
	if list == nil {
		list = []model.Template{}
	}
	return list, nil
}

func (t *TemplateController) createTemplate(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var request packets.CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	config := request.Config
	if config == nil {
		config = []byte(`{}`)
	}
	created, err := t.store.CreateTemplate(shop.Domain, request.Name, request.Category, config)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create template"}
	}
	return created, nil
}

func (t *TemplateController) getTemplate(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	tpl, err := t.store.GetTemplate(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
	}
	return tpl, nil
}

func (t *TemplateController) updateTemplate(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	current, err := t.store.GetTemplate(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
	}

	var request packets.UpdateTemplateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if request.Name != nil {
		current.Name = *request.Name
	}
	if request.Category != nil {
		current.Category = *request.Category
	}
	if request.Config != nil {
		current.Config = request.Config
	}

	saved, err := t.store.UpdateTemplate(current)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update template"}
	}
	return saved, nil
}

func (t *TemplateController) deleteTemplate(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := t.store.GetTemplate(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
	}

	inUse, err := t.store.TemplateInUse(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not check template usage"}
	}
	if inUse {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "template is referenced by a schedule"}
	}

	if err := t.store.DeleteTemplate(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete template"}
	}
	return gin.H{"message": "deleted"}, nil
}
