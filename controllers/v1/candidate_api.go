package apiv1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"talent-backend/controllers"
	candidatehandler "talent-backend/lib/candidate"
	candidatehistoryhandler "talent-backend/lib/candidate-history"
	"talent-backend/lib/search"
	"talent-backend/middleware"
	"talent-backend/models"
	apimodels "talent-backend/models/api"
	candidateapimodels "talent-backend/models/api/candidate"
	searchapimodels "talent-backend/models/api/search"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(app *fiber.App) {
	controller := candidateApiController{}
	app.Route("api/v1/candidate", func(router fiber.Router) {
		router.Use(middleware.TenantRequired())
		router.Post("list", controller.list)
		router.Post("search", controller.search)
		router.Post("search/resync", controller.resync)
		router.Post("export", controller.export)
		router.Post("", controller.create)
		router.Route(":id", func(idRouter fiber.Router) {
			idRouter.Post("upload-resume", controller.uploadResume) // загрузить резюме кандидата
			idRouter.Get("resume", controller.getResume)            // скачать резюме кандидата
			idRouter.Get("history", controller.history)             // история действий по кандидату
			idRouter.Get("", controller.get)
			idRouter.Put("", controller.update)
			idRouter.Put("change_stage", controller.changeStage)
			idRouter.Delete("", controller.delete)
		})
	})
}

// errStatus - код ответа по типу ошибки
func errStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrVersionConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrTransition):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// @Summary Создание
// @Tags Кандидат
// @Description Создание кандидата
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param	body body	 candidateapimodels.CandidateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate [post]
func (c *candidateApiController) create(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	view, err := candidatehandler.Instance.Create(ctx.UserContext(), tenantID, payload)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Список
// @Tags Кандидат
// @Description Список кандидатов
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param	body body	 candidateapimodels.ListFilter	true	"request filter body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/list [post]
func (c *candidateApiController) list(ctx *fiber.Ctx) error {
	var payload candidateapimodels.ListFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	list, rowCount, err := candidatehandler.Instance.List(tenantID, payload)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение по ИД
// @Tags Кандидат
// @Description Получение кандидата по ИД
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	view, err := candidatehandler.Instance.GetByID(tenantID, id)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Обновление
// @Tags Кандидат
// @Description Обновление кандидата с проверкой версии
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	version				query 	int								true		 "ожидаемая версия записи"
// @Param	body body	 candidateapimodels.UpdateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id} [put]
func (c *candidateApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	version, err := c.GetVersion(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.UpdateData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	view, err := candidatehandler.Instance.Update(ctx.UserContext(), tenantID, id, version, payload)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Смена этапа
// @Tags Кандидат
// @Description Перевод кандидата на другой этап воронки
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	version				query 	int								true		 "ожидаемая версия записи"
// @Param	body body	 candidateapimodels.ChangeStageRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id}/change_stage [put]
func (c *candidateApiController) changeStage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	version, err := c.GetVersion(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.ChangeStageRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	view, err := candidatehandler.Instance.ChangeStage(ctx.UserContext(), tenantID, id, version, payload.Stage)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Удаление
// @Tags Кандидат
// @Description Удаление кандидата
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id} [delete]
func (c *candidateApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	if err = candidatehandler.Instance.Delete(ctx.UserContext(), tenantID, id); err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузить резюме кандидата
// @Tags Кандидат
// @Description Загрузить и разобрать резюме кандидата
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "ID кандидата"
// @Param   resume		formData	file 	true 	"file to upload"
// @Success 200 {object} apimodels.Response{data=parserapimodels.ParseResult}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id}/upload-resume [post]
func (c *candidateApiController) uploadResume(ctx *fiber.Ctx) error {
	candidateID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := ctx.FormFile("resume")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("Ошибка при получении файла резюме")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("Ошибка при загрузке файла резюме")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	tenantID := middleware.GetTenantID(ctx)
	contentType := file.Header.Get("Content-Type")
	result, err := candidatehandler.Instance.UploadResume(ctx.UserContext(), tenantID, candidateID, file.Filename, contentType, fileBody)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Скачать резюме кандидата
// @Tags Кандидат
// @Description Скачать файл резюме кандидата
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "ID кандидата"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id}/resume [get]
func (c *candidateApiController) getResume(ctx *fiber.Ctx) error {
	candidateID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	rec, body, err := candidatehandler.Instance.GetResume(ctx.UserContext(), tenantID, candidateID)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rec.Name+`"`)
	return ctx.Send(body)
}

// @Summary История действий
// @Tags Кандидат
// @Description История действий по кандидату
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param   id          		path    string  				    	true         "ID кандидата"
// @Param	page				query 	int								false		 "страница"
// @Param	limit				query 	int								false		 "записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]candidateapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/{id}/history [get]
func (c *candidateApiController) history(ctx *fiber.Ctx) error {
	candidateID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	filter := candidateapimodels.HistoryFilter{
		Pagination: apimodels.Pagination{
			Page:  ctx.QueryInt("page", 0),
			Limit: ctx.QueryInt("limit", 0),
		},
	}
	tenantID := middleware.GetTenantID(ctx)
	list, rowCount, err := candidatehistoryhandler.Instance.List(tenantID, candidateID, filter)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Поиск
// @Tags Кандидат
// @Description Поиск кандидатов по индексу
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param	body body	 searchapimodels.SearchRequest	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]searchapimodels.CandidateDocument}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/candidate/search [post]
func (c *candidateApiController) search(ctx *fiber.Ctx) error {
	var payload searchapimodels.SearchRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Pagination.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	docs, total := search.Instance.Search(ctx.UserContext(), tenantID, payload.SearchCriteria, payload.Pagination)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(docs, total))
}

// @Summary Переиндексация
// @Tags Кандидат
// @Description Полная переиндексация кандидатов тенанта
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/search/resync [post]
func (c *candidateApiController) resync(ctx *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(ctx)
	indexed, err := search.Instance.Resync(ctx.UserContext(), tenantID)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(indexed))
}

// @Summary Экспорт
// @Tags Кандидат
// @Description Экспорт кандидатов в xlsx
// @Param   X-Tenant-ID			header		string	true	"ID тенанта"
// @Param	body body	 candidateapimodels.ListFilter	true	"request filter body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/export [post]
func (c *candidateApiController) export(ctx *fiber.Ctx) error {
	var payload candidateapimodels.ListFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tenantID := middleware.GetTenantID(ctx)
	buf, err := candidatehandler.Instance.Export(tenantID, payload.CandidateFilter)
	if err != nil {
		return ctx.Status(errStatus(err)).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="candidates.xlsx"`)
	return ctx.Send(buf.Bytes())
}
