package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

// GetVersion - ожидаемая версия записи для оптимистичной блокировки
func (c *BaseAPIController) GetVersion(ctx *fiber.Ctx) (int64, error) {
	version := int64(ctx.QueryInt("version", -1))
	if version < 0 {
		return 0, errors.New("не указана ожидаемая версия записи")
	}
	return version, nil
}
