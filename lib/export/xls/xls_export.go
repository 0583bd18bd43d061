package xlsexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	dbmodels "talent-backend/models/db"
)

type Provider interface {
	ExportCandidateList(list []dbmodels.Candidate) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var candidateHeaders = []string{"ФИО", "Контакты", "Должность", "Источник кандидата", "Навыки", "Опыт, лет", "Ожидаемая ЗП", "Этап подбора", "Статус", "Дата добавления"}

func (i impl) ExportCandidateList(list []dbmodels.Candidate) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, candidateHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeCandidateData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Кандидаты")
	return f.WriteToBuffer()
}

func writeCandidateData(f *excelize.File, sheet string, list []dbmodels.Candidate, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(candidateHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "ФИО"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.GetFullName()); err != nil {
			return row, err
		}

		// "Контакты"
		col++
		if err := writeColumn(f, sheet, col, row, fmt.Sprintf("%v\r%v", item.Phone, item.Email)); err != nil {
			return row, err
		}

		// "Должность"
		col++
		if err := writeColumn(f, sheet, col, row, item.CurrentPosition); err != nil {
			return row, err
		}

		// "Источник кандидата"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Source)); err != nil {
			return row, err
		}

		// "Навыки"
		col++
		if err := writeColumn(f, sheet, col, row, strings.Join(item.Skills, ", ")); err != nil {
			return row, err
		}

		// "Опыт, лет"
		col++
		if err := writeColumn(f, sheet, col, row, item.YearsOfExperience); err != nil {
			return row, err
		}

		// "Ожидаемая ЗП"
		col++
		if item.ExpectedSalary > 0 {
			salary := fmt.Sprintf("%v %v", item.ExpectedSalary, item.SalaryCurrency)
			if err := writeColumn(f, sheet, col, row, salary); err != nil {
				return row, err
			}
		}

		// "Этап подбора"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.PipelineStage)); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		// "Дата добавления"
		col++
		if !item.CreatedAt.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
