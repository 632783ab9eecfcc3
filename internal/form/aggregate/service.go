package aggregate

import (
	"context"
	"fmt"
	"io"

	"NYCU-SDC/checkin-backend/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const exportSheetName = "Responses"

type Service struct {
	logger *zap.Logger
	inputs []Input
	tracer trace.Tracer
}

func NewService(logger *zap.Logger, inputs []Input) *Service {
	return &Service{
		logger: logger,
		inputs: inputs,
		tracer: otel.Tracer("aggregate/service"),
	}
}

// Dashboard aggregates every configured dashboard question in configuration order
func (s *Service) Dashboard(ctx context.Context) ([]Result, error) {
	traceCtx, span := s.tracer.Start(ctx, "Dashboard")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	results := make([]Result, 0, len(s.inputs))
	for _, input := range s.inputs {
		result, err := Aggregate(input.Question, input.Responses)
		if err != nil {
			logger.Error("Failed to aggregate dashboard question", zap.Error(err), zap.String("question_id", input.Question.ID))
			span.RecordError(err)
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// Export writes the dashboard as an xlsx workbook, one block of rows per question
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	traceCtx, span := s.tracer.Start(ctx, "Export")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	results, err := s.Dashboard(traceCtx)
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	err = writeWorkbook(file, results)
	if err != nil {
		err = fmt.Errorf("%w: %w", internal.ErrExportFailed, err)
		logger.Error("Failed to build dashboard workbook", zap.Error(err))
		span.RecordError(err)
		return err
	}

	err = file.Write(w)
	if err != nil {
		err = fmt.Errorf("%w: %w", internal.ErrExportFailed, err)
		logger.Error("Failed to write dashboard workbook", zap.Error(err))
		span.RecordError(err)
		return err
	}

	logger.Debug("Exported dashboard", zap.Int("question_count", len(results)))
	return nil
}

func writeWorkbook(file *excelize.File, results []Result) error {
	err := file.SetSheetName("Sheet1", exportSheetName)
	if err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	err = file.SetColWidth(exportSheetName, "A", "A", 60)
	if err != nil {
		return err
	}

	row := 1
	for _, result := range results {
		err = setRow(file, row, result.Prompt)
		if err != nil {
			return err
		}
		err = setRowStyle(file, row, headerStyle)
		if err != nil {
			return err
		}
		row++

		err = setRow(file, row, "Answer", "Count", "Percentage (%)")
		if err != nil {
			return err
		}
		err = setRowStyle(file, row, headerStyle)
		if err != nil {
			return err
		}
		row++

		for _, r := range result.Rows {
			err = setRow(file, row, r.Label, r.Count, r.Percentage)
			if err != nil {
				return err
			}
			row++
		}

		err = setRow(file, row, "Total", result.Total)
		if err != nil {
			return err
		}
		row += 2
	}

	return nil
}

func setRow(file *excelize.File, row int, values ...any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}

		err = file.SetCellValue(exportSheetName, cell, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func setRowStyle(file *excelize.File, row int, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(3, row)
	if err != nil {
		return err
	}
	return file.SetCellStyle(exportSheetName, from, to, style)
}
