package classificationRepository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"MaxBot/internal/entity"
	contextPkg "MaxBot/pkg/context"
)

type TrainingExampleDB struct {
	ID        sql.NullString `db:"id"`
	Text      sql.NullString `db:"text"`
	Category  sql.NullString `db:"category"`
	CreatedBy sql.NullString `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *examplesRepository) CreateExample(ctx context.Context, example entity.TrainingExample) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         example.ID,
		"text":       example.Text,
		"category":   example.Category,
		"created_by": example.CreatedBy,
		"created_at": example.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateExample, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateExample named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateExample execution err")
		return err
	}

	return nil
}

func (r *examplesRepository) ListExamples(ctx context.Context) ([]entity.TrainingExample, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []TrainingExampleDB

	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(queryListExamples)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListExamples execution err")
		return nil, err
	}

	examples := make([]entity.TrainingExample, 0, len(rows))
	for _, row := range rows {
		examples = append(examples, r.makeExample(row))
	}

	return examples, nil
}

func (r *examplesRepository) makeExample(row TrainingExampleDB) entity.TrainingExample {
	return entity.TrainingExample{
		ID:        row.ID.String,
		Text:      row.Text.String,
		Category:  row.Category.String,
		CreatedBy: row.CreatedBy.String,
		CreatedAt: row.CreatedAt,
	}
}
