package conversationRepository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"MaxBot/internal/entity"
	contextPkg "MaxBot/pkg/context"
)

type MessageDB struct {
	ID                sql.NullString `db:"id"`
	ExternalID        sql.NullString `db:"external_id"`
	Body              sql.NullString `db:"body"`
	Type              sql.NullString `db:"message_type"`
	SentAt            time.Time      `db:"sent_at"`
	SenderName        sql.NullString `db:"sender_name"`
	SenderNumber      sql.NullString `db:"sender_number"`
	SenderID          sql.NullString `db:"sender_id"`
	ChatID            sql.NullString `db:"chat_id"`
	ChatName          sql.NullString `db:"chat_name"`
	IsGroup           sql.NullBool   `db:"is_group"`
	ParticipantsCount sql.NullInt64  `db:"participants_count"`
	Category          sql.NullString `db:"category"`
	Confidence        sql.NullInt64  `db:"confidence"`
	CreatedAt         time.Time      `db:"created_at"`
}

type categoryCountDB struct {
	Category string `db:"category"`
	Total    int    `db:"total"`
}

func (r *messagesRepository) CreateMessage(ctx context.Context, msg entity.ClassifiedMessage) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":                 msg.ID,
		"external_id":        msg.ExternalID,
		"body":               msg.Body,
		"message_type":       msg.Type,
		"sent_at":            msg.SentAt.UTC(),
		"sender_name":        msg.SenderName,
		"sender_number":      msg.SenderNumber,
		"sender_id":          msg.SenderID,
		"chat_id":            msg.ChatID,
		"chat_name":          msg.ChatName,
		"is_group":           msg.IsGroup,
		"participants_count": msg.ParticipantsCount,
		"category":           msg.Category,
		"confidence":         msg.Confidence,
		"created_at":         msg.CreatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateMessage named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateMessage execution err")
		return err
	}

	return nil
}

func (r *messagesRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []categoryCountDB

	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(queryCountByCategory)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountByCategory execution err")
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}

	return counts, nil
}

func (r *messagesRepository) ListByCategory(ctx context.Context, category string) ([]entity.ClassifiedMessage, error) {
	return r.list(ctx, "ListByCategory", queryListByCategory, map[string]interface{}{
		"category": category,
	})
}

// ListBySender returns the latest limit messages whose sender name contains
// senderName, ignoring case, oldest first.
func (r *messagesRepository) ListBySender(ctx context.Context, senderName string, limit int) ([]entity.ClassifiedMessage, error) {
	messages, err := r.list(ctx, "ListBySender", queryListBySender, map[string]interface{}{
		"pattern": "%" + strings.ToLower(senderName) + "%",
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *messagesRepository) ListAll(ctx context.Context) ([]entity.ClassifiedMessage, error) {
	return r.list(ctx, "ListAll", queryListAll, map[string]interface{}{})
}

func (r *messagesRepository) list(ctx context.Context, op, namedQuery string, argsKV map[string]interface{}) ([]entity.ClassifiedMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []MessageDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return nil, err
	}

	messages := make([]entity.ClassifiedMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, r.makeMessage(row))
	}

	return messages, nil
}

func (r *messagesRepository) makeMessage(row MessageDB) entity.ClassifiedMessage {
	return entity.ClassifiedMessage{
		Message: entity.Message{
			ID:                row.ID.String,
			ExternalID:        row.ExternalID.String,
			Body:              row.Body.String,
			Type:              row.Type.String,
			SentAt:            row.SentAt,
			SenderName:        row.SenderName.String,
			SenderNumber:      row.SenderNumber.String,
			SenderID:          row.SenderID.String,
			ChatID:            row.ChatID.String,
			ChatName:          row.ChatName.String,
			IsGroup:           row.IsGroup.Bool,
			ParticipantsCount: int(row.ParticipantsCount.Int64),
		},
		Classification: entity.Classification{
			Category:   row.Category.String,
			Confidence: int(row.Confidence.Int64),
		},
		CreatedAt: row.CreatedAt,
	}
}
