package conversationRepository

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"MaxBot/internal/entity"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Messages: &messagesRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Messages interface {
		CreateMessage(ctx context.Context, msg entity.ClassifiedMessage) error
		CountByCategory(ctx context.Context) (map[string]int, error)
		ListByCategory(ctx context.Context, category string) ([]entity.ClassifiedMessage, error)
		ListBySender(ctx context.Context, senderName string, limit int) ([]entity.ClassifiedMessage, error)
		ListAll(ctx context.Context) ([]entity.ClassifiedMessage, error)
	}

	Commit   func() error
	Rollback func() error
}

type messagesRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
