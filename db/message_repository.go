package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"messagebox/models"
)

// MessageRepository interface
type MessageRepository interface {
	CreateMessage(msg *models.Message) error
	FetchAndMarkNew(recipientID uint) ([]models.Message, error)
	DeleteMessage(id uint) (bool, error)
	DeleteMessages(ids []uint) (int64, error)
	ListByWindow(recipientID uint, start, stop time.Time) ([]models.Message, error)
}

// messageRepo struct
type messageRepo struct {
	DB *gorm.DB
}

// NewMessageRepo creates a new instance of MessageRepository
func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (r *messageRepo) CreateMessage(msg *models.Message) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return errors.Wrap(err, "create message")
	}
	return nil
}

// FetchAndMarkNew returns every unfetched message addressed to the
// recipient and flips its flag, all inside one transaction. The scan
// takes row locks so concurrent fetches for the same recipient
// serialize and each message is delivered exactly once.
func (r *messageRepo) FetchAndMarkNew(recipientID uint) ([]models.Message, error) {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "begin fetch transaction")
	}

	q := tx.Where("recipient_id = ? AND is_fetched = ?", recipientID, false)
	if tx.Dialector.Name() == "postgres" {
		// sqlite has no SELECT ... FOR UPDATE; its writer lock covers us there.
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var messages []models.Message
	if err := q.Find(&messages).Error; err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "scan unfetched messages")
	}

	if len(messages) == 0 {
		tx.Rollback()
		return messages, nil
	}

	ids := make([]uint, 0, len(messages))
	for i := range messages {
		ids = append(ids, messages[i].ID)
		messages[i].IsFetched = true
	}

	if err := tx.Model(&models.Message{}).Where("id IN ?", ids).Update("is_fetched", true).Error; err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "mark messages fetched")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.Wrap(err, "commit fetch transaction")
	}
	return messages, nil
}

// DeleteMessage removes one message. The second return reports whether a
// row was actually deleted.
func (r *messageRepo) DeleteMessage(id uint) (bool, error) {
	res := r.DB.Delete(&models.Message{}, id)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete message")
	}
	return res.RowsAffected > 0, nil
}

// DeleteMessages removes every matching id and returns how many rows
// went away. Ids that match nothing are ignored.
func (r *messageRepo) DeleteMessages(ids []uint) (int64, error) {
	res := r.DB.Where("id IN ?", ids).Delete(&models.Message{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete messages")
	}
	return res.RowsAffected, nil
}

// ListByWindow returns the recipient's messages with created_on inside
// [start, stop], both bounds inclusive, oldest first. Equal timestamps
// keep insertion order. Fetch flags are left untouched.
func (r *messageRepo) ListByWindow(recipientID uint, start, stop time.Time) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.
		Where("recipient_id = ? AND created_on >= ? AND created_on <= ?", recipientID, start, stop).
		Order("created_on ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "list messages by window")
	}
	return messages, nil
}
