package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"backend/models"
)

var ErrQueueFull = errors.New("write queue full")

type ledgerWrite struct {
	userID uint
	ledger *models.DailyLedger
	done   func(err error)
}

// WriteQueue applies ledger writes on a background worker so mutations never
// block on store I/O. Jobs run in enqueue order within this process; the
// store itself is a last-writer-wins full upsert, so there is no merge.
type WriteQueue struct {
	store *LedgerStore
	jobs  chan ledgerWrite
}

func NewWriteQueue(store *LedgerStore) *WriteQueue {
	q := &WriteQueue{store: store, jobs: make(chan ledgerWrite, 64)}
	go q.run()
	return q
}

func (q *WriteQueue) run() {
	for job := range q.jobs {
		err := q.store.Put(job.userID, job.ledger)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": job.userID,
				"date":    job.ledger.Date,
			}).WithError(err).Error("daily ledger write failed")
		}
		if job.done != nil {
			job.done(err)
		}
	}
}

// Enqueue schedules a full-document write without ever blocking the caller.
// done may be nil; a failed or dropped write is reported through it but never
// retried. When the queue is full the write is dropped with ErrQueueFull; a
// later write carries the full document anyway.
func (q *WriteQueue) Enqueue(userID uint, ledger *models.DailyLedger, done func(error)) {
	select {
	case q.jobs <- ledgerWrite{userID: userID, ledger: ledger, done: done}:
	default:
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"date":    ledger.Date,
		}).Warn("write queue full, dropping ledger write")
		if done != nil {
			done(ErrQueueFull)
		}
	}
}

func (q *WriteQueue) Close() {
	close(q.jobs)
}
