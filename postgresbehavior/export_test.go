package postgresbehavior

import (
	"time"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/postgresbehavior/internal/adapters"
)

func NewTransactionForAdapter[Req cqrs.Request, Res cqrs.Response[Res]](
	db adapters.DBAdapter,
	opts ...TransactionOption[Req, Res],
) (*Transaction[Req, Res], error) {
	return newTransaction(db, opts)
}

func NewAuditForAdapter[Req cqrs.Request, Res cqrs.Response[Res]](
	db adapters.Querier,
	clock func() time.Time,
	opts ...AuditOption[Req, Res],
) (*Audit[Req, Res], error) {
	a, err := newAudit(db, opts)
	if err != nil {
		return nil, err
	}

	a.clock = clock

	return a, nil
}
