package pgsql

import (
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MemberRepo:  newPgxMemberRepository(dbPool),
		ProductRepo: newPgxProductRepository(dbPool),
		OrderRepo:   newPgxOrderRepository(dbPool),
	}
}
