package services

import (
	portsrepo "github.com/bingopos/bingo_backend/internal/core/ports/repositories"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Member:  NewMemberService(repos.MemberRepo),
		Product: NewProductService(repos.ProductRepo),
		Order:   NewOrderService(repos.OrderRepo, repos.MemberRepo),
	}
}
