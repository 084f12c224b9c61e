package services

// ServiceContainer holds all service facades needed by the handlers.
type ServiceContainer struct {
	Member  MemberSvcFacade
	Product ProductSvcFacade
	Order   OrderSvcFacade
}
